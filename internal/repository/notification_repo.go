package repository

import (
	"fmt"
	"time"

	"lumina/internal/model"
	"lumina/internal/util"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByID(id string) (*model.Notification, error)
	FindByUser(userID string, params NotificationListParams) ([]*model.Notification, int64, error)
	CountUnreadByUser(userID string) (int64, error)
	MarkAsRead(id string, readAt time.Time) error
	MarkAllAsRead(userID string, readAt time.Time) (int64, error)
	Delete(id string) error
	DeleteReadByUser(userID string) (int64, error)
	DeleteByUser(userID string) error
}

// NotificationListParams narrows a user's notification listing
type NotificationListParams struct {
	IsRead *bool
	Type   string
	Limit  int
	Offset int
}

type notificationRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	notificationCountCachePrefix = "notification:unread:"
	notificationCacheExpiration  = 5 * time.Minute
)

func NewNotificationRepository(db *gorm.DB, redis *util.RedisClient) NotificationRepository {
	return &notificationRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new notification and invalidates the unread-count cache
func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return err
	}

	r.invalidateUnreadCache(notification.UserID)
	return nil
}

// FindByID finds a notification by ID
func (r *notificationRepository) FindByID(id string) (*model.Notification, error) {
	var notification model.Notification
	err := r.db.Where("id = ?", id).First(&notification).Error
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

// FindByUser returns a user's notifications, newest first
func (r *notificationRepository) FindByUser(userID string, params NotificationListParams) ([]*model.Notification, int64, error) {
	query := r.db.Model(&model.Notification{}).Where("user_id = ?", userID)

	if params.IsRead != nil {
		query = query.Where("is_read = ?", *params.IsRead)
	}
	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []*model.Notification
	err := query.Preload("Sender").
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

// CountUnreadByUser counts unread notifications for a user
func (r *notificationRepository) CountUnreadByUser(userID string) (int64, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(notificationCountCachePrefix + userID)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	// Cache the count
	if r.redis != nil {
		r.redis.Set(notificationCountCachePrefix+userID, fmt.Sprintf("%d", count), notificationCacheExpiration)
	}

	return count, nil
}

// MarkAsRead flips an unread notification to read. The is_read guard in the
// WHERE clause keeps the transition monotonic: an already-read row is left
// untouched and its read_at preserved.
func (r *notificationRepository) MarkAsRead(id string, readAt time.Time) error {
	var notification model.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		return err
	}

	err := r.db.Model(&model.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
	if err != nil {
		return err
	}

	r.invalidateUnreadCache(notification.UserID)
	return nil
}

// MarkAllAsRead bulk-updates all unread rows for a user, returning the
// number modified
func (r *notificationRepository) MarkAllAsRead(userID string, readAt time.Time) (int64, error) {
	res := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		})
	if res.Error != nil {
		return 0, res.Error
	}

	r.invalidateUnreadCache(userID)
	return res.RowsAffected, nil
}

// Delete removes a notification
func (r *notificationRepository) Delete(id string) error {
	var notification model.Notification
	if err := r.db.Where("id = ?", id).First(&notification).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&notification).Error; err != nil {
		return err
	}

	r.invalidateUnreadCache(notification.UserID)
	return nil
}

// DeleteReadByUser bulk-deletes all read rows for a user, returning the
// number removed
func (r *notificationRepository) DeleteReadByUser(userID string) (int64, error) {
	res := r.db.Where("user_id = ? AND is_read = ?", userID, true).Delete(&model.Notification{})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// DeleteByUser removes all notifications for a user (account deletion cleanup)
func (r *notificationRepository) DeleteByUser(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.Notification{}).Error; err != nil {
		return err
	}
	r.invalidateUnreadCache(userID)
	return nil
}

func (r *notificationRepository) invalidateUnreadCache(userID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(notificationCountCachePrefix + userID)
}
