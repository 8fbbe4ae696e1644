package repository

import (
	"time"

	"lumina/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DeviceTokenRepository interface {
	// Upsert writes the row keyed by (user_id, platform), replacing any
	// previous token registered from the same device slot.
	Upsert(token *model.DeviceToken) error
	// DeactivateTokenForOtherUsers enforces single ownership: any active
	// row holding this token string for a different user is turned off.
	DeactivateTokenForOtherUsers(token, userID string) (int64, error)
	DeactivateByUserAndToken(userID, token string) error
	DeactivateAllByUser(userID string) error
	DeactivateTokens(tokens []string) error
	FindActiveByUser(userID string) ([]*model.DeviceToken, error)
	FindActiveByToken(token string) ([]*model.DeviceToken, error)
}

type deviceTokenRepository struct {
	db *gorm.DB
}

func NewDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &deviceTokenRepository{db: db}
}

// Upsert inserts or updates the (user_id, platform) row
func (r *deviceTokenRepository) Upsert(token *model.DeviceToken) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "platform"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"token", "is_active", "last_used", "updated_at",
		}),
	}).Create(token).Error
}

// DeactivateTokenForOtherUsers turns off active rows holding the token for
// any other user, returning how many were affected
func (r *deviceTokenRepository) DeactivateTokenForOtherUsers(token, userID string) (int64, error) {
	res := r.db.Model(&model.DeviceToken{}).
		Where("token = ? AND user_id <> ? AND is_active = ?", token, userID, true).
		Updates(map[string]interface{}{
			"is_active":  false,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// DeactivateByUserAndToken turns off one specific registration
func (r *deviceTokenRepository) DeactivateByUserAndToken(userID, token string) error {
	return r.db.Model(&model.DeviceToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Update("is_active", false).Error
}

// DeactivateAllByUser turns off every registration for a user (logout from
// all devices, account deletion)
func (r *deviceTokenRepository) DeactivateAllByUser(userID string) error {
	return r.db.Model(&model.DeviceToken{}).
		Where("user_id = ?", userID).
		Update("is_active", false).Error
}

// DeactivateTokens turns off the given token strings (dead FCM registrations)
func (r *deviceTokenRepository) DeactivateTokens(tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.Model(&model.DeviceToken{}).
		Where("token IN ?", tokens).
		Update("is_active", false).Error
}

// FindActiveByUser returns a user's active registrations for push fan-out
func (r *deviceTokenRepository) FindActiveByUser(userID string) ([]*model.DeviceToken, error) {
	var tokens []*model.DeviceToken
	err := r.db.Where("user_id = ? AND is_active = ?", userID, true).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// FindActiveByToken returns active rows holding a token string; single
// ownership means this should never exceed one row
func (r *deviceTokenRepository) FindActiveByToken(token string) ([]*model.DeviceToken, error) {
	var tokens []*model.DeviceToken
	err := r.db.Where("token = ? AND is_active = ?", token, true).Find(&tokens).Error
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
