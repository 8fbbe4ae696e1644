package repository

import (
	"fmt"
	"time"

	"lumina/internal/model"
	"lumina/internal/util"

	"gorm.io/gorm"
)

type LikeRepository interface {
	// Create inserts a like row. A concurrent duplicate insert surfaces as
	// gorm.ErrDuplicatedKey thanks to the unique (user_id, image_id) index;
	// callers decide how to treat the lost race.
	Create(like *model.Like) error
	DeleteByUserAndImage(userID, imageID string) (bool, error)
	FindByUserAndImage(userID, imageID string) (*model.Like, error)
	FindByImage(imageID string, limit, offset int) ([]*model.Like, int64, error)
	FindByUser(userID string, limit, offset int) ([]*model.Like, int64, error)
	CountByImage(imageID string) (int64, error)
	// CountByImageUncached always reads the database; the reconciler uses
	// it so a stale cache can never be written back as "repair".
	CountByImageUncached(imageID string) (int64, error)
	Count() (int64, error)
	DeleteByImage(imageID string) error
	DeleteByUser(userID string) error
}

type likeRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	likeCountCachePrefix = "like:count:"
	likeCacheExpiration  = 10 * time.Minute
)

func NewLikeRepository(db *gorm.DB, redis *util.RedisClient) LikeRepository {
	return &likeRepository{
		db:    db,
		redis: redis,
	}
}

// Create inserts a new like and invalidates the count cache
func (r *likeRepository) Create(like *model.Like) error {
	if err := r.db.Create(like).Error; err != nil {
		return err
	}

	r.invalidateCountCache(like.ImageID)
	return nil
}

// DeleteByUserAndImage removes the like row for a (user, image) pair and
// reports whether a row actually existed
func (r *likeRepository) DeleteByUserAndImage(userID, imageID string) (bool, error) {
	res := r.db.Where("user_id = ? AND image_id = ?", userID, imageID).Delete(&model.Like{})
	if res.Error != nil {
		return false, res.Error
	}

	if res.RowsAffected > 0 {
		r.invalidateCountCache(imageID)
	}
	return res.RowsAffected > 0, nil
}

// FindByUserAndImage finds a like by user and image (to check if user already liked)
func (r *likeRepository) FindByUserAndImage(userID, imageID string) (*model.Like, error) {
	var like model.Like
	err := r.db.Where("user_id = ? AND image_id = ?", userID, imageID).First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

// FindByImage returns likes on an image with the likers preloaded
func (r *likeRepository) FindByImage(imageID string, limit, offset int) ([]*model.Like, int64, error) {
	var total int64
	if err := r.db.Model(&model.Like{}).Where("image_id = ?", imageID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []*model.Like
	err := r.db.Preload("User").
		Where("image_id = ?", imageID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// FindByUser returns a user's likes with the liked images preloaded
func (r *likeRepository) FindByUser(userID string, limit, offset int) ([]*model.Like, int64, error) {
	var total int64
	if err := r.db.Model(&model.Like{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []*model.Like
	err := r.db.Preload("Image").Preload("Image.Category").Preload("Image.Uploader").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// CountByImage counts likes for an image, serving from cache when possible
func (r *likeRepository) CountByImage(imageID string) (int64, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(likeCountCachePrefix + imageID)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.Model(&model.Like{}).Where("image_id = ?", imageID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	// Cache the count
	if r.redis != nil {
		r.redis.Set(likeCountCachePrefix+imageID, fmt.Sprintf("%d", count), likeCacheExpiration)
	}

	return count, nil
}

// CountByImageUncached counts live like rows straight from the database and
// refreshes the cache with the result
func (r *likeRepository) CountByImageUncached(imageID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("image_id = ?", imageID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(likeCountCachePrefix+imageID, fmt.Sprintf("%d", count), likeCacheExpiration)
	}
	return count, nil
}

// Count counts all like rows
func (r *likeRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Count(&count).Error
	return count, err
}

// DeleteByImage removes all likes on an image (image deletion cleanup)
func (r *likeRepository) DeleteByImage(imageID string) error {
	if err := r.db.Where("image_id = ?", imageID).Delete(&model.Like{}).Error; err != nil {
		return err
	}
	r.invalidateCountCache(imageID)
	return nil
}

// DeleteByUser removes all likes made by a user (account deletion cleanup)
func (r *likeRepository) DeleteByUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Like{}).Error
}

func (r *likeRepository) invalidateCountCache(imageID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(likeCountCachePrefix + imageID)
}
