package repository

import (
	"time"

	"lumina/internal/model"
	"lumina/internal/util"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	Update(category *model.Category) error
	FindByID(id string) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindByName(name string) (*model.Category, error)
	List(activeOnly bool) ([]*model.Category, error)
	Count() (int64, error)
	Delete(id string) error

	// Counter mutations for the denormalized image count; the image service
	// and the reconciler are the only callers.
	IncrementImageCount(id string) error
	DecrementImageCount(id string) error
	SetImageCount(id string, count int64) error
}

type categoryRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	categoryListCacheKey    = "category:list"
	categoryCacheExpiration = 10 * time.Minute
)

func NewCategoryRepository(db *gorm.DB, redis *util.RedisClient) CategoryRepository {
	return &categoryRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new category and invalidates the list cache
func (r *categoryRepository) Create(category *model.Category) error {
	if err := r.db.Create(category).Error; err != nil {
		return err
	}
	r.invalidateList()
	return nil
}

// Update saves category changes and invalidates the list cache
func (r *categoryRepository) Update(category *model.Category) error {
	if err := r.db.Save(category).Error; err != nil {
		return err
	}
	r.invalidateList()
	return nil
}

// FindByID finds a category by ID
func (r *categoryRepository) FindByID(id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("id = ?", id).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindBySlug finds a category by slug
func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// FindByName finds a category by name
func (r *categoryRepository) FindByName(name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// List returns categories ordered by sort order then name
func (r *categoryRepository) List(activeOnly bool) ([]*model.Category, error) {
	query := r.db.Model(&model.Category{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var categories []*model.Category
	err := query.Order("sort_order ASC, name ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// Count counts all categories
func (r *categoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Count(&count).Error
	return count, err
}

// Delete removes a category
func (r *categoryRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Category{}).Error; err != nil {
		return err
	}
	r.invalidateList()
	return nil
}

// IncrementImageCount bumps the denormalized image count atomically
func (r *categoryRepository) IncrementImageCount(id string) error {
	err := r.db.Model(&model.Category{}).Where("id = ?", id).
		UpdateColumn("image_count", gorm.Expr("image_count + 1")).Error
	if err != nil {
		return err
	}
	r.invalidateList()
	return nil
}

// DecrementImageCount lowers the count, clamped at zero in the WHERE clause
func (r *categoryRepository) DecrementImageCount(id string) error {
	err := r.db.Model(&model.Category{}).
		Where("id = ? AND image_count > 0", id).
		UpdateColumn("image_count", gorm.Expr("image_count - 1")).Error
	if err != nil {
		return err
	}
	r.invalidateList()
	return nil
}

// SetImageCount overwrites the count unconditionally (reconciliation)
func (r *categoryRepository) SetImageCount(id string, count int64) error {
	err := r.db.Model(&model.Category{}).Where("id = ?", id).
		UpdateColumn("image_count", count).Error
	if err != nil {
		return err
	}
	r.invalidateList()
	return nil
}

func (r *categoryRepository) invalidateList() {
	if r.redis == nil {
		return
	}
	r.redis.Delete(categoryListCacheKey)
}
