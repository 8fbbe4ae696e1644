package repository

import (
	"fmt"
	"time"

	"lumina/internal/model"
	"lumina/internal/util"

	"gorm.io/gorm"
)

type ImageRepository interface {
	Create(image *model.Image) error
	Update(image *model.Image) error
	FindByID(id string) (*model.Image, error)
	FindByIDs(ids []string) ([]*model.Image, error)
	List(params ImageListParams) ([]*model.Image, int64, error)
	Delete(id string) error

	// Counter mutations. These are single-statement atomic updates; the
	// like service and the reconciler are the only callers for the likes
	// counter.
	IncrementViews(id string) error
	IncrementDownloads(id string) error
	IncrementLikesCount(id string) (int64, error)
	DecrementLikesCount(id string) (int64, error)
	SetLikesCount(id string, count int64) error

	Count() (int64, error)
	CountByCategory(categoryID string) (int64, error)
	CountCreatedSince(days int) (int64, error)
	SumCounters() (views, downloads, likes int64, err error)
	SumCountersByCategory(categoryID string) (views, downloads, likes int64, err error)
	TopUploaders(limit int) ([]UploaderStat, error)
}

// UploaderStat is one row of the top-contributors aggregation
type UploaderStat struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	ImageCount int64  `json:"image_count"`
	TotalViews int64  `json:"total_views"`
	TotalLikes int64  `json:"total_likes"`
}

// ImageListParams narrows and orders image listings
type ImageListParams struct {
	CategoryID string
	UploadedBy string
	Search     string
	Featured   *bool
	ActiveOnly bool
	SortBy     string // created_at, views, downloads, likes_count
	SortDesc   bool
	Limit      int
	Offset     int
}

type imageRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	imageCachePrefix     = "image:"
	imageCacheExpiration = 5 * time.Minute
)

func NewImageRepository(db *gorm.DB, redis *util.RedisClient) ImageRepository {
	return &imageRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new image record
func (r *imageRepository) Create(image *model.Image) error {
	return r.db.Create(image).Error
}

// Update saves image changes and invalidates cache
func (r *imageRepository) Update(image *model.Image) error {
	if err := r.db.Save(image).Error; err != nil {
		return err
	}
	r.invalidate(image.ID)
	return nil
}

// FindByID finds an image by ID with its category and uploader
func (r *imageRepository) FindByID(id string) (*model.Image, error) {
	var image model.Image
	err := r.db.Preload("Category").Preload("Uploader").Where("id = ?", id).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// FindByIDs loads multiple images by ID
func (r *imageRepository) FindByIDs(ids []string) ([]*model.Image, error) {
	if len(ids) == 0 {
		return []*model.Image{}, nil
	}
	var images []*model.Image
	err := r.db.Preload("Category").Preload("Uploader").Where("id IN ?", ids).Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

// List returns images matching the params plus the total count
func (r *imageRepository) List(params ImageListParams) ([]*model.Image, int64, error) {
	query := r.db.Model(&model.Image{})

	if params.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if params.CategoryID != "" {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.UploadedBy != "" {
		query = query.Where("uploaded_by = ?", params.UploadedBy)
	}
	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}
	if params.Search != "" {
		like := "%" + params.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ? OR tags LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sortBy := params.SortBy
	switch sortBy {
	case "views", "downloads", "likes_count", "created_at":
	default:
		sortBy = "created_at"
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	var images []*model.Image
	err := query.Preload("Category").Preload("Uploader").
		Order(fmt.Sprintf("%s %s", sortBy, direction)).
		Limit(params.Limit).
		Offset(params.Offset).
		Find(&images).Error
	if err != nil {
		return nil, 0, err
	}

	return images, total, nil
}

// Delete removes an image record
func (r *imageRepository) Delete(id string) error {
	if err := r.db.Where("id = ?", id).Delete(&model.Image{}).Error; err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// IncrementViews bumps the view counter in a single statement
func (r *imageRepository) IncrementViews(id string) error {
	err := r.db.Model(&model.Image{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// IncrementDownloads bumps the download counter in a single statement
func (r *imageRepository) IncrementDownloads(id string) error {
	err := r.db.Model(&model.Image{}).Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
	if err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// IncrementLikesCount bumps the denormalized likes counter and returns the
// stored value
func (r *imageRepository) IncrementLikesCount(id string) (int64, error) {
	err := r.db.Model(&model.Image{}).Where("id = ?", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count + 1")).Error
	if err != nil {
		return 0, err
	}
	r.invalidate(id)
	return r.readLikesCount(id)
}

// DecrementLikesCount lowers the counter, clamped at zero. The guard lives
// in the WHERE clause so the clamp and the write are one atomic statement.
func (r *imageRepository) DecrementLikesCount(id string) (int64, error) {
	err := r.db.Model(&model.Image{}).
		Where("id = ? AND likes_count > 0", id).
		UpdateColumn("likes_count", gorm.Expr("likes_count - 1")).Error
	if err != nil {
		return 0, err
	}
	r.invalidate(id)
	return r.readLikesCount(id)
}

// SetLikesCount overwrites the counter unconditionally (reconciliation)
func (r *imageRepository) SetLikesCount(id string, count int64) error {
	err := r.db.Model(&model.Image{}).Where("id = ?", id).
		UpdateColumn("likes_count", count).Error
	if err != nil {
		return err
	}
	r.invalidate(id)
	return nil
}

// Count counts all images
func (r *imageRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Image{}).Count(&count).Error
	return count, err
}

// CountByCategory counts images assigned to a category
func (r *imageRepository) CountByCategory(categoryID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Image{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, err
}

// CountCreatedSince counts images uploaded within the last N days
func (r *imageRepository) CountCreatedSince(days int) (int64, error) {
	var count int64
	cutoff := time.Now().AddDate(0, 0, -days)
	err := r.db.Model(&model.Image{}).Where("created_at >= ?", cutoff).Count(&count).Error
	return count, err
}

// SumCounters aggregates views, downloads and likes across all images
func (r *imageRepository) SumCounters() (int64, int64, int64, error) {
	var row struct {
		Views     int64
		Downloads int64
		Likes     int64
	}
	err := r.db.Model(&model.Image{}).
		Select("COALESCE(SUM(views),0) as views, COALESCE(SUM(downloads),0) as downloads, COALESCE(SUM(likes_count),0) as likes").
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return row.Views, row.Downloads, row.Likes, nil
}

// SumCountersByCategory aggregates counters across one category's images
func (r *imageRepository) SumCountersByCategory(categoryID string) (int64, int64, int64, error) {
	var row struct {
		Views     int64
		Downloads int64
		Likes     int64
	}
	err := r.db.Model(&model.Image{}).
		Where("category_id = ?", categoryID).
		Select("COALESCE(SUM(views),0) as views, COALESCE(SUM(downloads),0) as downloads, COALESCE(SUM(likes_count),0) as likes").
		Scan(&row).Error
	if err != nil {
		return 0, 0, 0, err
	}
	return row.Views, row.Downloads, row.Likes, nil
}

// TopUploaders ranks users by uploaded image count
func (r *imageRepository) TopUploaders(limit int) ([]UploaderStat, error) {
	var stats []UploaderStat
	err := r.db.Model(&model.Image{}).
		Select("images.uploaded_by as user_id, users.username as username, COUNT(images.id) as image_count, COALESCE(SUM(images.views),0) as total_views, COALESCE(SUM(images.likes_count),0) as total_likes").
		Joins("JOIN users ON users.id = images.uploaded_by").
		Group("images.uploaded_by, users.username").
		Order("image_count DESC").
		Limit(limit).
		Scan(&stats).Error
	return stats, err
}

func (r *imageRepository) readLikesCount(id string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Image{}).Where("id = ?", id).
		Pluck("likes_count", &count).Error
	return count, err
}

func (r *imageRepository) invalidate(id string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(imageCachePrefix + id)
}
