package service

import (
	"errors"
	"strings"

	"lumina/internal/model"
	"lumina/internal/repository"

	"gorm.io/gorm"
)

type CategoryService interface {
	Create(input CreateCategoryInput) (*model.Category, error)
	Update(id string, input UpdateCategoryInput) (*model.Category, error)
	GetByID(id string) (*model.Category, error)
	GetBySlug(slug string) (*model.Category, error)
	List(activeOnly bool) ([]*model.Category, error)
	// Delete removes an empty category. Categories still holding images
	// return ErrCategoryNotEmpty.
	Delete(id string) error
	// Stats aggregates live counters across the category's images.
	Stats(id string) (*CategoryStats, error)
}

type CategoryStats struct {
	CategoryID string `json:"category_id"`
	Name       string `json:"name"`
	ImageCount int64  `json:"image_count"`
	Views      int64  `json:"views"`
	Downloads  int64  `json:"downloads"`
	Likes      int64  `json:"likes"`
}

type CreateCategoryInput struct {
	Name        string `json:"name" binding:"required,min=2,max=50"`
	Description string `json:"description" binding:"max=500"`
	Thumbnail   string `json:"thumbnail" binding:"omitempty,url"`
	SortOrder   int    `json:"sort_order"`
}

type UpdateCategoryInput struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=50"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Thumbnail   *string `json:"thumbnail" binding:"omitempty,url"`
	IsActive    *bool   `json:"is_active"`
	SortOrder   *int    `json:"sort_order"`
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	imageRepo    repository.ImageRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository, imageRepo repository.ImageRepository) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		imageRepo:    imageRepo,
	}
}

func (s *categoryService) Create(input CreateCategoryInput) (*model.Category, error) {
	if _, err := s.categoryRepo.FindByName(input.Name); err == nil {
		return nil, ErrDuplicate
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &model.Category{
		Name:        input.Name,
		Slug:        slugify(input.Name),
		Description: input.Description,
		Thumbnail:   input.Thumbnail,
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Update(id string, input UpdateCategoryInput) (*model.Category, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != category.Name {
		if _, err := s.categoryRepo.FindByName(*input.Name); err == nil {
			return nil, ErrDuplicate
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		category.Name = *input.Name
		category.Slug = slugify(*input.Name)
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.Thumbnail != nil {
		category.Thumbnail = *input.Thumbnail
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}

	if err := s.categoryRepo.Update(category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetByID(id string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(activeOnly bool) ([]*model.Category, error) {
	return s.categoryRepo.List(activeOnly)
}

func (s *categoryService) Delete(id string) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	// Count from the images table, not the denormalized counter, so a
	// drifted counter cannot block or allow deletion incorrectly.
	count, err := s.imageRepo.CountByCategory(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryNotEmpty
	}
	return s.categoryRepo.Delete(id)
}

func (s *categoryService) Stats(id string) (*CategoryStats, error) {
	category, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Counted live rather than read from the denormalized column.
	count, err := s.imageRepo.CountByCategory(id)
	if err != nil {
		return nil, err
	}
	views, downloads, likes, err := s.imageRepo.SumCountersByCategory(id)
	if err != nil {
		return nil, err
	}

	return &CategoryStats{
		CategoryID: category.ID,
		Name:       category.Name,
		ImageCount: count,
		Views:      views,
		Downloads:  downloads,
		Likes:      likes,
	}, nil
}

// slugify turns a display name into a URL-safe slug
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
