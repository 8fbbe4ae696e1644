package service

import (
	"context"
	"errors"
	"log"
	"strings"

	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/util"

	"gorm.io/gorm"
)

type ImageService interface {
	Upload(ctx context.Context, userID string, data []byte, input UploadImageInput) (*model.Image, error)
	GetImage(id string, countView bool) (*model.Image, error)
	ListImages(params repository.ImageListParams) ([]*model.Image, int64, error)
	UpdateImage(userID string, isAdmin bool, imageID string, input UpdateImageInput) (*model.Image, error)
	// DeleteImage removes the image row, its likes, its remote file, and
	// keeps the owning category's image count in step.
	DeleteImage(ctx context.Context, userID string, isAdmin bool, imageID string) error
	// RegisterDownload bumps the download counter and returns the URL.
	RegisterDownload(id string) (string, error)
	// SetFeatured flags an image as featured and notifies its uploader.
	SetFeatured(imageID string, featured bool) (*model.Image, error)
	// PopularImages lists active images ranked by like count.
	PopularImages(limit int) ([]*model.Image, error)
}

type UploadImageInput struct {
	Title       string  `form:"title" binding:"max=200"`
	Description string  `form:"description" binding:"max=2000"`
	CategoryID  *string `form:"category_id" binding:"omitempty,uuid"`
	Tags        string  `form:"tags" binding:"max=500"`
	Filename    string  `form:"-"`
	MimeType    string  `form:"-"`
}

type UpdateImageInput struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	CategoryID  *string `json:"category_id" binding:"omitempty,uuid"`
	Tags        *string `json:"tags" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type imageService struct {
	imageRepo    repository.ImageRepository
	likeRepo     repository.LikeRepository
	categoryRepo repository.CategoryRepository
	cloudinary   *util.CloudinaryClient
	notifier     NotificationService
}

func NewImageService(
	imageRepo repository.ImageRepository,
	likeRepo repository.LikeRepository,
	categoryRepo repository.CategoryRepository,
	cloudinary *util.CloudinaryClient,
	notifier NotificationService,
) ImageService {
	return &imageService{
		imageRepo:    imageRepo,
		likeRepo:     likeRepo,
		categoryRepo: categoryRepo,
		cloudinary:   cloudinary,
		notifier:     notifier,
	}
}

var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

func (s *imageService) Upload(ctx context.Context, userID string, data []byte, input UploadImageInput) (*model.Image, error) {
	if len(data) == 0 {
		return nil, ErrValidation
	}
	if !allowedMimeTypes[input.MimeType] {
		return nil, ErrValidation
	}

	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}

	if s.cloudinary == nil {
		return nil, errors.New("image storage not configured")
	}
	uploaded, err := s.cloudinary.UploadImage(ctx, data, input.Filename)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = strings.TrimSuffix(input.Filename, pathExt(input.Filename))
	}

	image := &model.Image{
		Title:        title,
		Description:  input.Description,
		Filename:     uploaded.PublicID,
		OriginalName: input.Filename,
		URL:          uploaded.URL,
		PublicID:     uploaded.PublicID,
		Size:         uploaded.Bytes,
		MimeType:     input.MimeType,
		Width:        uploaded.Width,
		Height:       uploaded.Height,
		CategoryID:   input.CategoryID,
		UploadedBy:   userID,
		Tags:         normalizeTags(input.Tags),
		IsActive:     true,
	}
	if err := s.imageRepo.Create(image); err != nil {
		// Orphaned remote file, clean it up
		if delErr := s.cloudinary.DeleteImage(ctx, uploaded.PublicID); delErr != nil {
			log.Printf("Failed to clean up orphaned upload %s: %v", uploaded.PublicID, delErr)
		}
		return nil, err
	}

	if image.CategoryID != nil {
		if err := s.categoryRepo.IncrementImageCount(*image.CategoryID); err != nil {
			log.Printf("Failed to increment image count for category %s: %v", *image.CategoryID, err)
		}
	}
	return image, nil
}

func (s *imageService) GetImage(id string, countView bool) (*model.Image, error) {
	image, err := s.imageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if countView {
		if err := s.imageRepo.IncrementViews(id); err != nil {
			log.Printf("Failed to count view for image %s: %v", id, err)
		} else {
			image.Views++
		}
	}
	return image, nil
}

func (s *imageService) ListImages(params repository.ImageListParams) ([]*model.Image, int64, error) {
	return s.imageRepo.List(params)
}

func (s *imageService) PopularImages(limit int) ([]*model.Image, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	images, _, err := s.imageRepo.List(repository.ImageListParams{
		ActiveOnly: true,
		SortBy:     "likes_count",
		SortDesc:   true,
		Limit:      limit,
	})
	return images, err
}

func (s *imageService) UpdateImage(userID string, isAdmin bool, imageID string, input UpdateImageInput) (*model.Image, error) {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if image.UploadedBy != userID && !isAdmin {
		return nil, ErrForbidden
	}

	if input.Title != nil {
		image.Title = *input.Title
	}
	if input.Description != nil {
		image.Description = *input.Description
	}
	if input.Tags != nil {
		image.Tags = normalizeTags(*input.Tags)
	}
	if input.IsActive != nil && isAdmin {
		image.IsActive = *input.IsActive
	}

	if input.CategoryID != nil {
		if err := s.moveCategory(image, input.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := s.imageRepo.Update(image); err != nil {
		return nil, err
	}
	return image, nil
}

// moveCategory reassigns the image and keeps both categories' image counts
// in step. An empty id clears the category.
func (s *imageService) moveCategory(image *model.Image, newID *string) error {
	var target *string
	if newID != nil && *newID != "" {
		if _, err := s.categoryRepo.FindByID(*newID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		target = newID
	}

	old := image.CategoryID
	if equalID(old, target) {
		return nil
	}

	if old != nil {
		if err := s.categoryRepo.DecrementImageCount(*old); err != nil {
			log.Printf("Failed to decrement image count for category %s: %v", *old, err)
		}
	}
	if target != nil {
		if err := s.categoryRepo.IncrementImageCount(*target); err != nil {
			log.Printf("Failed to increment image count for category %s: %v", *target, err)
		}
	}
	image.CategoryID = target
	return nil
}

func (s *imageService) DeleteImage(ctx context.Context, userID string, isAdmin bool, imageID string) error {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if image.UploadedBy != userID && !isAdmin {
		return ErrForbidden
	}

	if err := s.likeRepo.DeleteByImage(imageID); err != nil {
		return err
	}
	if err := s.imageRepo.Delete(imageID); err != nil {
		return err
	}

	if image.CategoryID != nil {
		if err := s.categoryRepo.DecrementImageCount(*image.CategoryID); err != nil {
			log.Printf("Failed to decrement image count for category %s: %v", *image.CategoryID, err)
		}
	}

	// Remote deletion is best-effort; the row is already gone.
	if s.cloudinary != nil && image.PublicID != "" {
		if err := s.cloudinary.DeleteImage(ctx, image.PublicID); err != nil {
			log.Printf("Failed to delete remote file %s: %v", image.PublicID, err)
		}
	}
	return nil
}

func (s *imageService) RegisterDownload(id string) (string, error) {
	image, err := s.imageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if err := s.imageRepo.IncrementDownloads(id); err != nil {
		log.Printf("Failed to count download for image %s: %v", id, err)
	}
	return image.URL, nil
}

func (s *imageService) SetFeatured(imageID string, featured bool) (*model.Image, error) {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if image.IsFeatured == featured {
		return image, nil
	}

	image.IsFeatured = featured
	if err := s.imageRepo.Update(image); err != nil {
		return nil, err
	}

	if featured && s.notifier != nil {
		if err := s.notifier.NotifyImageFeatured(image.UploadedBy, image.ID, image.Title); err != nil {
			log.Printf("Failed to notify uploader of featured image %s: %v", image.ID, err)
		}
	}
	return image, nil
}

func normalizeTags(tags string) string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool)
	for _, p := range parts {
		tag := strings.ToLower(strings.TrimSpace(p))
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return strings.Join(out, ",")
}

func pathExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

func equalID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
