package service

import (
	"errors"
	"log"

	"lumina/internal/repository"

	"gorm.io/gorm"
)

type ReconcileService interface {
	// RecountImageLikes recomputes one image's likes counter from the
	// relation table and overwrites the stored value.
	RecountImageLikes(imageID string) (int64, error)
	// RecountAllImageLikes walks every image and repairs its counter.
	// Returns the number of images whose counter was corrected.
	RecountAllImageLikes() (int64, error)
	// RecountCategoryImages recomputes one category's image count.
	RecountCategoryImages(categoryID string) (int64, error)
	// RecountAllCategoryImages repairs every category's image count.
	RecountAllCategoryImages() (int64, error)
}

type reconcileService struct {
	likeRepo     repository.LikeRepository
	imageRepo    repository.ImageRepository
	categoryRepo repository.CategoryRepository
}

func NewReconcileService(
	likeRepo repository.LikeRepository,
	imageRepo repository.ImageRepository,
	categoryRepo repository.CategoryRepository,
) ReconcileService {
	return &reconcileService{
		likeRepo:     likeRepo,
		imageRepo:    imageRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *reconcileService) RecountImageLikes(imageID string) (int64, error) {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	actual, err := s.likeRepo.CountByImageUncached(imageID)
	if err != nil {
		return 0, err
	}

	if image.LikesCount != actual {
		log.Printf("Repairing likes count for image %s: %d -> %d", imageID, image.LikesCount, actual)
		if err := s.imageRepo.SetLikesCount(imageID, actual); err != nil {
			return 0, err
		}
	}
	return actual, nil
}

func (s *reconcileService) RecountAllImageLikes() (int64, error) {
	var repaired int64
	offset := 0
	const batchSize = 200

	for {
		images, _, err := s.imageRepo.List(repository.ImageListParams{
			Limit:  batchSize,
			Offset: offset,
		})
		if err != nil {
			return repaired, err
		}
		if len(images) == 0 {
			break
		}

		for _, image := range images {
			actual, err := s.likeRepo.CountByImageUncached(image.ID)
			if err != nil {
				return repaired, err
			}
			if image.LikesCount != actual {
				if err := s.imageRepo.SetLikesCount(image.ID, actual); err != nil {
					return repaired, err
				}
				repaired++
			}
		}

		if len(images) < batchSize {
			break
		}
		offset += batchSize
	}

	if repaired > 0 {
		log.Printf("Likes reconciliation repaired %d image(s)", repaired)
	}
	return repaired, nil
}

func (s *reconcileService) RecountCategoryImages(categoryID string) (int64, error) {
	category, err := s.categoryRepo.FindByID(categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}

	actual, err := s.imageRepo.CountByCategory(categoryID)
	if err != nil {
		return 0, err
	}

	if category.ImageCount != actual {
		log.Printf("Repairing image count for category %s: %d -> %d", categoryID, category.ImageCount, actual)
		if err := s.categoryRepo.SetImageCount(categoryID, actual); err != nil {
			return 0, err
		}
	}
	return actual, nil
}

func (s *reconcileService) RecountAllCategoryImages() (int64, error) {
	categories, err := s.categoryRepo.List(false)
	if err != nil {
		return 0, err
	}

	var repaired int64
	for _, category := range categories {
		actual, err := s.imageRepo.CountByCategory(category.ID)
		if err != nil {
			return repaired, err
		}
		if category.ImageCount != actual {
			if err := s.categoryRepo.SetImageCount(category.ID, actual); err != nil {
				return repaired, err
			}
			repaired++
		}
	}
	return repaired, nil
}
