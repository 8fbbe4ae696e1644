package service

import (
	"errors"
	"log"

	"lumina/internal/model"
	"lumina/internal/repository"

	"gorm.io/gorm"
)

type LikeService interface {
	// ToggleLike flips the like state for (userID, imageID) and returns the
	// new state plus the stored likes count.
	ToggleLike(userID, imageID string) (*ToggleResult, error)
	CheckStatus(userID, imageID string) (bool, error)
	GetImageLikes(imageID string, limit, offset int) ([]*model.Like, int64, error)
	GetMyLikes(userID string, limit, offset int) ([]*model.Like, int64, error)
	// RemoveAllByUser deletes every like the user placed and gives each
	// liked image its counter decrement. Account deletion calls this so
	// the counter stays owned by this service and reconciliation.
	RemoveAllByUser(userID string) error
}

// ToggleResult is what a toggle call reports back to the caller
type ToggleResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

type likeService struct {
	likeRepo  repository.LikeRepository
	imageRepo repository.ImageRepository
	notifier  Notifier
}

// Notifier is the slice of the notification service the like toggle needs.
// Delivery is best-effort: the toggle never fails because of it.
type Notifier interface {
	NotifyImageLiked(ownerID, likerID, likerName, imageID, imageTitle string) error
}

func NewLikeService(
	likeRepo repository.LikeRepository,
	imageRepo repository.ImageRepository,
	notifier Notifier,
) LikeService {
	return &likeService{
		likeRepo:  likeRepo,
		imageRepo: imageRepo,
		notifier:  notifier,
	}
}

// ToggleLike implements the like/unlike toggle. The relation row and the
// denormalized counter are two separate writes with no transaction across
// them; a crash between the two leaves drift that reconciliation repairs.
func (s *likeService) ToggleLike(userID, imageID string) (*ToggleResult, error) {
	image, err := s.imageRepo.FindByID(imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	existing, err := s.likeRepo.FindByUserAndImage(userID, imageID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if existing != nil {
		return s.unlike(userID, imageID)
	}
	return s.like(userID, image)
}

func (s *likeService) unlike(userID, imageID string) (*ToggleResult, error) {
	removed, err := s.likeRepo.DeleteByUserAndImage(userID, imageID)
	if err != nil {
		return nil, err
	}
	if !removed {
		// A concurrent unlike got there first; the relation is already
		// gone, so the counter must not be decremented again.
		count, err := s.likeRepo.CountByImage(imageID)
		if err != nil {
			return nil, err
		}
		return &ToggleResult{Liked: false, LikesCount: count}, nil
	}

	count, err := s.imageRepo.DecrementLikesCount(imageID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Liked: false, LikesCount: count}, nil
}

func (s *likeService) like(userID string, image *model.Image) (*ToggleResult, error) {
	like := &model.Like{
		UserID:  userID,
		ImageID: image.ID,
	}

	if err := s.likeRepo.Create(like); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race against a concurrent like from the same user.
			// The winning insert owns the counter increment, so report
			// the liked state without touching the counter.
			count, countErr := s.likeRepo.CountByImage(image.ID)
			if countErr != nil {
				return nil, countErr
			}
			return &ToggleResult{Liked: true, LikesCount: count}, nil
		}
		return nil, err
	}

	count, err := s.imageRepo.IncrementLikesCount(image.ID)
	if err != nil {
		return nil, err
	}

	// Notify the owner, unless the owner liked their own image. Failures
	// are logged and swallowed; the toggle already succeeded.
	if s.notifier != nil && image.UploadedBy != userID {
		if err := s.notifier.NotifyImageLiked(image.UploadedBy, userID, "", image.ID, image.Title); err != nil {
			log.Printf("Failed to send like notification for image %s: %v", image.ID, err)
		}
	}

	return &ToggleResult{Liked: true, LikesCount: count}, nil
}

// CheckStatus reports whether the user has liked the image
func (s *likeService) CheckStatus(userID, imageID string) (bool, error) {
	_, err := s.likeRepo.FindByUserAndImage(userID, imageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetImageLikes returns the users who liked an image
func (s *likeService) GetImageLikes(imageID string, limit, offset int) ([]*model.Like, int64, error) {
	return s.likeRepo.FindByImage(imageID, limit, offset)
}

// GetMyLikes returns the images a user has liked
func (s *likeService) GetMyLikes(userID string, limit, offset int) ([]*model.Like, int64, error) {
	return s.likeRepo.FindByUser(userID, limit, offset)
}

func (s *likeService) RemoveAllByUser(userID string) error {
	const batchSize = 200
	for {
		likes, _, err := s.likeRepo.FindByUser(userID, batchSize, 0)
		if err != nil {
			return err
		}
		if len(likes) == 0 {
			return nil
		}
		for _, like := range likes {
			removed, err := s.likeRepo.DeleteByUserAndImage(userID, like.ImageID)
			if err != nil {
				return err
			}
			if removed {
				// A failure here leaves drift for reconciliation.
				if _, err := s.imageRepo.DecrementLikesCount(like.ImageID); err != nil {
					log.Printf("Failed to decrement likes count for image %s: %v", like.ImageID, err)
				}
			}
		}
		if len(likes) < batchSize {
			return nil
		}
	}
}
