package service

import (
	"context"
	"errors"
	"log"

	"lumina/internal/model"
	"lumina/internal/repository"

	"gorm.io/gorm"
)

type UserService interface {
	List(params repository.UserListParams) ([]*model.User, int64, error)
	GetByID(id string) (*model.User, error)
	// UpdateRoleStatus lets an admin change a user's role or status.
	UpdateRoleStatus(adminID, userID string, input UpdateUserInput) (*model.User, error)
	// Delete removes the account together with its images, likes,
	// notifications, and device tokens. Reports filed by the user stay.
	Delete(ctx context.Context, adminID, userID string) error
}

type UpdateUserInput struct {
	Role   *string `json:"role" binding:"omitempty,oneof=user admin"`
	Status *string `json:"status" binding:"omitempty,oneof=active banned"`
}

type userService struct {
	userRepo         repository.UserRepository
	imageRepo        repository.ImageRepository
	notificationRepo repository.NotificationRepository
	tokenRepo        repository.DeviceTokenRepository
	likeService      LikeService
	imageService     ImageService
}

func NewUserService(
	userRepo repository.UserRepository,
	imageRepo repository.ImageRepository,
	notificationRepo repository.NotificationRepository,
	tokenRepo repository.DeviceTokenRepository,
	likeService LikeService,
	imageService ImageService,
) UserService {
	return &userService{
		userRepo:         userRepo,
		imageRepo:        imageRepo,
		notificationRepo: notificationRepo,
		tokenRepo:        tokenRepo,
		likeService:      likeService,
		imageService:     imageService,
	}
}

func (s *userService) List(params repository.UserListParams) ([]*model.User, int64, error) {
	return s.userRepo.List(params)
}

func (s *userService) GetByID(id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateRoleStatus(adminID, userID string, input UpdateUserInput) (*model.User, error) {
	if adminID == userID {
		// An admin cannot demote or ban themselves
		return nil, ErrForbidden
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Status != nil {
		user.Status = *input.Status
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, adminID, userID string) error {
	if adminID == userID {
		return ErrForbidden
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	// The like service owns the counter decrements; this path never
	// touches images.likes_count itself.
	if err := s.likeService.RemoveAllByUser(userID); err != nil {
		return err
	}

	const batchSize = 200

	// The user's own images go through the image service so categories,
	// likes, and remote files are cleaned up the same way as a manual
	// deletion.
	for {
		images, _, err := s.imageRepo.List(repository.ImageListParams{
			UploadedBy: userID,
			Limit:      batchSize,
		})
		if err != nil {
			return err
		}
		if len(images) == 0 {
			break
		}
		for _, image := range images {
			if err := s.imageService.DeleteImage(ctx, userID, true, image.ID); err != nil {
				return err
			}
		}
		if len(images) < batchSize {
			break
		}
	}

	if err := s.notificationRepo.DeleteByUser(userID); err != nil {
		return err
	}
	if err := s.tokenRepo.DeactivateAllByUser(userID); err != nil {
		return err
	}

	log.Printf("Deleting user %s (%s)", user.ID, user.Username)
	return s.userRepo.Delete(userID)
}
