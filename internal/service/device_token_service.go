package service

import (
	"log"
	"time"

	"lumina/internal/model"
	"lumina/internal/repository"
)

type DeviceTokenService interface {
	// Register claims a push token for a user. The same token held by any
	// other user is deactivated first, and the user's existing row for the
	// platform is overwritten.
	Register(userID string, input RegisterDeviceInput) error
	Revoke(userID, token string) error
	RevokeAll(userID string) error
	ActiveTokens(userID string) ([]*model.DeviceToken, error)
}

type RegisterDeviceInput struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required,oneof=ios android web"`
}

type deviceTokenService struct {
	tokenRepo repository.DeviceTokenRepository
}

func NewDeviceTokenService(tokenRepo repository.DeviceTokenRepository) DeviceTokenService {
	return &deviceTokenService{tokenRepo: tokenRepo}
}

func (s *deviceTokenService) Register(userID string, input RegisterDeviceInput) error {
	displaced, err := s.tokenRepo.DeactivateTokenForOtherUsers(input.Token, userID)
	if err != nil {
		return err
	}
	if displaced > 0 {
		log.Printf("Device token moved to user %s, deactivated %d previous owner(s)", userID, displaced)
	}

	return s.tokenRepo.Upsert(&model.DeviceToken{
		UserID:   userID,
		Token:    input.Token,
		Platform: input.Platform,
		IsActive: true,
		LastUsed: time.Now(),
	})
}

func (s *deviceTokenService) Revoke(userID, token string) error {
	return s.tokenRepo.DeactivateByUserAndToken(userID, token)
}

func (s *deviceTokenService) RevokeAll(userID string) error {
	return s.tokenRepo.DeactivateAllByUser(userID)
}

func (s *deviceTokenService) ActiveTokens(userID string) ([]*model.DeviceToken, error) {
	return s.tokenRepo.FindActiveByUser(userID)
}
