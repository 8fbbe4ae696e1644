package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"lumina/internal/model"
	"lumina/internal/repository"
	"lumina/internal/util"

	"gorm.io/gorm"
)

type NotificationService interface {
	Create(notification *model.Notification) error
	List(userID string, params repository.NotificationListParams) ([]*model.Notification, int64, error)
	UnreadCount(userID string) (int64, error)
	// MarkAsRead marks a notification read. Marking an already-read
	// notification is a no-op and keeps the original read timestamp.
	MarkAsRead(userID, notificationID string) error
	// MarkAllAsRead marks every unread notification read and returns how
	// many were affected.
	MarkAllAsRead(userID string) (int64, error)
	Delete(userID, notificationID string) error
	// ClearRead deletes all read notifications and returns the count.
	ClearRead(userID string) (int64, error)

	NotifyImageLiked(ownerID, likerID, likerName, imageID, imageTitle string) error
	NotifyReportUpdate(reporterID, reportID, status string) error
	NotifyImageFeatured(ownerID, imageID, imageTitle string) error
	NotifySystem(userID, title, message string) error
}

// NotificationMessage is the payload published to the notification queue
// for realtime and push fan-out.
type NotificationMessage struct {
	NotificationID string `json:"notification_id"`
	UserID         string `json:"user_id"`
	Type           string `json:"type"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	ImageID        string `json:"image_id,omitempty"`
	ReportID       string `json:"report_id,omitempty"`
	ActionURL      string `json:"action_url,omitempty"`
	CreatedAt      string `json:"created_at"`
}

const notificationQueue = "notifications"

type notificationService struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	rabbitmq         *util.RabbitMQClient
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	rabbitmq *util.RabbitMQClient,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		rabbitmq:         rabbitmq,
	}
}

// Create persists the notification and queues it for delivery. Queueing is
// best-effort; the notification is still readable through the API if the
// broker is down.
func (s *notificationService) Create(notification *model.Notification) error {
	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}
	s.publish(notification)
	return nil
}

func (s *notificationService) publish(n *model.Notification) {
	if s.rabbitmq == nil {
		return
	}

	msg := NotificationMessage{
		NotificationID: n.ID,
		UserID:         n.UserID,
		Type:           n.Type,
		Title:          n.Title,
		Message:        n.Message,
		ActionURL:      n.ActionURL,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
	if n.ImageID != nil {
		msg.ImageID = *n.ImageID
	}
	if n.ReportID != nil {
		msg.ReportID = *n.ReportID
	}

	body, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal notification %s: %v", n.ID, err)
		return
	}
	if err := s.rabbitmq.Publish("", notificationQueue, body); err != nil {
		log.Printf("Failed to publish notification %s: %v", n.ID, err)
	}
}

func (s *notificationService) List(userID string, params repository.NotificationListParams) ([]*model.Notification, int64, error) {
	return s.notificationRepo.FindByUser(userID, params)
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	return s.notificationRepo.CountUnreadByUser(userID)
}

func (s *notificationService) MarkAsRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	// Someone else's notification is indistinguishable from a missing one.
	if notification.UserID != userID {
		return ErrNotFound
	}
	if notification.IsRead {
		return nil
	}
	return s.notificationRepo.MarkAsRead(notificationID, time.Now())
}

func (s *notificationService) MarkAllAsRead(userID string) (int64, error) {
	return s.notificationRepo.MarkAllAsRead(userID, time.Now())
}

func (s *notificationService) Delete(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if notification.UserID != userID {
		return ErrNotFound
	}
	return s.notificationRepo.Delete(notificationID)
}

func (s *notificationService) ClearRead(userID string) (int64, error) {
	return s.notificationRepo.DeleteReadByUser(userID)
}

func (s *notificationService) NotifyImageLiked(ownerID, likerID, likerName, imageID, imageTitle string) error {
	if likerName == "" {
		if liker, err := s.userRepo.FindByID(likerID); err == nil {
			likerName = liker.Username
		} else {
			likerName = "Someone"
		}
	}

	title := imageTitle
	if title == "" {
		title = "your image"
	}

	return s.Create(&model.Notification{
		UserID:    ownerID,
		SenderID:  &likerID,
		Type:      model.NotificationTypeLike,
		Title:     "New like",
		Message:   fmt.Sprintf("%s liked %s", likerName, title),
		ImageID:   &imageID,
		ActionURL: "/images/" + imageID,
	})
}

func (s *notificationService) NotifyReportUpdate(reporterID, reportID, status string) error {
	return s.Create(&model.Notification{
		UserID:   reporterID,
		Type:     model.NotificationTypeReportUpdate,
		Title:    "Report update",
		Message:  fmt.Sprintf("Your report has been %s", status),
		ReportID: &reportID,
	})
}

func (s *notificationService) NotifyImageFeatured(ownerID, imageID, imageTitle string) error {
	title := imageTitle
	if title == "" {
		title = "Your image"
	}
	return s.Create(&model.Notification{
		UserID:    ownerID,
		Type:      model.NotificationTypeImageFeatured,
		Title:     "Image featured",
		Message:   fmt.Sprintf("%s was featured by our team", title),
		ImageID:   &imageID,
		ActionURL: "/images/" + imageID,
	})
}

func (s *notificationService) NotifySystem(userID, title, message string) error {
	return s.Create(&model.Notification{
		UserID:  userID,
		Type:    model.NotificationTypeSystem,
		Title:   title,
		Message: message,
	})
}
