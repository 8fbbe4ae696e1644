package service

import (
	"context"
	"encoding/json"
	"log"

	"lumina/internal/repository"
	"lumina/internal/util"
	"lumina/internal/websocket"
)

// NotificationWorker consumes queued notifications and fans them out over
// WebSocket and FCM push. Delivery failures never reach the producer; the
// notification row is already persisted and readable through the API.
type NotificationWorker struct {
	rabbitmq  *util.RabbitMQClient
	hub       *websocket.Hub
	fcm       *util.FCMClient
	tokenRepo repository.DeviceTokenRepository
}

func NewNotificationWorker(
	rabbitmq *util.RabbitMQClient,
	hub *websocket.Hub,
	fcm *util.FCMClient,
	tokenRepo repository.DeviceTokenRepository,
) *NotificationWorker {
	return &NotificationWorker{
		rabbitmq:  rabbitmq,
		hub:       hub,
		fcm:       fcm,
		tokenRepo: tokenRepo,
	}
}

// Start declares the queue and consumes until the context is cancelled
func (w *NotificationWorker) Start(ctx context.Context) error {
	channel := w.rabbitmq.GetChannel()
	if channel == nil {
		return errChannelUnavailable
	}

	queue, err := channel.QueueDeclare(
		notificationQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	deliveries, err := channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return err
	}

	log.Printf("Notification worker started, queue=%s", queue.Name)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errChannelUnavailable
			}
			w.handle(ctx, delivery.Body)
			if err := delivery.Ack(false); err != nil {
				log.Printf("Failed to ack notification delivery: %v", err)
			}
		}
	}
}

func (w *NotificationWorker) handle(ctx context.Context, body []byte) {
	var msg NotificationMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		log.Printf("Dropping malformed notification message: %v", err)
		return
	}

	if w.hub != nil {
		w.hub.BroadcastToUser(msg.UserID, map[string]interface{}{
			"notification_id": msg.NotificationID,
			"type":            msg.Type,
			"title":           msg.Title,
			"message":         msg.Message,
			"image_id":        msg.ImageID,
			"report_id":       msg.ReportID,
			"action_url":      msg.ActionURL,
			"created_at":      msg.CreatedAt,
		})
	}

	w.push(ctx, msg)
}

func (w *NotificationWorker) push(ctx context.Context, msg NotificationMessage) {
	if w.fcm == nil || w.tokenRepo == nil {
		return
	}

	deviceTokens, err := w.tokenRepo.FindActiveByUser(msg.UserID)
	if err != nil {
		log.Printf("Failed to load device tokens for user %s: %v", msg.UserID, err)
		return
	}
	if len(deviceTokens) == 0 {
		return
	}

	tokens := make([]string, 0, len(deviceTokens))
	for _, t := range deviceTokens {
		tokens = append(tokens, t.Token)
	}

	failed, err := w.fcm.SendToDevices(ctx, tokens, util.PushPayload{
		Title:     msg.Title,
		Body:      msg.Message,
		ActionURL: msg.ActionURL,
		Data: map[string]string{
			"notification_id": msg.NotificationID,
			"type":            msg.Type,
		},
	})
	if err != nil {
		log.Printf("Push delivery failed for user %s: %v", msg.UserID, err)
		return
	}

	// Dead registrations get deactivated so we stop pushing to them
	if len(failed) > 0 {
		if err := w.tokenRepo.DeactivateTokens(failed); err != nil {
			log.Printf("Failed to deactivate %d dead token(s): %v", len(failed), err)
		}
	}
}
