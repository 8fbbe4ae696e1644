package util

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient wraps Firebase Cloud Messaging for push delivery to device tokens.
type FCMClient struct {
	messagingClient *messaging.Client
}

// PushPayload is the content of a single push notification
type PushPayload struct {
	Title     string
	Body      string
	ImageURL  string
	ActionURL string
	Data      map[string]string
}

func NewFCMClient(credentialsFile string) (*FCMClient, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMClient{messagingClient: messagingClient}, nil
}

// SendToDevices delivers a push notification to the given tokens and returns
// the tokens that failed, so callers can deactivate dead registrations.
func (c *FCMClient) SendToDevices(ctx context.Context, tokens []string, payload PushPayload) ([]string, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	data := payload.Data
	if data == nil {
		data = map[string]string{}
	}
	if payload.ActionURL != "" {
		data["action_url"] = payload.ActionURL
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title:    payload.Title,
			Body:     payload.Body,
			ImageURL: payload.ImageURL,
		},
		Data: data,
	}

	response, err := c.messagingClient.SendEachForMulticast(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("failed to send FCM multicast message: %w", err)
	}

	var failedTokens []string
	for i, resp := range response.Responses {
		if !resp.Success {
			failedTokens = append(failedTokens, tokens[i])
		}
	}
	if response.FailureCount > 0 {
		log.Printf("FCM multicast: %d success, %d failures", response.SuccessCount, response.FailureCount)
	}

	return failedTokens, nil
}
