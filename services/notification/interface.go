package notification

import (
	"context"
	"fmt"

	"nutrilog/models"
	"nutrilog/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// NotificationService defines methods for sending FCM pushes.
type NotificationService interface {
	NotifyDietAssigned(ctx context.Context, p models.DietAssignedPayload) error
}

// MessageSender is satisfied by *messaging.Client.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	sender MessageSender
}

func NewDefaultNotificationService(sender MessageSender) (*DefaultNotificationService, error) {
	if sender == nil {
		return nil, fmt.Errorf("notification service initialization error: FCM client is nil")
	}
	return &DefaultNotificationService{sender: sender}, nil
}

// UserTopic is the FCM topic every signed-in client of a user subscribes to.
func UserTopic(userID string) string {
	return "user_" + userID
}

// BuildDietAssigned renders the push sent when a diet is saved for a user.
func BuildDietAssigned(p models.DietAssignedPayload) models.Notification {
	return models.Notification{
		Topic: UserTopic(p.UserID),
		Title: "New diet available",
		Body:  fmt.Sprintf("Your %d-day plan from %s is ready.", p.TotalDays, p.FileName),
		Data: map[string]string{
			"type":   "diet_assigned",
			"dietId": p.DietID,
		},
	}
}

func (s *DefaultNotificationService) NotifyDietAssigned(ctx context.Context, p models.DietAssignedPayload) error {
	n := BuildDietAssigned(p)
	msg := &messaging.Message{
		Topic: n.Topic,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "diet_updates",
				Sound:     "default",
			},
		},
	}

	id, err := s.sender.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("NotifyDietAssigned: failed to send FCM message: %w", err)
	}
	utils.GetLogger().Info("diet assigned push sent",
		zap.String("userId", p.UserID),
		zap.String("dietId", p.DietID),
		zap.String("messageId", id))
	return nil
}
