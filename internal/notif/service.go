package notif

import (
	"context"
	"fmt"
	"time"

	"estante/internal/common"
	"estante/internal/config"
	"estante/internal/dbmysql"
)

type NotificationService struct {
	manager *NotificationManager
	repo    dbmysql.NotificationRepository
}

func NewNotificationService(cfg *config.Config, repo dbmysql.NotificationRepository, pusher Pusher) *NotificationService {
	manager := NewNotificationManager(cfg.Notification.Workers)

	manager.Subscribe(NewDatabaseNotificationObserver(repo))
	if pusher != nil {
		manager.Subscribe(NewPushNotificationObserver(pusher))
	}

	return &NotificationService{manager: manager, repo: repo}
}

// Publish queues an event for asynchronous delivery. It satisfies the
// publisher interface the chat service depends on.
func (s *NotificationService) Publish(event common.NotificationEvent) {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.manager.NotifyAsync(event)
}

func (s *NotificationService) SendNotification(ctx context.Context, event common.NotificationEvent) error {
	if err := validateEvent(event); err != nil {
		return fmt.Errorf("invalid notification event: %w", err)
	}
	s.manager.Notify(event)
	return nil
}

func (s *NotificationService) SendFriendRequestNotification(ctx context.Context, fromUserID, toUserID, fromDisplayName string) error {
	return s.SendNotification(ctx, common.NotificationEvent{
		Type:          common.FriendRequestType,
		UserID:        toUserID,
		TriggerUserID: &fromUserID,
		Header:        "New friend request",
		Content:       fmt.Sprintf("%s sent you a friend request", fromDisplayName),
		Priority:      3,
		Metadata:      common.NotificationMetadata{"from_user_id": fromUserID},
		CreatedAt:     time.Now(),
	})
}

func (s *NotificationService) SendFriendAcceptedNotification(ctx context.Context, accepterID, requesterID, accepterDisplayName string) error {
	return s.SendNotification(ctx, common.NotificationEvent{
		Type:          common.FriendAcceptedType,
		UserID:        requesterID,
		TriggerUserID: &accepterID,
		Header:        "Friend request accepted",
		Content:       fmt.Sprintf("%s accepted your friend request", accepterDisplayName),
		Priority:      2,
		Metadata:      common.NotificationMetadata{"accepter_id": accepterID},
		CreatedAt:     time.Now(),
	})
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ByUserID(ctx, userID, limit, offset)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.repo.MarkRead(ctx, id)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) Shutdown() {
	s.manager.Shutdown()
}

func validateEvent(event common.NotificationEvent) error {
	if event.UserID == "" {
		return fmt.Errorf("user_id is required")
	}
	if event.Type == "" {
		return fmt.Errorf("type is required")
	}
	if event.Header == "" {
		return fmt.Errorf("header is required")
	}
	return nil
}
