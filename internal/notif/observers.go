package notif

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"estante/internal/common"
	"estante/internal/dbmysql"
)

// DatabaseNotificationObserver persists every event so users can read their
// notification feed later.
type DatabaseNotificationObserver struct {
	repo dbmysql.NotificationRepository
}

func NewDatabaseNotificationObserver(repo dbmysql.NotificationRepository) *DatabaseNotificationObserver {
	return &DatabaseNotificationObserver{repo: repo}
}

func (d *DatabaseNotificationObserver) Name() string {
	return "database_observer"
}

func (d *DatabaseNotificationObserver) Update(event common.NotificationEvent) error {
	notification := &dbmysql.Notification{
		ID:            uuid.NewString(),
		UserID:        event.UserID,
		Type:          string(event.Type),
		Header:        event.Header,
		Content:       event.Content,
		Priority:      event.Priority,
		Status:        "pending",
		Metadata:      event.Metadata,
		TriggerUserID: event.TriggerUserID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := d.repo.Create(context.Background(), notification); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}
	return nil
}

// Pusher delivers a payload to a connected user, if any. The websocket hub
// implements it.
type Pusher interface {
	PushToUser(userID string, payload interface{})
}

// PushNotificationObserver forwards events to users connected over websocket.
type PushNotificationObserver struct {
	pusher Pusher
}

func NewPushNotificationObserver(pusher Pusher) *PushNotificationObserver {
	return &PushNotificationObserver{pusher: pusher}
}

func (p *PushNotificationObserver) Name() string {
	return "push_observer"
}

func (p *PushNotificationObserver) Update(event common.NotificationEvent) error {
	p.pusher.PushToUser(event.UserID, map[string]interface{}{
		"kind":       "notification",
		"type":       event.Type,
		"header":     event.Header,
		"content":    event.Content,
		"created_at": event.CreatedAt,
	})
	return nil
}
