package common

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	FriendRequestType  NotificationType = "friend_request"
	FriendAcceptedType NotificationType = "friend_accepted"
	FriendRemovedType  NotificationType = "friend_removed"
	MessageType        NotificationType = "message"
	SystemType         NotificationType = "system"
)

type NotificationMetadata map[string]interface{}

// Value serializes the metadata to JSON for the SQL driver. Without it the
// driver receives a raw map and rejects the insert.
func (m NotificationMetadata) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan reads the JSON column back into the map.
func (m *NotificationMetadata) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported metadata column type %T", value)
	}
	return json.Unmarshal(data, m)
}

type NotificationEvent struct {
	Type          NotificationType
	UserID        string
	TriggerUserID *string
	Header        string
	Content       string
	Priority      int
	Metadata      NotificationMetadata
	CreatedAt     time.Time
}

// Observer receives notification events fanned out by the manager.
type Observer interface {
	Name() string
	Update(event NotificationEvent) error
}
