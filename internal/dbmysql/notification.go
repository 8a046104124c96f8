package dbmysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"estante/internal/common"
)

type Notification struct {
	ID            string  `gorm:"primaryKey;size:36"`
	UserID        string  `gorm:"not null;index;size:36"`
	Header        string  `gorm:"not null;size:255"`
	Content       string  `gorm:"not null;type:text"`
	Type          string  `gorm:"not null;size:50"`
	Status        string  `gorm:"default:'pending';size:50"`
	Priority      int     `gorm:"default:1"`
	TriggerUserID *string `gorm:"size:36"`
	ReadAt        *time.Time
	Metadata      common.NotificationMetadata `gorm:"type:json"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime"`
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ByUserID(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ByUserID(ctx context.Context, userID string, limit, offset int) ([]*Notification, error) {
	var notifications []*Notification

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}

	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"read_at": &now, "status": "read"})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification not found: %s", id)
	}
	return nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Count(&count).Error
	return count, err
}
