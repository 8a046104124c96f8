package chat

import (
	"context"
	"time"

	"gorm.io/gorm"

	"estante/internal/dbmysql"
)

type MessageRepository interface {
	SaveMessage(ctx context.Context, msg *dbmysql.Message) error
	GetConversation(ctx context.Context, conversationID string, limit, offset int) ([]*dbmysql.Message, error)
	ListConversations(ctx context.Context, userID string) ([]string, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID string) error
	CountMessages(ctx context.Context) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) SaveMessage(ctx context.Context, msg *dbmysql.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// GetConversation returns messages newest first so handlers can page backwards
// through history.
func (r *messageRepository) GetConversation(ctx context.Context, conversationID string, limit, offset int) ([]*dbmysql.Message, error) {
	var messages []*dbmysql.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("sent_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) ListConversations(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Distinct("conversation_id").
		Pluck("conversation_id", &ids).Error
	return ids, err
}

func (r *messageRepository) MarkConversationRead(ctx context.Context, conversationID, readerID string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&dbmysql.Message{}).
		Where("conversation_id = ? AND recipient_id = ? AND read_at IS NULL", conversationID, readerID).
		Update("read_at", &now).Error
}

func (r *messageRepository) CountMessages(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&dbmysql.Message{}).Count(&count).Error
	return count, err
}
