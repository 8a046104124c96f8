package chat

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"estante/internal/common"
	"estante/internal/dbmysql"
)

const maxMessageLength = 2000

var (
	ErrNotFriends   = errors.New("users are not friends")
	ErrEmptyMessage = errors.New("message content is empty")
)

// FriendChecker answers whether two users hold an accepted friendship edge.
type FriendChecker interface {
	AreFriends(ctx context.Context, ownerID, targetID string) (bool, error)
}

// EventPublisher pushes a notification event to interested observers.
type EventPublisher interface {
	Publish(event common.NotificationEvent)
}

type ChatService interface {
	SendMessage(ctx context.Context, senderID, recipientID, content string) (*dbmysql.Message, error)
	GetConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*dbmysql.Message, error)
	ListConversations(ctx context.Context, userID string) ([]string, error)
	MarkRead(ctx context.Context, userID, otherID string) error
}

type chatService struct {
	repo      MessageRepository
	friends   FriendChecker
	publisher EventPublisher
}

func NewChatService(repo MessageRepository, friends FriendChecker, publisher EventPublisher) ChatService {
	return &chatService{repo: repo, friends: friends, publisher: publisher}
}

// ConversationID derives a stable identifier for a user pair, independent of
// who writes first.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + ":" + pair[1]
}

func (s *chatService) SendMessage(ctx context.Context, senderID, recipientID, content string) (*dbmysql.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if len(content) > maxMessageLength {
		return nil, errors.New("message is too long")
	}
	if senderID == recipientID {
		return nil, errors.New("cannot message yourself")
	}

	ok, err := s.friends.AreFriends(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}

	msg := &dbmysql.Message{
		ConversationID: ConversationID(senderID, recipientID),
		SenderID:       senderID,
		RecipientID:    recipientID,
		Content:        content,
		SentAt:         time.Now(),
	}
	if err := s.repo.SaveMessage(ctx, msg); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		s.publisher.Publish(common.NotificationEvent{
			Type:          common.MessageType,
			UserID:        recipientID,
			TriggerUserID: &senderID,
			Header:        "New message",
			Content:       content,
			CreatedAt:     msg.SentAt,
		})
	}
	return msg, nil
}

func (s *chatService) GetConversation(ctx context.Context, userID, otherID string, limit, offset int) ([]*dbmysql.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.GetConversation(ctx, ConversationID(userID, otherID), limit, offset)
}

// ListConversations returns the ids of users this user has exchanged
// messages with, derived from the stored conversation pair ids.
func (s *chatService) ListConversations(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	partners := make([]string, 0, len(ids))
	for _, id := range ids {
		a, b, ok := strings.Cut(id, ":")
		if !ok {
			continue
		}
		if a == userID {
			partners = append(partners, b)
		} else {
			partners = append(partners, a)
		}
	}
	return partners, nil
}

func (s *chatService) MarkRead(ctx context.Context, userID, otherID string) error {
	return s.repo.MarkConversationRead(ctx, ConversationID(userID, otherID), userID)
}
