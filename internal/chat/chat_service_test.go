package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"estante/internal/common"
	"estante/internal/dbmysql"
)

func TestConversationID(t *testing.T) {
	require.Equal(t, ConversationID("u1", "u2"), ConversationID("u2", "u1"))
	require.Equal(t, "u1:u2", ConversationID("u2", "u1"))
}

func TestChatService_SendMessage(t *testing.T) {
	tests := []struct {
		name       string
		sender     string
		recipient  string
		content    string
		setupMocks func(repo *MockMessageRepository, friends *MockFriendChecker, pub *MockEventPublisher)
		wantErr    error
		wantErrMsg string
	}{
		{
			name:      "delivers between friends and notifies recipient",
			sender:    "u1",
			recipient: "u2",
			content:   "oi, terminei o livro!",
			setupMocks: func(repo *MockMessageRepository, friends *MockFriendChecker, pub *MockEventPublisher) {
				friends.EXPECT().AreFriends(gomock.Any(), "u1", "u2").Return(true, nil)
				repo.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, msg *dbmysql.Message) error {
						require.Equal(t, "u1:u2", msg.ConversationID)
						require.Equal(t, "u1", msg.SenderID)
						require.False(t, msg.SentAt.IsZero())
						return nil
					})
				pub.EXPECT().Publish(gomock.Any()).Do(func(event common.NotificationEvent) {
					require.Equal(t, common.MessageType, event.Type)
					require.Equal(t, "u2", event.UserID)
					require.Equal(t, "u1", *event.TriggerUserID)
				})
			},
		},
		{
			name:       "rejects non-friends",
			sender:     "u1",
			recipient:  "u3",
			content:    "hello",
			setupMocks: func(repo *MockMessageRepository, friends *MockFriendChecker, pub *MockEventPublisher) {
				friends.EXPECT().AreFriends(gomock.Any(), "u1", "u3").Return(false, nil)
			},
			wantErr: ErrNotFriends,
		},
		{
			name:       "rejects blank content",
			sender:     "u1",
			recipient:  "u2",
			content:    "   ",
			setupMocks: func(repo *MockMessageRepository, friends *MockFriendChecker, pub *MockEventPublisher) {},
			wantErr:    ErrEmptyMessage,
		},
		{
			name:       "rejects self messaging",
			sender:     "u1",
			recipient:  "u1",
			content:    "hello",
			setupMocks: func(repo *MockMessageRepository, friends *MockFriendChecker, pub *MockEventPublisher) {},
			wantErrMsg: "cannot message yourself",
		},
		{
			name:      "no notification when save fails",
			sender:    "u1",
			recipient: "u2",
			content:   "hello",
			setupMocks: func(repo *MockMessageRepository, friends *MockFriendChecker, pub *MockEventPublisher) {
				friends.EXPECT().AreFriends(gomock.Any(), "u1", "u2").Return(true, nil)
				repo.EXPECT().SaveMessage(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantErrMsg: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := NewMockMessageRepository(ctrl)
			friends := NewMockFriendChecker(ctrl)
			pub := NewMockEventPublisher(ctrl)
			tt.setupMocks(repo, friends, pub)

			svc := NewChatService(repo, friends, pub)
			msg, err := svc.SendMessage(context.Background(), tt.sender, tt.recipient, tt.content)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, msg)
			case tt.wantErrMsg != "":
				require.EqualError(t, err, tt.wantErrMsg)
				require.Nil(t, msg)
			default:
				require.NoError(t, err)
				require.NotNil(t, msg)
			}
		})
	}
}

func TestChatService_GetConversation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockMessageRepository(ctrl)
	friends := NewMockFriendChecker(ctrl)

	// out-of-range paging falls back to defaults
	repo.EXPECT().GetConversation(gomock.Any(), "u1:u2", 50, 0).Return([]*dbmysql.Message{}, nil)

	svc := NewChatService(repo, friends, nil)
	_, err := svc.GetConversation(context.Background(), "u2", "u1", -5, -1)
	require.NoError(t, err)
}

func TestChatService_ListConversations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockMessageRepository(ctrl)
	repo.EXPECT().ListConversations(gomock.Any(), "u1").Return([]string{"u1:u2", "u0:u1", "broken"}, nil)

	svc := NewChatService(repo, NewMockFriendChecker(ctrl), nil)
	partners, err := svc.ListConversations(context.Background(), "u1")
	require.NoError(t, err)
	// pair ids resolve to the other participant; malformed ids are skipped
	require.Equal(t, []string{"u2", "u0"}, partners)
}

func TestChatService_MarkRead(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockMessageRepository(ctrl)
	repo.EXPECT().MarkConversationRead(gomock.Any(), "u1:u2", "u1").Return(nil)

	svc := NewChatService(repo, NewMockFriendChecker(ctrl), nil)
	require.NoError(t, svc.MarkRead(context.Background(), "u1", "u2"))
}
