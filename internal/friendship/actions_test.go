package friendship

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingEdge(id, friendID, name string, status Status) Friendship {
	return Friendship{
		ID:        id,
		OwnerID:   "u1",
		FriendID:  friendID,
		Friend:    Profile{DisplayName: name},
		Status:    status,
		CreatedAt: time.Now(),
	}
}

func TestActions_RequireLoggedInUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	s := NewSession("", store, NewCache(DefaultCacheTTL), notifier, testOptions())

	tests := []struct {
		name string
		call func() error
	}{
		{"send", func() error { return s.SendRequest(ctx, "u2") }},
		{"accept", func() error { return s.AcceptRequest(ctx, "e1") }},
		{"reject", func() error { return s.RejectRequest(ctx, "e1") }},
		{"cancel", func() error { return s.CancelSentRequest(ctx, "e1") }},
		{"cancel all", func() error { return s.CancelAllSentRequests(ctx) }},
		{"remove", func() error { return s.RemoveFriend(ctx, "e1") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notifier.EXPECT().Failure("You must be logged in")
			err := tc.call()
			assert.ErrorIs(t, err, ErrNotLoggedIn)
		})
	}
}

func TestSendRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), notifier, testOptions())

	t.Run("success", func(t *testing.T) {
		store.EXPECT().CreateEdge(ctx, "u1", "u2").Return(nil)
		notifier.EXPECT().Success("Friend request sent!")
		require.NoError(t, s.SendRequest(ctx, "u2"))
	})

	t.Run("empty target", func(t *testing.T) {
		notifier.EXPECT().Failure("No user selected")
		assert.Error(t, s.SendRequest(ctx, ""))
	})

	t.Run("self target", func(t *testing.T) {
		notifier.EXPECT().Failure("You cannot send a request to yourself")
		assert.Error(t, s.SendRequest(ctx, "u1"))
	})

	t.Run("store failure re-thrown after notice", func(t *testing.T) {
		store.EXPECT().CreateEdge(ctx, "u1", "u3").Return(fmt.Errorf("write denied"))
		notifier.EXPECT().Failure("Could not send friend request")
		err := s.SendRequest(ctx, "u3")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "write denied")
	})
}

func TestAcceptRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	cache := NewCache(DefaultCacheTTL)
	s := NewSession("u1", store, cache, notifier, testOptions())
	s.onRequestsSnapshot([]Friendship{
		pendingEdge("req-1", "u9", "Maria", StatusPendingIncoming),
	})

	t.Run("stale id never reaches the store", func(t *testing.T) {
		notifier.EXPECT().Failure("Request not found")
		err := s.AcceptRequest(ctx, "req-gone")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("success invalidates the friends cache", func(t *testing.T) {
		cache.Put("u1", RelationFriends, nil, nil)

		store.EXPECT().AcceptEdge(ctx, "u1", "u9").Return(nil)
		notifier.EXPECT().Success("You and Maria are now friends!")

		require.NoError(t, s.AcceptRequest(ctx, "req-1"))

		_, ok := cache.Get("u1", RelationFriends)
		assert.False(t, ok, "friends cache entry must be gone")
	})

	t.Run("store failure re-thrown after notice", func(t *testing.T) {
		store.EXPECT().AcceptEdge(ctx, "u1", "u9").Return(fmt.Errorf("conflict"))
		notifier.EXPECT().Failure("Could not accept request")
		assert.Error(t, s.AcceptRequest(ctx, "req-1"))
	})
}

func TestRejectAndCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), notifier, testOptions())
	s.onRequestsSnapshot([]Friendship{
		pendingEdge("req-1", "u5", "Paulo", StatusPendingIncoming),
	})
	s.onSentSnapshot([]Friendship{
		pendingEdge("sent-1", "u6", "Rita", StatusPendingOutgoing),
	})

	t.Run("reject incoming", func(t *testing.T) {
		store.EXPECT().RejectEdge(ctx, "u1", "u5").Return(nil)
		notifier.EXPECT().Success("Request rejected")
		require.NoError(t, s.RejectRequest(ctx, "req-1"))
	})

	t.Run("cancel outgoing", func(t *testing.T) {
		store.EXPECT().RejectEdge(ctx, "u1", "u6").Return(nil)
		notifier.EXPECT().Success("Request cancelled")
		require.NoError(t, s.CancelSentRequest(ctx, "sent-1"))
	})

	t.Run("cancel resolves only from the outgoing collection", func(t *testing.T) {
		notifier.EXPECT().Failure("Request not found")
		assert.ErrorIs(t, s.CancelSentRequest(ctx, "req-1"), ErrNotFound)
	})
}

func TestCancelAllSentRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), notifier, testOptions())

	t.Run("empty collection is a no-op notice", func(t *testing.T) {
		// no store expectations: zero remote calls
		notifier.EXPECT().Failure("No sent requests to cancel")
		require.NoError(t, s.CancelAllSentRequests(ctx))
	})

	t.Run("cancels every pending request", func(t *testing.T) {
		s.onSentSnapshot([]Friendship{
			pendingEdge("sent-1", "u5", "A", StatusPendingOutgoing),
			pendingEdge("sent-2", "u6", "B", StatusPendingOutgoing),
			pendingEdge("sent-3", "u7", "C", StatusPendingOutgoing),
		})

		store.EXPECT().RejectEdge(gomock.Any(), "u1", "u5").Return(nil)
		store.EXPECT().RejectEdge(gomock.Any(), "u1", "u6").Return(nil)
		store.EXPECT().RejectEdge(gomock.Any(), "u1", "u7").Return(nil)
		notifier.EXPECT().Success("All 3 sent requests were cancelled")

		require.NoError(t, s.CancelAllSentRequests(ctx))
	})
}

func TestRemoveFriend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	cache := NewCache(DefaultCacheTTL)
	s := NewSession("u1", store, cache, notifier, testOptions())
	s.onFriendsSnapshot([]Friendship{
		{ID: "fr-1", OwnerID: "u1", FriendID: "u8", Friend: Profile{DisplayName: "Nina"}, Status: StatusAccepted},
	})

	t.Run("unknown edge", func(t *testing.T) {
		notifier.EXPECT().Failure("Friend not found")
		assert.ErrorIs(t, s.RemoveFriend(ctx, "nope"), ErrNotFound)
	})

	t.Run("success invalidates cache so next load hits the store", func(t *testing.T) {
		cache.Put("u1", RelationFriends, s.AllFriends(), nil)

		store.EXPECT().DeleteEdge(ctx, "u1", "u8").Return(nil)
		notifier.EXPECT().Success("Nina was removed from your friends")
		require.NoError(t, s.RemoveFriend(ctx, "fr-1"))

		// the stale cache is gone, the next full load must scan the store
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, gomock.Any()).
			Return(&Page{Items: nil, HasMore: false}, nil).
			MinTimes(1)
		s.LoadAll(ctx, false)
	})
}

func TestFriendshipStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.onFriendsSnapshot([]Friendship{{ID: "a", FriendID: "u2", Status: StatusAccepted}})
	s.onRequestsSnapshot([]Friendship{pendingEdge("b", "u3", "B", StatusPendingIncoming)})
	s.onSentSnapshot([]Friendship{pendingEdge("c", "u4", "C", StatusPendingOutgoing)})

	assert.Equal(t, "friends", s.FriendshipStatus("u2"))
	assert.Equal(t, "request_received", s.FriendshipStatus("u3"))
	assert.Equal(t, "request_sent", s.FriendshipStatus("u4"))
	assert.Equal(t, "none", s.FriendshipStatus("u9"))
}
