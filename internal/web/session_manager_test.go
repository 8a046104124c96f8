package web

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"estante/internal/friendship"
)

func testSessionOptions() friendship.Options {
	opts := friendship.DefaultOptions()
	opts.PageDelay = 0
	return opts
}

func newManagedStore(t *testing.T, released *int32) *friendship.MockRelationStore {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	store := friendship.NewMockRelationStore(ctrl)
	store.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, _ string, _ friendship.RelationType, _ int, _ friendship.SnapshotFunc) (friendship.Unsubscribe, error) {
			return func() { atomic.AddInt32(released, 1) }, nil
		}).
		AnyTimes()
	store.EXPECT().
		GetPage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&friendship.Page{HasMore: false}, nil).
		AnyTimes()
	return store
}

func TestSessionManager_AcquireReusesLiveSession(t *testing.T) {
	var released int32
	store := newManagedStore(t, &released)

	hub := NewHub()
	go hub.Run()

	m := NewSessionManager(store, friendship.NewCache(friendship.DefaultCacheTTL), hub, testSessionOptions())
	defer m.CloseAll()

	first, err := m.Acquire("u1")
	require.NoError(t, err)
	second, err := m.Acquire("u1")
	require.NoError(t, err)
	require.Same(t, first, second)
}

func TestSessionManager_CloseReleasesSubscriptions(t *testing.T) {
	var released int32
	store := newManagedStore(t, &released)

	hub := NewHub()
	go hub.Run()

	m := NewSessionManager(store, friendship.NewCache(friendship.DefaultCacheTTL), hub, testSessionOptions())

	_, err := m.Acquire("u1")
	require.NoError(t, err)

	m.Close("u1")
	require.Equal(t, int32(3), atomic.LoadInt32(&released))

	// closing again is a no-op
	m.Close("u1")
	require.Equal(t, int32(3), atomic.LoadInt32(&released))
}

func TestSessionManager_SweepClosesIdleOfflineSessions(t *testing.T) {
	var released int32
	store := newManagedStore(t, &released)

	hub := NewHub()
	go hub.Run()

	m := NewSessionManager(store, friendship.NewCache(friendship.DefaultCacheTTL), hub, testSessionOptions())
	m.idleTTL = time.Millisecond

	_, err := m.Acquire("u1")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	m.sweep()

	require.Equal(t, int32(3), atomic.LoadInt32(&released))

	// a fresh acquire starts a new session
	_, err = m.Acquire("u1")
	require.NoError(t, err)
	m.CloseAll()
	require.Equal(t, int32(6), atomic.LoadInt32(&released))
}

func TestSessionManager_ToastNotifierPushesToHub(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "c1", "u1")
	hub.register <- client
	require.Eventually(t, func() bool { return hub.IsOnline("u1") }, time.Second, 5*time.Millisecond)

	notifier := &toastNotifier{hub: hub, userID: "u1"}
	notifier.Success("Friend request sent!")

	select {
	case raw := <-client.Send:
		require.Contains(t, string(raw), "Friend request sent!")
		require.Contains(t, string(raw), "success")
	case <-time.After(time.Second):
		t.Fatal("toast never delivered")
	}
}
