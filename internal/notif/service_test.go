package notif

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"estante/internal/common"
	"estante/internal/config"
	"estante/internal/dbmysql"
)

type recordingObserver struct {
	name string
	mu   sync.Mutex
	seen []common.NotificationEvent
	err  error
}

func (r *recordingObserver) Name() string { return r.name }

func (r *recordingObserver) Update(event common.NotificationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen = append(r.seen, event)
	return r.err
}

func (r *recordingObserver) events() []common.NotificationEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]common.NotificationEvent, len(r.seen))
	copy(out, r.seen)
	return out
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*dbmysql.Notification
	read    []string
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *dbmysql.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) ByUserID(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*dbmysql.Notification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.read = append(f.read, id)
	return nil
}

func (f *fakeNotificationRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	return int64(len(f.created)), nil
}

func TestNotificationManager_FanOut(t *testing.T) {
	nm := NewNotificationManager(2)
	defer nm.Shutdown()

	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	nm.Subscribe(first)
	nm.Subscribe(second)

	nm.Notify(common.NotificationEvent{Type: common.SystemType, UserID: "u1", Header: "hello"})

	require.Len(t, first.events(), 1)
	require.Len(t, second.events(), 1)
}

func TestNotificationManager_ObserverFailureDoesNotStopFanOut(t *testing.T) {
	nm := NewNotificationManager(1)
	defer nm.Shutdown()

	failing := &recordingObserver{name: "failing", err: errors.New("boom")}
	healthy := &recordingObserver{name: "healthy"}
	nm.Subscribe(failing)
	nm.Subscribe(healthy)

	nm.Notify(common.NotificationEvent{Type: common.SystemType, UserID: "u1", Header: "hello"})

	require.Len(t, healthy.events(), 1)
}

func TestNotificationManager_AsyncDelivery(t *testing.T) {
	nm := NewNotificationManager(3)
	defer nm.Shutdown()

	obs := &recordingObserver{name: "async"}
	nm.Subscribe(obs)

	for i := 0; i < 10; i++ {
		nm.NotifyAsync(common.NotificationEvent{Type: common.SystemType, UserID: "u1", Header: "hello"})
	}

	require.Eventually(t, func() bool {
		return len(obs.events()) == 10
	}, time.Second, 5*time.Millisecond)
}

func TestNotificationService_FriendRequest(t *testing.T) {
	repo := &fakeNotificationRepo{}
	cfg := &config.Config{Notification: config.NotificationConfig{Workers: 1}}

	svc := NewNotificationService(cfg, repo, nil)
	defer svc.Shutdown()

	err := svc.SendFriendRequestNotification(context.Background(), "u1", "u2", "Ana")
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	stored := repo.created[0]
	require.Equal(t, "u2", stored.UserID)
	require.Equal(t, string(common.FriendRequestType), stored.Type)
	require.Equal(t, "Ana sent you a friend request", stored.Content)
	require.Equal(t, "u1", *stored.TriggerUserID)
}

func TestNotificationService_RejectsInvalidEvent(t *testing.T) {
	repo := &fakeNotificationRepo{}
	cfg := &config.Config{Notification: config.NotificationConfig{Workers: 1}}

	svc := NewNotificationService(cfg, repo, nil)
	defer svc.Shutdown()

	err := svc.SendNotification(context.Background(), common.NotificationEvent{UserID: "u1"})
	require.Error(t, err)
	require.Empty(t, repo.created)
}

func TestNotificationService_PushObserver(t *testing.T) {
	repo := &fakeNotificationRepo{}
	cfg := &config.Config{Notification: config.NotificationConfig{Workers: 1}}

	pushed := make(chan string, 1)
	pusher := pushFunc(func(userID string, payload interface{}) {
		pushed <- userID
	})

	svc := NewNotificationService(cfg, repo, pusher)
	defer svc.Shutdown()

	svc.Publish(common.NotificationEvent{Type: common.SystemType, UserID: "u9", Header: "hi"})

	select {
	case userID := <-pushed:
		require.Equal(t, "u9", userID)
	case <-time.After(time.Second):
		t.Fatal("push observer was never invoked")
	}
}

type pushFunc func(userID string, payload interface{})

func (f pushFunc) PushToUser(userID string, payload interface{}) { f(userID, payload) }
