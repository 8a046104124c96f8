package web

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"estante/internal/friendship"
)

// defaultIdleTTL is how long a session for an offline user survives between
// API touches before its subscriptions are released.
const defaultIdleTTL = 10 * time.Minute

type managedSession struct {
	session   *friendship.Session
	cancel    context.CancelFunc
	lastTouch time.Time
}

// SessionManager owns one friendship session per active user. Sessions are
// created on demand, reused across requests, and torn down when the user
// disconnects or goes quiet.
type SessionManager struct {
	store   friendship.RelationStore
	cache   *friendship.Cache
	hub     *Hub
	opts    friendship.Options
	idleTTL time.Duration

	mu       sync.Mutex
	sessions map[string]*managedSession
}

func NewSessionManager(store friendship.RelationStore, cache *friendship.Cache, hub *Hub, opts friendship.Options) *SessionManager {
	return &SessionManager{
		store:    store,
		cache:    cache,
		hub:      hub,
		opts:     opts,
		idleTTL:  defaultIdleTTL,
		sessions: make(map[string]*managedSession),
	}
}

// Acquire returns the user's session, starting one if none is live.
func (m *SessionManager) Acquire(userID string) (*friendship.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if ms, ok := m.sessions[userID]; ok {
		ms.lastTouch = time.Now()
		return ms.session, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	session := friendship.NewSession(userID, m.store, m.cache, m.notifierFor(userID), m.opts)
	if err := session.Start(ctx); err != nil {
		cancel()
		return nil, err
	}

	m.sessions[userID] = &managedSession{
		session:   session,
		cancel:    cancel,
		lastTouch: time.Now(),
	}
	logrus.WithField("user_id", userID).Debug("friendship session started")
	return session, nil
}

// Close releases the user's session and its subscriptions.
func (m *SessionManager) Close(userID string) {
	m.mu.Lock()
	ms, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()

	if !ok {
		return
	}
	ms.session.Close()
	ms.cancel()
	logrus.WithField("user_id", userID).Debug("friendship session closed")
}

// CloseAll tears down every live session, for shutdown.
func (m *SessionManager) CloseAll() {
	m.mu.Lock()
	all := m.sessions
	m.sessions = make(map[string]*managedSession)
	m.mu.Unlock()

	for _, ms := range all {
		ms.session.Close()
		ms.cancel()
	}
}

// HandleDisconnect is wired as the hub's idle handler. The session stays
// alive briefly so a page reload does not cold-start the loader.
func (m *SessionManager) HandleDisconnect(userID string) {
	m.mu.Lock()
	if ms, ok := m.sessions[userID]; ok {
		ms.lastTouch = time.Now()
	}
	m.mu.Unlock()
}

// RunJanitor sweeps sessions whose users are offline and idle past the TTL.
func (m *SessionManager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.sweep()
		case <-ctx.Done():
			return
		}
	}
}

func (m *SessionManager) sweep() {
	cutoff := time.Now().Add(-m.idleTTL)

	m.mu.Lock()
	var expired []string
	for userID, ms := range m.sessions {
		if ms.lastTouch.Before(cutoff) && !m.hub.IsOnline(userID) {
			expired = append(expired, userID)
		}
	}
	m.mu.Unlock()

	for _, userID := range expired {
		m.Close(userID)
	}
}

// notifierFor builds a toast notifier that pushes over the user's websocket
// connections.
func (m *SessionManager) notifierFor(userID string) friendship.Notifier {
	return &toastNotifier{hub: m.hub, userID: userID}
}

type toastNotifier struct {
	hub    *Hub
	userID string
}

func (n *toastNotifier) Success(message string) {
	n.hub.SendToUser(n.userID, &PushMessage{Event: "toast", Data: map[string]string{"level": "success", "message": message}})
}

func (n *toastNotifier) Failure(message string) {
	n.hub.SendToUser(n.userID, &PushMessage{Event: "toast", Data: map[string]string{"level": "error", "message": message}})
}
