package friendship

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Options tunes a session's loading behavior.
type Options struct {
	// PageSize is the number of edges requested per page.
	PageSize int
	// MaxPages caps a full load. A safety valve against runaway loops,
	// not a product limit.
	MaxPages int
	// PageDelay is the pause between pages of a full load.
	PageDelay time.Duration
	// SnapshotLimit bounds the live accepted-friends subscription window.
	SnapshotLimit int
}

func DefaultOptions() Options {
	return Options{
		PageSize:      100,
		MaxPages:      20,
		PageDelay:     100 * time.Millisecond,
		SnapshotLimit: 100,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PageSize <= 0 {
		o.PageSize = d.PageSize
	}
	if o.MaxPages <= 0 {
		o.MaxPages = d.MaxPages
	}
	if o.PageDelay < 0 {
		o.PageDelay = d.PageDelay
	}
	if o.SnapshotLimit <= 0 {
		o.SnapshotLimit = d.SnapshotLimit
	}
	return o
}

// Session is the per-user friendship read model and action surface. It owns
// the subscription triple for the user's three relation views, the batch
// loader for the full accepted-friends list, and the mutating actions.
type Session struct {
	userID string
	store  RelationStore
	cache  *Cache
	notify Notifier
	opts   Options
	log    *logrus.Entry

	mu           sync.RWMutex
	allFriends   []Friendship
	requests     []Friendship
	sentRequests []Friendship
	lastCursor   Cursor
	hasMore      bool
	loading      bool
	loadingMore  bool
	errMsg       string

	searchQuery   string
	sortField     SortField
	sortDirection SortDirection

	subs    []Unsubscribe
	started bool

	// collapses concurrent full loads into one store scan
	loadGroup singleflight.Group
}

// NewSession builds a session for userID. An empty userID yields a session
// whose actions refuse to run; reads return empty collections.
func NewSession(userID string, store RelationStore, cache *Cache, notify Notifier, opts Options) *Session {
	if notify == nil {
		notify = NopNotifier()
	}
	if cache == nil {
		cache = NewCache(DefaultCacheTTL)
	}
	return &Session{
		userID:        userID,
		store:         store,
		cache:         cache,
		notify:        notify,
		opts:          opts.withDefaults(),
		log:           logrus.WithField("component", "friendship").WithField("user_id", userID),
		hasMore:       true,
		loading:       true,
		sortField:     SortDefault,
		sortDirection: SortDesc,
	}
}

// Start attaches the three live subscriptions (accepted friends, incoming
// requests, outgoing requests) and kicks off the initial full load in the
// background. If any subscription fails to attach, the ones already opened
// are released before returning.
func (s *Session) Start(ctx context.Context) error {
	if s.userID == "" {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return ErrNotLoggedIn
	}

	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return fmt.Errorf("session already started")
	}
	s.started = true
	s.mu.Unlock()

	s.log.Info("attaching friendship listeners")

	type attach struct {
		rel   RelationType
		limit int
		fn    SnapshotFunc
	}
	attaches := []attach{
		{RelationFriends, s.opts.SnapshotLimit, s.onFriendsSnapshot},
		{RelationRequests, s.opts.SnapshotLimit, s.onRequestsSnapshot},
		{RelationSent, s.opts.SnapshotLimit, s.onSentSnapshot},
	}

	for _, a := range attaches {
		unsub, err := s.store.Subscribe(ctx, s.userID, a.rel, a.limit, a.fn)
		if err != nil {
			s.releaseSubscriptions()
			s.mu.Lock()
			s.loading = false
			s.errMsg = "failed to subscribe to friendship updates"
			s.mu.Unlock()
			return fmt.Errorf("subscribe %s: %w", a.rel, err)
		}
		s.mu.Lock()
		s.subs = append(s.subs, unsub)
		s.mu.Unlock()
	}

	go s.LoadAll(ctx, true)

	return nil
}

// Close releases the subscription triple. In-flight page fetches and actions
// are not aborted; their results are simply no longer of interest.
func (s *Session) Close() {
	s.log.Debug("releasing friendship listeners")
	s.releaseSubscriptions()
}

func (s *Session) releaseSubscriptions() {
	s.mu.Lock()
	subs := s.subs
	s.subs = nil
	s.mu.Unlock()

	for _, unsub := range subs {
		unsub()
	}
}

// Snapshot pushes carry the authoritative live state of the subscribed
// window; each one replaces the local collection wholesale.

func (s *Session) onFriendsSnapshot(edges []Friendship) {
	s.mu.Lock()
	s.allFriends = dedupeByID(edges)
	s.loading = false
	s.mu.Unlock()
	s.log.WithField("count", len(edges)).Debug("friends snapshot")
}

func (s *Session) onRequestsSnapshot(edges []Friendship) {
	s.mu.Lock()
	s.requests = dedupeByID(edges)
	s.mu.Unlock()
	s.log.WithField("count", len(edges)).Debug("requests snapshot")
}

func (s *Session) onSentSnapshot(edges []Friendship) {
	s.mu.Lock()
	s.sentRequests = dedupeByID(edges)
	s.mu.Unlock()
	s.log.WithField("count", len(edges)).Debug("sent requests snapshot")
}

// ---- read model ----

// Friends returns the accepted-friends view with the current fuzzy filter
// and sort applied.
func (s *Session) Friends() []Friendship {
	s.mu.RLock()
	edges := s.allFriends
	query := s.searchQuery
	field := s.sortField
	dir := s.sortDirection
	s.mu.RUnlock()

	return SortEdges(Filter(edges, query), field, dir)
}

// AllFriends returns the unfiltered accepted-friends collection.
func (s *Session) AllFriends() []Friendship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Friendship, len(s.allFriends))
	copy(out, s.allFriends)
	return out
}

// Requests returns incoming requests, filtered and ordered newest first.
func (s *Session) Requests() []Friendship {
	s.mu.RLock()
	edges := s.requests
	query := s.searchQuery
	s.mu.RUnlock()

	return SortByCreatedDesc(Filter(edges, query))
}

// SentRequests returns outgoing requests, filtered and ordered newest first.
func (s *Session) SentRequests() []Friendship {
	s.mu.RLock()
	edges := s.sentRequests
	query := s.searchQuery
	s.mu.RUnlock()

	return SortByCreatedDesc(Filter(edges, query))
}

func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TotalFriends:    len(s.allFriends),
		PendingRequests: len(s.requests),
		SentRequests:    len(s.sentRequests),
	}
}

// FriendshipStatus reports the relation toward a specific user: "friends",
// "request_received", "request_sent" or "none".
func (s *Session) FriendshipStatus(targetID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.allFriends {
		if f.FriendID == targetID {
			return "friends"
		}
	}
	for _, r := range s.requests {
		if r.FriendID == targetID {
			return "request_received"
		}
	}
	for _, r := range s.sentRequests {
		if r.FriendID == targetID {
			return "request_sent"
		}
	}
	return "none"
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *Session) LoadingMore() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingMore
}

// Err returns the sticky error message from the last failed load, or "".
func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Session) HasMoreFriends() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasMore
}

func (s *Session) SearchQuery() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searchQuery
}

func (s *Session) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchQuery = q
}

// SortBy returns the current sort selection for the accepted-friends view.
func (s *Session) SortBy() (SortField, SortDirection) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortField, s.sortDirection
}

func (s *Session) SetSortField(f SortField) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortField = f
}

func (s *Session) SetSortDirection(d SortDirection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sortDirection = d
}

// UserID returns the authenticated user this session belongs to.
func (s *Session) UserID() string {
	return s.userID
}
