package admin

import (
	"context"

	"golang.org/x/sync/errgroup"

	"estante/internal/friendship"
)

// UserCounter reports how many active accounts exist.
type UserCounter interface {
	CountUsers(ctx context.Context) (int64, error)
}

// MessageCounter reports how many messages have been exchanged.
type MessageCounter interface {
	CountMessages(ctx context.Context) (int64, error)
}

// EdgeCounter reports friendship edge counts by status.
type EdgeCounter interface {
	CountByStatus(ctx context.Context, status friendship.Status) (int64, error)
}

// DashboardStats aggregates the counters shown on the admin dashboard.
// Friendship edges are stored in both directions, so Friendships halves the
// accepted edge count.
type DashboardStats struct {
	Users           int64 `json:"users"`
	Friendships     int64 `json:"friendships"`
	PendingRequests int64 `json:"pending_requests"`
	Messages        int64 `json:"messages"`
}

type DashboardService struct {
	users    UserCounter
	messages MessageCounter
	edges    EdgeCounter
}

func NewDashboardService(users UserCounter, messages MessageCounter, edges EdgeCounter) *DashboardService {
	return &DashboardService{users: users, messages: messages, edges: edges}
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.users.CountUsers(ctx)
		stats.Users = n
		return err
	})
	g.Go(func() error {
		n, err := s.messages.CountMessages(ctx)
		stats.Messages = n
		return err
	})
	g.Go(func() error {
		n, err := s.edges.CountByStatus(ctx, friendship.StatusAccepted)
		stats.Friendships = n / 2
		return err
	})
	g.Go(func() error {
		n, err := s.edges.CountByStatus(ctx, friendship.StatusPendingIncoming)
		stats.PendingRequests = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
