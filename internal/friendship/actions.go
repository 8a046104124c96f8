package friendship

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Mutating actions. Every action requires the session's authenticated user,
// surfaces exactly one success or failure notice, and returns the error after
// notifying so callers can layer their own handling. Actions that change the
// accepted-friends set invalidate the cache so the next full load hits the
// store.

func (s *Session) requireUser() error {
	if s.userID == "" {
		s.notify.Failure("You must be logged in")
		return ErrNotLoggedIn
	}
	return nil
}

// SendRequest creates a pending request toward targetID. The store fans out
// the mirrored incoming edge on the target's side.
func (s *Session) SendRequest(ctx context.Context, targetID string) error {
	if err := s.requireUser(); err != nil {
		return err
	}
	if targetID == "" {
		s.notify.Failure("No user selected")
		return fmt.Errorf("empty target user")
	}
	if targetID == s.userID {
		s.notify.Failure("You cannot send a request to yourself")
		return fmt.Errorf("cannot befriend yourself")
	}

	if err := s.store.CreateEdge(ctx, s.userID, targetID); err != nil {
		s.log.WithError(err).Error("send friend request failed")
		s.notify.Failure("Could not send friend request")
		return fmt.Errorf("send friend request: %w", err)
	}

	s.notify.Success("Friend request sent!")
	return nil
}

// AcceptRequest resolves the incoming request by edge id and commits the
// accepted state. A stale id (no longer in the local collection) aborts
// before any store call.
func (s *Session) AcceptRequest(ctx context.Context, edgeID string) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	request, ok := s.findRequest(edgeID)
	if !ok {
		s.notify.Failure("Request not found")
		return ErrNotFound
	}

	if err := s.store.AcceptEdge(ctx, s.userID, request.FriendID); err != nil {
		s.log.WithError(err).Error("accept friend request failed")
		s.notify.Failure("Could not accept request")
		return fmt.Errorf("accept friend request: %w", err)
	}

	// force the next full load to pick up the new friend
	s.cache.Invalidate(s.userID, RelationFriends)

	s.notify.Success(fmt.Sprintf("You and %s are now friends!", request.Friend.DisplayName))
	return nil
}

// RejectRequest removes an incoming pending request.
func (s *Session) RejectRequest(ctx context.Context, edgeID string) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	request, ok := s.findRequest(edgeID)
	if !ok {
		s.notify.Failure("Request not found")
		return ErrNotFound
	}

	if err := s.store.RejectEdge(ctx, s.userID, request.FriendID); err != nil {
		s.log.WithError(err).Error("reject friend request failed")
		s.notify.Failure("Could not reject request")
		return fmt.Errorf("reject friend request: %w", err)
	}

	s.notify.Success("Request rejected")
	return nil
}

// CancelSentRequest withdraws one outgoing pending request.
func (s *Session) CancelSentRequest(ctx context.Context, edgeID string) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	sent, ok := s.findSentRequest(edgeID)
	if !ok {
		s.notify.Failure("Request not found")
		return ErrNotFound
	}

	if err := s.store.RejectEdge(ctx, s.userID, sent.FriendID); err != nil {
		s.log.WithError(err).Error("cancel sent request failed")
		s.notify.Failure("Could not cancel request")
		return fmt.Errorf("cancel sent request: %w", err)
	}

	s.notify.Success("Request cancelled")
	return nil
}

// CancelAllSentRequests withdraws every outgoing pending request
// concurrently. An empty outgoing collection is a no-op notice, not a store
// call.
func (s *Session) CancelAllSentRequests(ctx context.Context) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	s.mu.RLock()
	pending := make([]Friendship, len(s.sentRequests))
	copy(pending, s.sentRequests)
	s.mu.RUnlock()

	if len(pending) == 0 {
		s.notify.Failure("No sent requests to cancel")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, req := range pending {
		req := req
		g.Go(func() error {
			return s.store.RejectEdge(gctx, s.userID, req.FriendID)
		})
	}

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("cancel all sent requests failed")
		s.notify.Failure("Could not cancel sent requests")
		return fmt.Errorf("cancel all sent requests: %w", err)
	}

	s.notify.Success(fmt.Sprintf("All %d sent requests were cancelled", len(pending)))
	return nil
}

// RemoveFriend deletes the bidirectional relation resolved from the full
// accepted-friends collection.
func (s *Session) RemoveFriend(ctx context.Context, edgeID string) error {
	if err := s.requireUser(); err != nil {
		return err
	}

	friend, ok := s.findFriend(edgeID)
	if !ok {
		s.notify.Failure("Friend not found")
		return ErrNotFound
	}

	if err := s.store.DeleteEdge(ctx, s.userID, friend.FriendID); err != nil {
		s.log.WithError(err).Error("remove friend failed")
		s.notify.Failure("Could not remove friend")
		return fmt.Errorf("remove friend: %w", err)
	}

	s.cache.Invalidate(s.userID, RelationFriends)

	s.notify.Success(fmt.Sprintf("%s was removed from your friends", friend.Friend.DisplayName))
	return nil
}

func (s *Session) findRequest(edgeID string) (Friendship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.requests, edgeID)
}

func (s *Session) findSentRequest(edgeID string) (Friendship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.sentRequests, edgeID)
}

func (s *Session) findFriend(edgeID string) (Friendship, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findByID(s.allFriends, edgeID)
}

func findByID(edges []Friendship, id string) (Friendship, bool) {
	for _, e := range edges {
		if e.ID == id {
			return e, true
		}
	}
	return Friendship{}, false
}
