package friendship

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// LoadAll materializes the complete accepted-friends list by paging through
// the store. A fresh cache entry short-circuits the scan unless refresh is
// set; refresh also discards the accumulated state and cursor first.
// Concurrent calls for the same session are collapsed into a single scan.
//
// The loop stops when a page yields zero new unique edges, when the store
// reports no further pages, or at the MaxPages cap. A page error aborts the
// loop and surfaces the error state but keeps the pages accumulated so far.
func (s *Session) LoadAll(ctx context.Context, refresh bool) {
	if s.userID == "" {
		return
	}
	s.loadGroup.Do("load_all", func() (interface{}, error) {
		s.loadAll(ctx, refresh)
		return nil, nil
	})
}

func (s *Session) loadAll(ctx context.Context, refresh bool) {
	if !refresh {
		if entry, ok := s.cache.Get(s.userID, RelationFriends); ok && s.cache.Valid(entry) {
			s.log.WithField("count", len(entry.Data)).Debug("serving friends from cache")
			s.mu.Lock()
			s.allFriends = entry.Data
			s.lastCursor = entry.LastCursor
			s.loading = false
			s.mu.Unlock()
			return
		}
	}

	s.mu.Lock()
	if refresh {
		s.allFriends = nil
		s.lastCursor = nil
		s.hasMore = true
	}
	s.loading = true
	s.errMsg = ""
	accumulated := make([]Friendship, len(s.allFriends))
	copy(accumulated, s.allFriends)
	cursor := s.lastCursor
	s.mu.Unlock()

	seen := make(map[string]struct{}, len(accumulated))
	for _, f := range accumulated {
		seen[f.ID] = struct{}{}
	}

	hasMore := true
	pages := 0

	for hasMore && pages < s.opts.MaxPages {
		page, err := s.store.GetPage(ctx, s.userID, RelationFriends, s.opts.PageSize, cursor)
		if err != nil {
			s.log.WithError(err).Error("friends page fetch failed")
			s.mu.Lock()
			s.allFriends = accumulated
			s.lastCursor = cursor
			s.errMsg = "failed to load friends"
			s.loading = false
			s.mu.Unlock()
			s.notify.Failure("Could not load your friends list")
			return
		}

		if len(page.Items) > 0 {
			fresh := 0
			for _, f := range page.Items {
				if _, dup := seen[f.ID]; dup {
					continue
				}
				seen[f.ID] = struct{}{}
				accumulated = append(accumulated, f)
				fresh++
			}
			cursor = page.NextCursor
			hasMore = page.HasMore && fresh > 0
			s.log.WithField("page", pages+1).WithField("new", fresh).Debug("friends page loaded")
		} else {
			hasMore = false
		}

		pages++

		// brief pause between pages so a large list does not hammer the store
		if hasMore && pages < s.opts.MaxPages {
			select {
			case <-time.After(s.opts.PageDelay):
			case <-ctx.Done():
				s.mu.Lock()
				s.allFriends = accumulated
				s.lastCursor = cursor
				s.loading = false
				s.mu.Unlock()
				return
			}
		}
	}

	s.log.WithField("total", len(accumulated)).WithField("pages", pages).Info("friends fully loaded")

	s.mu.Lock()
	s.allFriends = accumulated
	s.lastCursor = cursor
	s.hasMore = hasMore
	s.loading = false
	s.mu.Unlock()

	s.cache.Put(s.userID, RelationFriends, accumulated, cursor)
}

// LoadMore fetches exactly one additional page. It is a no-op while another
// LoadMore is in flight, when no further pages are known, or before any
// initial page has loaded.
func (s *Session) LoadMore(ctx context.Context) {
	s.mu.Lock()
	if s.userID == "" || s.loadingMore || !s.hasMore || len(s.allFriends) == 0 {
		s.mu.Unlock()
		return
	}
	s.loadingMore = true
	cursor := s.lastCursor
	held := s.allFriends
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loadingMore = false
		s.mu.Unlock()
	}()

	page, err := s.store.GetPage(ctx, s.userID, RelationFriends, s.opts.PageSize, cursor)
	if err != nil {
		s.log.WithError(err).Error("load more friends failed")
		s.mu.Lock()
		s.errMsg = "failed to load more friends"
		s.mu.Unlock()
		return
	}

	if len(page.Items) == 0 {
		s.mu.Lock()
		s.hasMore = false
		s.mu.Unlock()
		return
	}

	seen := make(map[string]struct{}, len(held))
	for _, f := range held {
		seen[f.ID] = struct{}{}
	}
	fresh := make([]Friendship, 0, len(page.Items))
	for _, f := range page.Items {
		if _, dup := seen[f.ID]; dup {
			continue
		}
		fresh = append(fresh, f)
	}

	s.mu.Lock()
	if len(fresh) == 0 {
		// nothing new behind the cursor, the list is complete
		s.hasMore = false
		s.mu.Unlock()
		return
	}
	s.allFriends = append(s.allFriends, fresh...)
	s.lastCursor = page.NextCursor
	s.hasMore = page.HasMore
	updated := s.allFriends
	s.mu.Unlock()

	s.cache.Put(s.userID, RelationFriends, updated, page.NextCursor)
	s.log.WithField("new", len(fresh)).Debug("loaded more friends")
}

// Refresh discards the cache and reloads all three relation views: the
// pending views with a single page fetch each, the accepted view through a
// full load.
func (s *Session) Refresh(ctx context.Context) {
	if s.userID == "" {
		return
	}

	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.lastCursor = nil
	s.hasMore = true
	s.mu.Unlock()

	s.cache.Invalidate(s.userID, RelationFriends)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		page, err := s.store.GetPage(gctx, s.userID, RelationRequests, s.opts.SnapshotLimit, nil)
		if err != nil {
			return err
		}
		s.onRequestsSnapshot(page.Items)
		return nil
	})
	g.Go(func() error {
		page, err := s.store.GetPage(gctx, s.userID, RelationSent, s.opts.SnapshotLimit, nil)
		if err != nil {
			return err
		}
		s.onSentSnapshot(page.Items)
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).Error("refresh failed")
		s.mu.Lock()
		s.errMsg = "failed to refresh"
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.LoadAll(ctx, true)
}
