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

func testOptions() Options {
	// no inter-page pause in tests
	return Options{PageSize: 100, MaxPages: 20, PageDelay: 0, SnapshotLimit: 100}
}

func pageOf(start, count int, hasMore bool) *Page {
	items := make([]Friendship, count)
	for i := 0; i < count; i++ {
		items[i] = Friendship{
			ID:        fmt.Sprintf("edge-%d", start+i),
			OwnerID:   "u1",
			FriendID:  fmt.Sprintf("friend-%d", start+i),
			Status:    StatusAccepted,
			CreatedAt: time.UnixMilli(int64(start + i)),
		}
	}
	return &Page{Items: items, NextCursor: start + count, HasMore: hasMore}
}

func TestLoadAll_DeduplicatesAcrossPages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	// second page overlaps the first by two edges
	first := pageOf(0, 4, true)
	second := pageOf(2, 4, false)

	gomock.InOrder(
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, nil).
			Return(first, nil),
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, 4).
			Return(second, nil),
	)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadAll(ctx, true)

	all := s.AllFriends()
	require.Len(t, all, 6)
	seen := map[string]int{}
	for _, f := range all {
		seen[f.ID]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "edge %s appears %d times", id, n)
	}
	assert.False(t, s.Loading())
	assert.False(t, s.HasMoreFriends())
}

func TestLoadAll_RefreshClearsCursorAndState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	// first load leaves a cursor behind
	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, nil).
		Return(pageOf(0, 3, false), nil)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadAll(ctx, true)
	require.Len(t, s.AllFriends(), 3)

	// the refreshed load must start from a nil cursor again
	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, nil).
		Return(pageOf(10, 2, false), nil)

	s.LoadAll(ctx, true)

	all := s.AllFriends()
	require.Len(t, all, 2)
	assert.Equal(t, "edge-10", all[0].ID)
}

func TestLoadAll_StopsAtPageCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	// a store with unlimited unique pages: exactly MaxPages fetches happen
	// and the session still reports more friends behind the cursor
	next := 0
	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, gomock.Any()).
		DoAndReturn(func(context.Context, string, RelationType, int, Cursor) (*Page, error) {
			p := pageOf(next, 100, true)
			next += 100
			return p, nil
		}).
		Times(20)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadAll(ctx, true)

	assert.Len(t, s.AllFriends(), 2000)
	assert.True(t, s.HasMoreFriends())
	assert.False(t, s.Loading())
}

func TestLoadAll_StopsWhenPageYieldsNoNewEdges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, nil).
			Return(pageOf(0, 3, true), nil),
		// same edges again, still claiming more pages
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, 3).
			Return(pageOf(0, 3, true), nil),
	)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadAll(ctx, true)

	assert.Len(t, s.AllFriends(), 3)
	assert.False(t, s.HasMoreFriends())
}

func TestLoadAll_ErrorKeepsPartialResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	notifier := NewMockNotifier(ctrl)
	ctx := context.Background()

	gomock.InOrder(
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, nil).
			Return(pageOf(0, 100, true), nil),
		store.EXPECT().
			GetPage(ctx, "u1", RelationFriends, 100, 100).
			Return(nil, fmt.Errorf("store unavailable")),
	)
	notifier.EXPECT().Failure("Could not load your friends list")

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), notifier, testOptions())
	s.LoadAll(ctx, true)

	assert.Len(t, s.AllFriends(), 100, "first page kept")
	assert.Equal(t, "failed to load friends", s.Err())
	assert.False(t, s.Loading(), "loading must not stay stuck")
}

func TestLoadAll_UsesFreshCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheWithClock(5*time.Minute, func() time.Time { return now })
	cached := pageOf(0, 5, false).Items
	cache.Put("u1", RelationFriends, cached, nil)

	// no store expectation: a fresh entry short-circuits the scan
	s := NewSession("u1", store, cache, NopNotifier(), testOptions())
	s.LoadAll(ctx, false)

	assert.Equal(t, cached, s.AllFriends())
	assert.False(t, s.Loading())
}

func TestLoadAll_ExpiredCacheHitsStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheWithClock(5*time.Minute, func() time.Time { return now })
	cache.Put("u1", RelationFriends, pageOf(0, 5, false).Items, nil)

	// entry is now stale, the load must bypass it
	now = now.Add(6 * time.Minute)

	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, gomock.Any()).
		Return(pageOf(10, 2, false), nil)

	s := NewSession("u1", store, cache, NopNotifier(), testOptions())
	s.LoadAll(ctx, false)

	all := s.AllFriends()
	require.NotEmpty(t, all)
	assert.Equal(t, "edge-10", all[len(all)-2].ID)
}

func TestLoadMore_GuardsBeforeInitialLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)

	// no expectations: nothing loaded yet, LoadMore must not call the store
	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadMore(context.Background())
}

func TestLoadMore_AppendsUniqueEdges(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, nil).
		Return(pageOf(0, 100, true), nil)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadAll(ctx, true)
	require.Len(t, s.AllFriends(), 100)
	require.True(t, s.HasMoreFriends())

	// next page overlaps by 50 edges
	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, 100).
		Return(pageOf(50, 100, false), nil)

	s.LoadMore(ctx)

	assert.Len(t, s.AllFriends(), 150)
	assert.False(t, s.HasMoreFriends())
	assert.False(t, s.LoadingMore())
}

func TestLoadMore_AllDuplicatesEndsPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	store := NewMockRelationStore(ctrl)
	ctx := context.Background()

	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, nil).
		Return(pageOf(0, 100, true), nil)

	s := NewSession("u1", store, NewCache(DefaultCacheTTL), NopNotifier(), testOptions())
	s.LoadAll(ctx, true)

	store.EXPECT().
		GetPage(ctx, "u1", RelationFriends, 100, 100).
		Return(pageOf(0, 100, true), nil)

	s.LoadMore(ctx)

	assert.Len(t, s.AllFriends(), 100)
	assert.False(t, s.HasMoreFriends())
}
