package friendship

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheWithClock(5*time.Minute, func() time.Time { return now })

	_, ok := cache.Get("u1", RelationFriends)
	assert.False(t, ok)

	data := []Friendship{{ID: "e1", OwnerID: "u1", FriendID: "u2"}}
	cache.Put("u1", RelationFriends, data, "cursor-1")

	entry, ok := cache.Get("u1", RelationFriends)
	require.True(t, ok)
	assert.Equal(t, data, entry.Data)
	assert.Equal(t, "cursor-1", entry.LastCursor)
	assert.Equal(t, now, entry.Timestamp)
	assert.True(t, cache.Valid(entry))
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheWithClock(5*time.Minute, func() time.Time { return now })

	cache.Put("u1", RelationFriends, nil, nil)

	entry, ok := cache.Get("u1", RelationFriends)
	require.True(t, ok)
	assert.True(t, cache.Valid(entry))

	// just inside the window
	now = now.Add(5*time.Minute - time.Second)
	entry, ok = cache.Get("u1", RelationFriends)
	require.True(t, ok)
	assert.True(t, cache.Valid(entry))

	// past the window the entry is still present but stale
	now = now.Add(2 * time.Second)
	entry, ok = cache.Get("u1", RelationFriends)
	require.True(t, ok)
	assert.False(t, cache.Valid(entry))
}

func TestCache_Invalidate(t *testing.T) {
	cache := NewCache(5 * time.Minute)

	cache.Put("u1", RelationFriends, nil, nil)
	cache.Put("u1", RelationRequests, nil, nil)

	cache.Invalidate("u1", RelationFriends)

	_, ok := cache.Get("u1", RelationFriends)
	assert.False(t, ok)

	// other relation types are untouched
	_, ok = cache.Get("u1", RelationRequests)
	assert.True(t, ok)
}

func TestCache_KeysAreScopedPerUser(t *testing.T) {
	cache := NewCache(5 * time.Minute)

	cache.Put("u1", RelationFriends, []Friendship{{ID: "a"}}, nil)
	cache.Put("u2", RelationFriends, []Friendship{{ID: "b"}}, nil)

	e1, ok := cache.Get("u1", RelationFriends)
	require.True(t, ok)
	e2, ok := cache.Get("u2", RelationFriends)
	require.True(t, ok)

	assert.Equal(t, "a", e1.Data[0].ID)
	assert.Equal(t, "b", e2.Data[0].ID)
}
