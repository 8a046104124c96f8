// Package friendship implements the denormalized friendship graph sync layer:
// cached batch loading of the full friend list, realtime snapshot
// subscriptions, fuzzy search and sorting over the in-memory collections, and
// the mutating friendship actions.
package friendship

import (
	"errors"
	"time"
)

// Status is the explicit state of a friendship edge. Each edge is stored once
// per direction, so a pending request appears as PendingOutgoing in the
// sender's collection and PendingIncoming in the receiver's.
type Status uint8

const (
	StatusAccepted Status = iota
	StatusPendingIncoming
	StatusPendingOutgoing
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusPendingIncoming:
		return "pending_incoming"
	case StatusPendingOutgoing:
		return "pending_outgoing"
	default:
		return "unknown"
	}
}

// RelationType names the three views derived from edge status.
type RelationType string

const (
	RelationFriends  RelationType = "friends"
	RelationRequests RelationType = "requests"
	RelationSent     RelationType = "sent_requests"
)

// RelationOf maps an edge status to the view it belongs to.
func RelationOf(s Status) RelationType {
	switch s {
	case StatusPendingIncoming:
		return RelationRequests
	case StatusPendingOutgoing:
		return RelationSent
	default:
		return RelationFriends
	}
}

// Profile is the denormalized snapshot of the peer's public profile,
// duplicated into the edge at write time so list reads need no join.
type Profile struct {
	DisplayName string `bson:"display_name" json:"display_name"`
	Nickname    string `bson:"nickname" json:"nickname"`
	AvatarURL   string `bson:"avatar_url" json:"avatar_url"`
}

// Friendship is one stored edge of the graph.
type Friendship struct {
	ID             string     `bson:"_id" json:"id"`
	OwnerID        string     `bson:"owner_id" json:"owner_id"`
	FriendID       string     `bson:"friend_id" json:"friend_id"`
	Friend         Profile    `bson:"friend" json:"friend"`
	Status         Status     `bson:"status" json:"status"`
	CreatedAt      time.Time  `bson:"created_at" json:"created_at"`
	FriendshipDate *time.Time `bson:"friendship_date,omitempty" json:"friendship_date,omitempty"`
}

// EffectiveDate is the default sort key: the acceptance date when present,
// the creation date otherwise (pending edges have no acceptance date).
func (f *Friendship) EffectiveDate() time.Time {
	if f.FriendshipDate != nil {
		return *f.FriendshipDate
	}
	return f.CreatedAt
}

// Stats summarizes the three relation views.
type Stats struct {
	TotalFriends    int `json:"total_friends"`
	PendingRequests int `json:"pending_requests"`
	SentRequests    int `json:"sent_requests"`
}

var (
	// ErrNotLoggedIn is returned by every action invoked without an
	// authenticated user.
	ErrNotLoggedIn = errors.New("must be logged in")

	// ErrNotFound is returned when an action references an edge id that is
	// no longer present in the local collections.
	ErrNotFound = errors.New("friendship not found")
)

// dedupeByID drops edges whose id was already seen, preserving order.
func dedupeByID(edges []Friendship) []Friendship {
	if len(edges) < 2 {
		return edges
	}
	seen := make(map[string]struct{}, len(edges))
	out := edges[:0:0]
	for _, e := range edges {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
