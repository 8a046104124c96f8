package friendship

import (
	"context"
)

// Cursor is an opaque pagination resume token owned by the store
// implementation. The loader holds it between pages and discards it on
// refresh; it never inspects it.
type Cursor interface{}

// Page is one window of a relation view.
type Page struct {
	Items      []Friendship
	NextCursor Cursor
	HasMore    bool
}

// Unsubscribe releases a live subscription. Safe to call more than once.
type Unsubscribe func()

// SnapshotFunc receives the complete current state of a relation view. Every
// push replaces the previous snapshot; deliveries are in order per
// subscription.
type SnapshotFunc func(edges []Friendship)

// RelationStore is the remote relationship store contract. Edge mutations
// fan out to both directions of the relation inside the store.
type RelationStore interface {
	// GetPage returns up to limit edges of the given view, resuming after
	// cursor when non-nil.
	GetPage(ctx context.Context, ownerID string, rel RelationType, limit int, cursor Cursor) (*Page, error)

	// Subscribe delivers complete snapshots of the view (bounded by limit)
	// on every remote change, starting with the current state. The
	// subscription lives until the returned handle is invoked or ctx is
	// cancelled.
	Subscribe(ctx context.Context, ownerID string, rel RelationType, limit int, onSnapshot SnapshotFunc) (Unsubscribe, error)

	// CreateEdge writes a pending-outgoing edge for ownerID and the
	// mirrored pending-incoming edge for targetID.
	CreateEdge(ctx context.Context, ownerID, targetID string) error

	// AcceptEdge transitions both directions of a pending relation to
	// accepted and stamps the friendship date.
	AcceptEdge(ctx context.Context, ownerID, targetID string) error

	// RejectEdge removes both directions of a pending relation.
	RejectEdge(ctx context.Context, ownerID, targetID string) error

	// DeleteEdge removes both directions of an accepted relation.
	DeleteEdge(ctx context.Context, ownerID, targetID string) error
}
