package dbmongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"estante/internal/friendship"
)

const friendshipCollection = "friendships"

// ProfileSource resolves a user's public profile so it can be denormalized
// into edges at write time.
type ProfileSource interface {
	ProfileSnapshot(ctx context.Context, userID string) (friendship.Profile, error)
}

// FriendshipStore is the MongoDB implementation of the relationship store.
// Each edge is stored once per direction so every user's collection is
// independently paginable; mutations fan out to both directions.
type FriendshipStore struct {
	coll     *mongo.Collection
	profiles ProfileSource
	log      *logrus.Entry
}

var _ friendship.RelationStore = (*FriendshipStore)(nil)

func NewFriendshipStore(mc *MongoClient, profiles ProfileSource) *FriendshipStore {
	return &FriendshipStore{
		coll:     mc.Database.Collection(friendshipCollection),
		profiles: profiles,
		log:      logrus.WithField("component", "friendship_store"),
	}
}

// pageCursor resumes a range query after the last returned document. Edges
// are ordered by creation time descending with the id as tie-breaker.
type pageCursor struct {
	CreatedAt time.Time
	ID        string
}

func statusFor(rel friendship.RelationType) friendship.Status {
	switch rel {
	case friendship.RelationRequests:
		return friendship.StatusPendingIncoming
	case friendship.RelationSent:
		return friendship.StatusPendingOutgoing
	default:
		return friendship.StatusAccepted
	}
}

func viewFilter(ownerID string, rel friendship.RelationType) bson.M {
	return bson.M{
		"owner_id": ownerID,
		"status":   statusFor(rel),
	}
}

func (s *FriendshipStore) GetPage(ctx context.Context, ownerID string, rel friendship.RelationType, limit int, cursor friendship.Cursor) (*friendship.Page, error) {
	if limit <= 0 {
		limit = 100
	}

	filter := viewFilter(ownerID, rel)
	if cursor != nil {
		c, ok := cursor.(pageCursor)
		if !ok {
			return nil, fmt.Errorf("unrecognized pagination cursor")
		}
		filter["$or"] = bson.A{
			bson.M{"created_at": bson.M{"$lt": c.CreatedAt}},
			bson.M{"created_at": c.CreatedAt, "_id": bson.M{"$lt": c.ID}},
		}
	}

	// fetch one extra document to learn whether another page exists
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit + 1))

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("friendship page query: %w", err)
	}
	defer cur.Close(ctx)

	var items []friendship.Friendship
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("friendship page decode: %w", err)
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	page := &friendship.Page{Items: items, HasMore: hasMore}
	if len(items) > 0 {
		last := items[len(items)-1]
		page.NextCursor = pageCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	return page, nil
}

// Subscribe delivers the complete current window of the view, then re-runs
// the query and pushes a fresh snapshot on every change to the collection.
// The change stream is released by the returned handle or by ctx.
func (s *FriendshipStore) Subscribe(ctx context.Context, ownerID string, rel friendship.RelationType, limit int, onSnapshot friendship.SnapshotFunc) (friendship.Unsubscribe, error) {
	streamCtx, cancel := context.WithCancel(ctx)

	stream, err := s.coll.Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("friendship change stream: %w", err)
	}

	snapshot := func() {
		page, err := s.GetPage(streamCtx, ownerID, rel, limit, nil)
		if err != nil {
			if streamCtx.Err() == nil {
				s.log.WithError(err).WithField("relation", rel).Warn("snapshot query failed")
			}
			return
		}
		onSnapshot(page.Items)
	}

	// initial state before any remote change
	snapshot()

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			snapshot()
		}
		if err := stream.Err(); err != nil && streamCtx.Err() == nil {
			s.log.WithError(err).WithField("relation", rel).Warn("change stream closed")
		}
	}()

	return func() { cancel() }, nil
}

// CreateEdge writes the pending-outgoing edge for the sender and the mirrored
// pending-incoming edge for the target, each carrying the peer's denormalized
// profile snapshot.
func (s *FriendshipStore) CreateEdge(ctx context.Context, ownerID, targetID string) error {
	targetProfile, err := s.profiles.ProfileSnapshot(ctx, targetID)
	if err != nil {
		return fmt.Errorf("target profile: %w", err)
	}
	ownerProfile, err := s.profiles.ProfileSnapshot(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("owner profile: %w", err)
	}

	now := time.Now().UTC()
	edges := []interface{}{
		friendship.Friendship{
			ID:        uuid.NewString(),
			OwnerID:   ownerID,
			FriendID:  targetID,
			Friend:    targetProfile,
			Status:    friendship.StatusPendingOutgoing,
			CreatedAt: now,
		},
		friendship.Friendship{
			ID:        uuid.NewString(),
			OwnerID:   targetID,
			FriendID:  ownerID,
			Friend:    ownerProfile,
			Status:    friendship.StatusPendingIncoming,
			CreatedAt: now,
		},
	}

	if _, err := s.coll.InsertMany(ctx, edges); err != nil {
		return fmt.Errorf("create friendship edges: %w", err)
	}

	s.log.WithFields(logrus.Fields{"owner": ownerID, "target": targetID}).Debug("friend request edges created")
	return nil
}

// AcceptEdge transitions both directions of the pending relation to accepted
// and stamps the friendship date.
func (s *FriendshipStore) AcceptEdge(ctx context.Context, ownerID, targetID string) error {
	now := time.Now().UTC()
	filter := bson.M{
		"$or": bothDirections(ownerID, targetID),
		"status": bson.M{"$in": bson.A{
			friendship.StatusPendingIncoming,
			friendship.StatusPendingOutgoing,
		}},
	}
	update := bson.M{"$set": bson.M{
		"status":          friendship.StatusAccepted,
		"friendship_date": now,
	}}

	res, err := s.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("accept friendship edges: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("no pending friendship between %s and %s", ownerID, targetID)
	}
	return nil
}

// RejectEdge removes both directions of a pending relation.
func (s *FriendshipStore) RejectEdge(ctx context.Context, ownerID, targetID string) error {
	filter := bson.M{
		"$or": bothDirections(ownerID, targetID),
		"status": bson.M{"$in": bson.A{
			friendship.StatusPendingIncoming,
			friendship.StatusPendingOutgoing,
		}},
	}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("reject friendship edges: %w", err)
	}
	return nil
}

// DeleteEdge removes both directions of an accepted relation.
func (s *FriendshipStore) DeleteEdge(ctx context.Context, ownerID, targetID string) error {
	filter := bson.M{
		"$or":    bothDirections(ownerID, targetID),
		"status": friendship.StatusAccepted,
	}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("delete friendship edges: %w", err)
	}
	return nil
}

// CountByStatus reports how many edges carry the given status, for the admin
// dashboard.
func (s *FriendshipStore) CountByStatus(ctx context.Context, status friendship.Status) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.M{"status": status})
}

// AreFriends reports whether an accepted edge exists from ownerID to
// targetID. Messaging uses it to keep conversations between friends only.
func (s *FriendshipStore) AreFriends(ctx context.Context, ownerID, targetID string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{
		"owner_id":  ownerID,
		"friend_id": targetID,
		"status":    friendship.StatusAccepted,
	})
	if err != nil {
		return false, fmt.Errorf("check friendship edge: %w", err)
	}
	return count > 0, nil
}

// RefreshSnapshots rewrites the denormalized profile on every edge pointing
// at userID, keeping snapshots in sync after a profile update.
func (s *FriendshipStore) RefreshSnapshots(ctx context.Context, userID string, p friendship.Profile) error {
	update := bson.M{"$set": bson.M{
		"friend.display_name": p.DisplayName,
		"friend.nickname":     p.Nickname,
		"friend.avatar_url":   p.AvatarURL,
	}}
	if _, err := s.coll.UpdateMany(ctx, bson.M{"friend_id": userID}, update); err != nil {
		return fmt.Errorf("refresh profile snapshots: %w", err)
	}
	return nil
}

// EnsureIndexes creates the compound index backing the paginated view
// queries.
func (s *FriendshipStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "created_at", Value: -1},
		},
	})
	if err != nil {
		return fmt.Errorf("create friendship index: %w", err)
	}
	return nil
}

func bothDirections(a, b string) bson.A {
	return bson.A{
		bson.M{"owner_id": a, "friend_id": b},
		bson.M{"owner_id": b, "friend_id": a},
	}
}
