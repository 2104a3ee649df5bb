package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const sessionCollection = "console_sessions"

// SessionBackend keeps one document per scope:
//
//	{_id: <scope>, entries: {token: "...", username: "..."}, updated_at: <date>}
type SessionBackend struct {
	client *mongo.Client
	coll   *mongo.Collection
	ttl    time.Duration
}

// NewSessionBackend uses the console_sessions collection of db. A positive ttl
// expires idle documents once EnsureIndexes has run.
func NewSessionBackend(db *mongo.Database, ttl time.Duration) *SessionBackend {
	return &SessionBackend{coll: db.Collection(sessionCollection), ttl: ttl}
}

type sessionDoc struct {
	Scope     string            `bson:"_id"`
	Entries   map[string]string `bson:"entries"`
	UpdatedAt time.Time         `bson:"updated_at"`
}

func (b *SessionBackend) GetEntries(ctx context.Context, scope string, keys ...string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	// with a ttl the read also bumps updated_at so active sessions do not expire
	var res *mongo.SingleResult
	if b.ttl > 0 {
		res = b.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": scope},
			bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}},
		)
	} else {
		res = b.coll.FindOne(ctx, bson.M{"_id": scope})
	}

	var doc sessionDoc
	err := res.Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := doc.Entries[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// SetEntries upserts every entry with a single update so the pair lands
// atomically on the document.
func (b *SessionBackend) SetEntries(ctx context.Context, scope string, entries map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range entries {
		set["entries."+k] = v
	}
	_, err := b.coll.UpdateOne(ctx,
		bson.M{"_id": scope},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (b *SessionBackend) DeleteEntries(ctx context.Context, scope string, keys ...string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	unset := bson.M{}
	for _, k := range keys {
		unset["entries."+k] = ""
	}
	if _, err := b.coll.UpdateOne(ctx, bson.M{"_id": scope}, bson.M{"$unset": unset}); err != nil {
		return fmt.Errorf("unset session entries: %w", err)
	}
	// drop the document once nothing is left in it
	if _, err := b.coll.DeleteOne(ctx, bson.M{"_id": scope, "entries": bson.M{}}); err != nil {
		return fmt.Errorf("delete empty session: %w", err)
	}
	return nil
}

// EnsureIndexes creates the TTL index on updated_at when a ttl is configured.
func (b *SessionBackend) EnsureIndexes(ctx context.Context) error {
	if b.ttl <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := b.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(b.ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}
