// Package mongo provides the MongoDB-backed session backend.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Config holds the MONGO_* settings plus the session idle TTL.
type Config struct {
	URI        string
	Database   string
	SessionTTL time.Duration
}

// Open dials cfg.URI, waits for a primary and prepares the session
// collection. The returned backend owns the client; release it with Close.
func Open(ctx context.Context, cfg Config) (*SessionBackend, error) {
	dialCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName("hms-console").
		SetServerSelectionTimeout(defaultTimeout)
	client, err := mongo.Connect(dialCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	b := NewSessionBackend(client.Database(cfg.Database), cfg.SessionTTL)
	b.client = client
	if err := b.Ping(dialCtx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	if err := b.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return b, nil
}

// Ping asks the primary for a round trip.
func (b *SessionBackend) Ping(ctx context.Context) error {
	if err := b.coll.Database().Client().Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// Close disconnects the client opened by Open. Backends built with
// NewSessionBackend do not own a client and Close is a no-op for them.
func (b *SessionBackend) Close(ctx context.Context) error {
	if b.client == nil {
		return nil
	}
	return b.client.Disconnect(ctx)
}
