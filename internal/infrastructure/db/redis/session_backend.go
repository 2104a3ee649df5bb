package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "hms:session"

// SessionBackend stores session entries as plain string keys.
// Key format: hms:session:<scope>:<entry>
type SessionBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionBackend wraps client. A zero ttl keeps entries until cleared.
func NewSessionBackend(client *redis.Client, ttl time.Duration) *SessionBackend {
	return &SessionBackend{client: client, ttl: ttl}
}

// GetEntries reads the entries of scope. With a ttl every read slides the
// expiry forward, so an active session does not lapse.
func (b *SessionBackend) GetEntries(ctx context.Context, scope string, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	names := b.keys(scope, keys)

	var mget *redis.SliceCmd
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		mget = pipe.MGet(ctx, names...)
		if b.ttl > 0 {
			for _, name := range names {
				pipe.Expire(ctx, name, b.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis mget session: %w", err)
	}

	out := make(map[string]string, len(keys))
	for i, v := range mget.Val() {
		if s, ok := v.(string); ok {
			out[keys[i]] = s
		}
	}
	return out, nil
}

// SetEntries writes all entries in one MULTI/EXEC so readers never observe a
// partial session.
func (b *SessionBackend) SetEntries(ctx context.Context, scope string, entries map[string]string) error {
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, b.key(scope, k), v, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (b *SessionBackend) DeleteEntries(ctx context.Context, scope string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := b.client.Del(ctx, b.keys(scope, keys)...).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (b *SessionBackend) key(scope, entry string) string {
	return fmt.Sprintf("%s:%s:%s", sessionKeyPrefix, scope, entry)
}

func (b *SessionBackend) keys(scope string, entries []string) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = b.key(scope, e)
	}
	return out
}
