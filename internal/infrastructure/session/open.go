package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hotelops/hms-console/internal/core/ports"
	hmsmongo "github.com/hotelops/hms-console/internal/infrastructure/db/mongo"
	hmsredis "github.com/hotelops/hms-console/internal/infrastructure/db/redis"
	"github.com/hotelops/hms-console/internal/pkg/config"
	"github.com/hotelops/hms-console/internal/xdg"
)

// Opened is a ready session backend plus what it takes to probe and release it.
// Ping is nil for backends without a server behind them.
type Opened struct {
	Name    string
	Backend ports.SessionBackend
	Ping    func(ctx context.Context) error
	Close   func(ctx context.Context) error
}

// Open builds the backend chosen by cfg, or def when cfg names none.
func Open(ctx context.Context, cfg *config.Config, def string) (*Opened, error) {
	name := cfg.Session.BackendOr(def)
	noClose := func(context.Context) error { return nil }

	switch name {
	case config.BackendMemory:
		return &Opened{Name: name, Backend: NewMemoryBackend(), Close: noClose}, nil

	case config.BackendFile:
		path := cfg.Session.File
		if path == "" {
			path = xdg.SessionFile()
		}
		if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, fmt.Errorf("open file session backend: %w", err)
		}
		return &Opened{Name: name, Backend: NewFileBackend(path), Close: noClose}, nil

	case config.BackendRedis:
		client, err := hmsredis.Connect(ctx, hmsredis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis session backend: %w", err)
		}
		return &Opened{
			Name:    name,
			Backend: hmsredis.NewSessionBackend(client, cfg.Session.TTL),
			Ping:    func(ctx context.Context) error { return client.Ping(ctx).Err() },
			Close:   func(context.Context) error { return client.Close() },
		}, nil

	case config.BackendMongo:
		backend, err := hmsmongo.Open(ctx, hmsmongo.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			SessionTTL: cfg.Session.TTL,
		})
		if err != nil {
			return nil, fmt.Errorf("open mongo session backend: %w", err)
		}
		return &Opened{Name: name, Backend: backend, Ping: backend.Ping, Close: backend.Close}, nil
	}
	return nil, fmt.Errorf("unknown session backend %q", name)
}
