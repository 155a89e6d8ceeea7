package store

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Options selects and configures a KV backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisURL   string
}

// Open returns the KV backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		return OpenSQLite(opts.SQLitePath)
	case BackendRedis:
		client, err := ConnectRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, ""), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
