// Package kv is the persistence primitive behind the catalog and the ledger:
// whole JSON blobs stored under a handful of string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"plenapos/internal/config"
)

var ErrNotFound = errors.New("kv: key not found")

// Batch is a set of writes applied together by SetMany.
type Batch map[string]string

// Keys returns the batch keys in sorted order.
func (b Batch) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type Store interface {
	// Get returns ErrNotFound when the key was never written.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// SetMany applies every entry or none of them.
	SetMany(ctx context.Context, b Batch) error
	Close() error
}

// Open builds the backend selected by cfg.Backend.
func Open(cfg config.Config) (Store, error) {
	switch cfg.Backend {
	case "", "sqlite":
		return OpenSQLite(cfg.DBDSN)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, DefaultPrefix), nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
