// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package kv provides the durable string-keyed storage that holds locally
// registered people and accumulated search results. Values are opaque bytes;
// callers store JSON documents.
package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdiddy/personas/pkg/types"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("kv: key not found")

// Op names used in Error for diagnostics.
const (
	OpGet  = "GET"
	OpSet  = "SET"
	OpOpen = "OPEN"
)

// Error wraps a backend failure with the operation that caused it.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return "kv " + e.Op + ": " + e.Err.Error()
	}
	return "kv " + e.Op + " " + e.Key + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Store is a string-keyed key-value store that survives process restarts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(cfg types.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case types.StorageSQLite, "":
		s, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case types.StorageRedis:
		r, err := NewRedis(RedisConfig{Addrs: cfg.RedisAddrs, Password: cfg.RedisPassword})
		if err != nil {
			return nil, err
		}
		return r, nil
	case types.StorageMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
