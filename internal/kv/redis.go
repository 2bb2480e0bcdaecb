// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/rueidis"
)

// RedisConfig holds connection parameters for a Redis store.
type RedisConfig struct {
	Addrs    []string
	Password string
	DB       int
}

// Redis stores values as plain Redis strings via rueidis.
type Redis struct {
	client rueidis.Client
}

// NewRedis connects to the Redis addresses in cfg.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if len(cfg.Addrs) == 0 {
		return nil, &Error{Op: OpOpen, Err: errors.New("redis addrs is required")}
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, &Error{Op: OpOpen, Err: fmt.Errorf("creating client: %w", err)}
	}
	return &Redis{client: client}, nil
}

// newRedisWithClient wraps an existing client. Tests pass a rueidis mock.
func newRedisWithClient(c rueidis.Client) *Redis {
	return &Redis{client: c}
}

// Get returns the value stored at key, or ErrNotFound.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := r.client.B().Get().Key(key).Build()
	data, err := r.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrNotFound
		}
		return nil, &Error{Op: OpGet, Key: key, Err: err}
	}
	return data, nil
}

// Set writes value at key with no expiry.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	cmd := r.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return &Error{Op: OpSet, Key: key, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (r *Redis) Close() error {
	r.client.Close()
	return nil
}
