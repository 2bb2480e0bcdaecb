// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pdiddy/personas/internal/kv"
	"github.com/pdiddy/personas/pkg/types"
)

// DefaultPersonasKey is the storage key holding locally registered people.
const DefaultPersonasKey = "personas"

// LocalLoader reads locally registered people from durable storage.
type LocalLoader struct {
	Store kv.Store
	Key   string
}

// Name returns the source identifier.
func (l *LocalLoader) Name() types.SourceName { return types.SourceLocal }

// Load reads and decodes the stored array. A key that was never written is
// an empty set, not an error.
func (l *LocalLoader) Load(ctx context.Context) ([]types.Person, error) {
	key := l.Key
	if key == "" {
		key = DefaultPersonasKey
	}

	data, err := l.Store.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return []types.Person{}, nil
	}
	if err != nil {
		return nil, &LoadError{Source: l.Name(), Err: fmt.Errorf("%w: %w", ErrStorageDecode, err)}
	}

	var people []types.Person
	if err := json.Unmarshal(data, &people); err != nil {
		return nil, &LoadError{Source: l.Name(), Err: fmt.Errorf("%w: key %q: %w", ErrStorageDecode, key, err)}
	}
	return passThrough(people), nil
}

// SaveLocal replaces the locally registered people stored under key.
func SaveLocal(ctx context.Context, store kv.Store, key string, people []types.Person) error {
	if key == "" {
		key = DefaultPersonasKey
	}
	data, err := json.Marshal(passThrough(people))
	if err != nil {
		return fmt.Errorf("encoding people: %w", err)
	}
	return store.Set(ctx, key, data)
}
