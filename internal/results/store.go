// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package results keeps the accumulated search results: every match ever
// returned by a search, persisted in durable storage and editable in place.
//
// New matches are always appended; nothing is replaced or deduplicated.
// Entries can later be edited (name and surname only) or deleted. Each
// read-modify-write runs under a single lock and writes the whole sequence
// back before returning.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/kv"
	"github.com/pdiddy/personas/internal/source"
	"github.com/pdiddy/personas/pkg/types"
)

// DefaultKey is the storage key holding the accumulated results.
const DefaultKey = "resultadosBusqueda"

// Mutation operation labels reported to the Observer.
const (
	OpAppend = "append"
	OpDelete = "delete"
	OpEdit   = "edit"
)

// Observer receives notifications about store activity. metrics.Recorder
// implements it.
type Observer interface {
	Mutation(op string, changed bool)
	ResultsSize(n int)
}

type nopObserver struct{}

func (nopObserver) Mutation(string, bool) {}
func (nopObserver) ResultsSize(int)       {}

// Option configures a Store.
type Option func(*Store)

// WithObserver reports mutations and result counts to o.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithRefFunc replaces the generator of synthetic entry refs.
func WithRefFunc(f func() string) Option {
	return func(s *Store) { s.newRef = f }
}

// Store is the accumulated result set backed by a kv.Store.
type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	key      string
	logger   *zap.Logger
	observer Observer
	newRef   func() string

	// mirror is the last sequence read from or written to storage.
	mirror []types.Result
}

// NewStore returns a Store over backend. An empty key selects DefaultKey.
func NewStore(backend kv.Store, key string, logger *zap.Logger, opts ...Option) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		kv:       backend,
		key:      key,
		logger:   logger,
		observer: nopObserver{},
		newRef:   uuid.NewString,
		mirror:   []types.Result{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load refreshes the in-memory mirror from storage and returns a copy.
// A missing or undecodable value yields an empty set. Entries stored
// without a ref are given one and written back, so refs stay stable
// across processes.
func (s *Store) Load(ctx context.Context) ([]types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, assigned, err := s.readRefs(ctx)
	if err != nil {
		return nil, err
	}
	if assigned > 0 {
		if err := s.write(ctx, cur); err != nil {
			return nil, err
		}
		s.logger.Info("assigned refs to stored results", zap.Int("count", assigned))
	}
	s.mirror = cur
	s.observer.ResultsSize(len(cur))
	return clone(cur), nil
}

// All returns a copy of the in-memory mirror without touching storage.
func (s *Store) All() []types.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.mirror)
}

// Append adds matches to the end of the stored sequence and returns the
// updated sequence. Each appended entry gets a fresh ref.
func (s *Store) Append(ctx context.Context, matches []types.Person) ([]types.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(ctx)
	if err != nil {
		return nil, err
	}

	updated := make([]types.Result, 0, len(cur)+len(matches))
	updated = append(updated, cur...)
	for _, p := range matches {
		updated = append(updated, types.Result{Ref: s.newRef(), Person: p.Clone()})
	}

	if err := s.write(ctx, updated); err != nil {
		return nil, err
	}
	s.observer.Mutation(OpAppend, len(matches) > 0)
	s.logger.Debug("appended search results",
		zap.Int("appended", len(matches)),
		zap.Int("total", len(updated)),
	)
	return clone(updated), nil
}

// Delete removes every entry whose id equals id and returns how many were
// removed. When nothing matches, storage is not written. An entry without
// an id never matches.
func (s *Store) Delete(ctx context.Context, id string) (int, error) {
	return s.remove(ctx, hasID(id))
}

// DeleteRef removes the entry with the given synthetic ref.
func (s *Store) DeleteRef(ctx context.Context, ref string) (int, error) {
	if ref == "" {
		return 0, nil
	}
	return s.remove(ctx, func(r types.Result) bool { return r.Ref == ref })
}

// Edit asks p for a new name and surname for the first entry whose id equals
// id. Both values must be non-empty for the entry to change. It reports
// whether the stored set was modified. An entry without an id never matches.
func (s *Store) Edit(ctx context.Context, id string, p Prompter) (bool, error) {
	return s.edit(ctx, hasID(id), p)
}

// EditRef is Edit addressed by synthetic ref.
func (s *Store) EditRef(ctx context.Context, ref string, p Prompter) (bool, error) {
	if ref == "" {
		return false, nil
	}
	return s.edit(ctx, func(r types.Result) bool { return r.Ref == ref }, p)
}

func hasID(id string) func(types.Result) bool {
	return func(r types.Result) bool { return r.ID != nil && *r.ID == id }
}

func (s *Store) remove(ctx context.Context, match func(types.Result) bool) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(ctx)
	if err != nil {
		return 0, err
	}

	kept := make([]types.Result, 0, len(cur))
	for _, r := range cur {
		if !match(r) {
			kept = append(kept, r)
		}
	}
	removed := len(cur) - len(kept)
	if removed == 0 {
		s.mirror = cur
		s.observer.Mutation(OpDelete, false)
		return 0, nil
	}

	if err := s.write(ctx, kept); err != nil {
		return 0, err
	}
	s.observer.Mutation(OpDelete, true)
	return removed, nil
}

func (s *Store) edit(ctx context.Context, match func(types.Result) bool, p Prompter) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.read(ctx)
	if err != nil {
		return false, err
	}
	s.mirror = cur

	idx := -1
	for i, r := range cur {
		if match(r) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.observer.Mutation(OpEdit, false)
		return false, nil
	}

	e, ok := p.Prompt(cur[idx].Person.Clone())
	if !ok || !e.Complete() {
		s.observer.Mutation(OpEdit, false)
		return false, nil
	}

	updated := clone(cur)
	updated[idx].Name = types.String(e.Name)
	updated[idx].Surname = types.String(e.Surname)
	if err := s.write(ctx, updated); err != nil {
		return false, err
	}
	s.observer.Mutation(OpEdit, true)
	return true, nil
}

// read loads the stored sequence. Undecodable values are logged and treated
// as empty; backend failures are returned so a mutation never overwrites
// data it could not read.
func (s *Store) read(ctx context.Context) ([]types.Result, error) {
	cur, _, err := s.readRefs(ctx)
	return cur, err
}

// readRefs is read that also reports how many entries were missing a ref.
func (s *Store) readRefs(ctx context.Context) ([]types.Result, int, error) {
	data, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return []types.Result{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", s.key, err)
	}

	var stored []types.Result
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("accumulated results unreadable, starting empty",
			zap.String("key", s.key),
			zap.Error(fmt.Errorf("%w: %w", source.ErrStorageDecode, err)),
		)
		return []types.Result{}, 0, nil
	}
	if stored == nil {
		stored = []types.Result{}
	}

	assigned := 0
	for i := range stored {
		if stored[i].Ref == "" {
			stored[i].Ref = s.newRef()
			assigned++
		}
	}
	return stored, assigned, nil
}

func (s *Store) write(ctx context.Context, results []types.Result) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("writing %s: %w", s.key, err)
	}
	s.mirror = results
	s.observer.ResultsSize(len(results))
	return nil
}

// clone deep-copies results so callers never share field storage with the
// mirror.
func clone(results []types.Result) []types.Result {
	out := make([]types.Result, len(results))
	for i, r := range results {
		out[i] = types.Result{Ref: r.Ref, Person: r.Person.Clone()}
	}
	return out
}
