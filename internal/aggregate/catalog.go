// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate holds the loaded source sets and wires search into the
// accumulated results.
package aggregate

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/metrics"
	"github.com/pdiddy/personas/internal/source"
	"github.com/pdiddy/personas/pkg/types"
)

// Catalog holds one in-memory set per source. Sets are replaced whole by
// Load and are read-only otherwise.
type Catalog struct {
	loaders []source.Loader
	logger  *zap.Logger
	rec     *metrics.Recorder

	mu   sync.RWMutex
	gen  uint64
	sets map[types.SourceName][]types.Person
	errs map[types.SourceName]error
}

// NewCatalog returns an empty catalog over loaders. rec may be nil.
func NewCatalog(logger *zap.Logger, rec *metrics.Recorder, loaders ...source.Loader) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		loaders: loaders,
		logger:  logger,
		rec:     rec,
		sets:    make(map[types.SourceName][]types.Person),
		errs:    make(map[types.SourceName]error),
	}
}

// loadResult is one loader's outcome, tagged with the load that started it.
type loadResult struct {
	gen    uint64
	name   types.SourceName
	people []types.Person
	err    error
}

// Load runs every loader concurrently and stores each successful result as
// that source's set. A failed loader is logged and its set is left empty.
// If ctx ends first, loaders still running are abandoned and their results
// discarded; the sets that did resolve are kept. When loads overlap, only
// the most recently started one may update the sets.
func (c *Catalog) Load(ctx context.Context) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	for _, l := range c.loaders {
		c.sets[l.Name()] = []types.Person{}
		delete(c.errs, l.Name())
	}
	c.mu.Unlock()

	// Buffered so abandoned loaders never block.
	ch := make(chan loadResult, len(c.loaders))
	var wg sync.WaitGroup

	for _, l := range c.loaders {
		wg.Add(1)
		go func(l source.Loader) {
			defer wg.Done()
			people, err := l.Load(ctx)
			ch <- loadResult{gen: gen, name: l.Name(), people: people, err: err}
		}(l)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	c.collect(ctx, ch)
}

// collect applies results from ch until it closes or ctx ends. Results
// already delivered are applied before cancellation is honoured.
func (c *Catalog) collect(ctx context.Context, ch <-chan loadResult) {
	for {
		select {
		case r, ok := <-ch:
			if !ok {
				return
			}
			c.apply(r)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			c.logger.Warn("source loading abandoned", zap.Error(ctx.Err()))
			return
		case r, ok := <-ch:
			if !ok {
				return
			}
			c.apply(r)
		}
	}
}

func (c *Catalog) apply(r loadResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if r.gen != c.gen {
		c.logger.Debug("discarding superseded load",
			zap.String("source", string(r.name)),
			zap.Uint64("generation", r.gen),
		)
		return
	}

	if r.err != nil {
		c.errs[r.name] = r.err
		c.rec.LoadFailed(r.name, source.Kind(r.err))
		c.rec.Loaded(r.name, 0)
		c.logger.Warn("source load failed",
			zap.String("source", string(r.name)),
			zap.String("kind", source.Kind(r.err)),
			zap.Error(r.err),
		)
		return
	}

	c.sets[r.name] = r.people
	c.rec.Loaded(r.name, len(r.people))
	c.logger.Debug("source loaded",
		zap.String("source", string(r.name)),
		zap.Int("records", len(r.people)),
	)
}

// Sets returns the sets in search order: local, JSON, XML. A source with
// no loader, a failed load, or a pending load yields an empty set.
func (c *Catalog) Sets() []types.SourceSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.SourceSet, 0, len(types.SourceOrder))
	for _, name := range types.SourceOrder {
		people := c.sets[name]
		if people == nil {
			people = []types.Person{}
		}
		out = append(out, types.SourceSet{Source: name, People: people})
	}
	return out
}

// Errors returns the load error per failed source.
func (c *Catalog) Errors() map[types.SourceName]error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[types.SourceName]error, len(c.errs))
	for k, v := range c.errs {
		out[k] = v
	}
	return out
}
