// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/metrics"
	"github.com/pdiddy/personas/internal/results"
	"github.com/pdiddy/personas/internal/search"
	"github.com/pdiddy/personas/pkg/types"
)

// SearchOutput holds the matches of one search and the accumulated results
// after they were appended.
type SearchOutput struct {
	Query   string         `json:"query"`
	Matches []types.Person `json:"matches"`
	Results []types.Result `json:"results"`
}

// Service runs searches over a Catalog and accumulates matches in a
// results.Store.
type Service struct {
	catalog *Catalog
	results *results.Store
	rec     *metrics.Recorder
	logger  *zap.Logger
}

// NewService wires a catalog to a result store. rec may be nil.
func NewService(catalog *Catalog, store *results.Store, rec *metrics.Recorder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{catalog: catalog, results: store, rec: rec, logger: logger}
}

// Catalog returns the underlying catalog.
func (s *Service) Catalog() *Catalog { return s.catalog }

// Results returns the underlying result store.
func (s *Service) Results() *results.Store { return s.results }

// Search matches query against the current sets and appends the matches to
// the accumulated results.
func (s *Service) Search(ctx context.Context, query string) (SearchOutput, error) {
	matches := search.Search(query, s.catalog.Sets()...)

	updated, err := s.results.Append(ctx, matches)
	if err != nil {
		return SearchOutput{}, fmt.Errorf("accumulating results: %w", err)
	}
	s.rec.SearchDone(len(matches))
	s.logger.Info("search",
		zap.String("query", query),
		zap.Int("matches", len(matches)),
		zap.Int("accumulated", len(updated)),
	)

	return SearchOutput{Query: query, Matches: matches, Results: updated}, nil
}
