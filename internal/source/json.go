// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pdiddy/personas/internal/httputil"
	"github.com/pdiddy/personas/pkg/types"
)

// JSONLoader fetches a JSON array of person objects.
type JSONLoader struct {
	Client    *http.Client
	URL       string
	UserAgent string
}

// Name returns the source identifier.
func (l *JSONLoader) Name() types.SourceName { return types.SourceJSON }

// Load fetches and decodes the feed. The decoded records are returned as-is.
func (l *JSONLoader) Load(ctx context.Context) ([]types.Person, error) {
	body, err := httputil.Get(ctx, l.Client, l.URL, l.UserAgent)
	if err != nil {
		return nil, &LoadError{Source: l.Name(), Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	}

	var people []types.Person
	if err := json.Unmarshal(body, &people); err != nil {
		return nil, &LoadError{Source: l.Name(), Err: fmt.Errorf("%w: %w", ErrParse, err)}
	}
	return passThrough(people), nil
}
