// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package source loads person records from the remote JSON feed, the remote
// XML feed, and the local key-value store, and normalizes them into
// types.Person.
//
// Every loader is read-only with respect to its source. Failures are
// returned as *LoadError wrapping one of ErrFetch, ErrParse, or
// ErrStorageDecode; a failed load returns no records at all.
package source

import (
	"context"
	"errors"

	"github.com/pdiddy/personas/pkg/types"
)

// Loader reads one source and returns its records in source order.
type Loader interface {
	Name() types.SourceName
	Load(ctx context.Context) ([]types.Person, error)
}

// Error kinds.
var (
	ErrFetch         = errors.New("fetch failed")
	ErrParse         = errors.New("malformed document")
	ErrStorageDecode = errors.New("stored value unreadable")
)

// LoadError attributes a load failure to its source.
type LoadError struct {
	Source types.SourceName
	Err    error
}

func (e *LoadError) Error() string {
	return "loading " + string(e.Source) + " source: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error { return e.Err }

// Kind returns a short label for the error kind: "fetch", "parse",
// "storage_decode", or "other".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrFetch):
		return "fetch"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrStorageDecode):
		return "storage_decode"
	default:
		return "other"
	}
}
