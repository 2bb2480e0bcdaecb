// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pdiddy/personas/internal/aggregate"
	"github.com/pdiddy/personas/internal/api"
	"github.com/pdiddy/personas/internal/kv"
	"github.com/pdiddy/personas/internal/results"
	"github.com/pdiddy/personas/internal/source"
	"github.com/pdiddy/personas/pkg/types"
)

func TestStartHTTPServesHostedFeedsImmediately(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "personas.json"),
		[]byte(`[{"id":"1","nombre":"Ana"}]`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "personas.xml"),
		[]byte(`<personas><persona><id>10</id><nombre>Marta</nombre></persona></personas>`), 0o644))

	backend := kv.NewMemory()
	catalog := aggregate.NewCatalog(zap.NewNop(), nil)
	svc := aggregate.NewService(catalog, results.NewStore(backend, "", zap.NewNop()), nil, zap.NewNop())
	srv := &http.Server{Handler: api.NewServer(svc, zap.NewNop(), api.WithDataDir(dir)).Router()}

	addr, errCh, err := startHTTP(srv, "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		<-errCh
	})

	// Load right away, with no wait between binding and fetching.
	cfg := types.SourcesConfig{
		BaseURL:  "http://" + addr.String(),
		JSONPath: "/data/personas.json",
		XMLPath:  "/data/personas.xml",
	}
	loaded := aggregate.NewCatalog(zap.NewNop(), nil,
		&source.JSONLoader{URL: cfg.JSONURL()},
		&source.XMLLoader{URL: cfg.XMLURL()},
	)
	loaded.Load(context.Background())

	assert.Empty(t, loaded.Errors())
	sets := loaded.Sets()
	require.Len(t, sets[1].People, 1)
	require.Len(t, sets[2].People, 1)
	assert.Equal(t, "Ana", types.ToString(sets[1].People[0].Name))
	assert.Equal(t, "Marta", types.ToString(sets[2].People[0].Name))
}

func TestStartHTTPReportsBindFailure(t *testing.T) {
	srv := &http.Server{Handler: http.NotFoundHandler()}
	addr, errCh, err := startHTTP(srv, "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = srv.Close()
		<-errCh
	})

	_, _, err = startHTTP(&http.Server{}, addr.String())
	assert.Error(t, err)
}
