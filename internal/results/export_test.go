// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/personas/internal/kv"
	"github.com/pdiddy/personas/pkg/types"
)

func TestExportRoundTrip(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	appended, err := s.Append(context.Background(), []types.Person{ana, carla})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "results.yaml")
	require.NoError(t, s.WriteExportFile(path))

	ef, err := ReadExportFile(path)
	require.NoError(t, err)
	assert.Equal(t, appended, ef.Results)
	assert.Equal(t, 2, ef.Summary.Total)
	assert.Equal(t, 1, ef.Summary.WithoutID)
	assert.False(t, ef.Summary.Timestamp.IsZero())
}

func TestExportUsesWireNames(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	_, err := s.Append(context.Background(), []types.Person{ana})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, s.Export(&buf))
	out := buf.String()
	assert.Contains(t, out, "nombre: Ana")
	assert.Contains(t, out, "ref: ref-1")
	assert.NotContains(t, out, "apellido")
}

func TestReadExportFileMissing(t *testing.T) {
	_, err := ReadExportFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
