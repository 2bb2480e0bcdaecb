// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"fmt"
	"io"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/personas/pkg/types"
)

// ExportFile is the on-disk YAML snapshot of the accumulated results.
type ExportFile struct {
	Results []types.Result `yaml:"results"`
	Summary ExportSummary  `yaml:"summary"`
}

// ExportSummary stores counts and the snapshot timestamp.
type ExportSummary struct {
	Total     int       `yaml:"total"`
	WithoutID int       `yaml:"without_id"`
	Timestamp time.Time `yaml:"timestamp"`
}

// Export writes the current mirror to w as YAML.
func (s *Store) Export(w io.Writer) error {
	results := s.All()
	ef := ExportFile{
		Results: results,
		Summary: ExportSummary{
			Total:     len(results),
			Timestamp: time.Now().UTC(),
		},
	}
	for _, r := range results {
		if r.ID == nil {
			ef.Summary.WithoutID++
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&ef); err != nil {
		return fmt.Errorf("marshaling export: %w", err)
	}
	return enc.Close()
}

// WriteExportFile saves the current mirror to a YAML file at path.
func (s *Store) WriteExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	if err := s.Export(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadExportFile loads a previously written export.
func ReadExportFile(path string) (*ExportFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading export file: %w", err)
	}
	var ef ExportFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parsing export file: %w", err)
	}
	return &ef, nil
}
