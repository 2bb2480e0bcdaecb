// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search filters the union of the loaded source sets with a
// case-insensitive substring query and renders records for the CLI.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/personas/pkg/types"
)

// Search returns every record in sets that matches query, in set order and
// then in each set's own order. Duplicates are kept. An empty query matches
// every record that carries at least one searchable field, even an empty one.
func Search(query string, sets ...types.SourceSet) []types.Person {
	q := strings.ToLower(query)
	matches := []types.Person{}
	for _, set := range sets {
		for _, p := range set.People {
			if Matches(p, q) {
				matches = append(matches, p)
			}
		}
	}
	return matches
}

// Matches reports whether the lower-cased query q is a substring of the
// record's name, surname, address, or disability. Other fields are never
// searched. An absent field never matches; a present empty field matches
// the empty query.
func Matches(p types.Person, q string) bool {
	for _, field := range []*string{p.Name, p.Surname, p.Address, p.Disability} {
		if field == nil {
			continue
		}
		if strings.Contains(strings.ToLower(*field), q) {
			return true
		}
	}
	return false
}

// FormatResults writes accumulated results as a human-readable table to w.
func FormatResults(results []types.Result, w io.Writer) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-8s  %-16s  %-16s  %-4s  %-20s  %-14s  %-12s\n",
		"#", "Ref", "ID", "Nombre", "Apellido", "Edad", "Dirección", "Discapacidad", "Teléfono")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for i, r := range results {
		fmt.Fprintf(w, "%-4d  %-8s  %-8s  %-16s  %-16s  %-4s  %-20s  %-14s  %-12s\n",
			i+1, truncate(r.Ref, 8), cell(r.ID, 8),
			cell(r.Name, 16), cell(r.Surname, 16), cell(r.Age, 4),
			cell(r.Address, 20), cell(r.Disability, 14), cell(r.Phone, 12))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
}

// FormatSets writes one table per source set. Remote feeds show name, age,
// capacity and email; the local set shows the registration fields.
func FormatSets(sets []types.SourceSet, w io.Writer) {
	for i, set := range sets {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "Source: %s (%d)\n", set.Source, len(set.People))
		if len(set.People) == 0 {
			fmt.Fprintln(w, "  (empty)")
			continue
		}

		if set.Source == types.SourceLocal {
			fmt.Fprintf(w, "%-16s  %-16s  %-4s  %-20s  %-14s  %-12s\n",
				"Nombre", "Apellido", "Edad", "Dirección", "Discapacidad", "Teléfono")
			fmt.Fprintln(w, strings.Repeat("-", 92))
			for _, p := range set.People {
				fmt.Fprintf(w, "%-16s  %-16s  %-4s  %-20s  %-14s  %-12s\n",
					cell(p.Name, 16), cell(p.Surname, 16), cell(p.Age, 4),
					cell(p.Address, 20), cell(p.Disability, 14), cell(p.Phone, 12))
			}
			continue
		}

		fmt.Fprintf(w, "%-20s  %-4s  %-12s  %s\n", "Nombre", "Edad", "Capacidad", "Email")
		fmt.Fprintln(w, strings.Repeat("-", 70))
		for _, p := range set.People {
			fmt.Fprintf(w, "%-20s  %-4s  %-12s  %s\n",
				cell(p.Name, 20), cell(p.Age, 4), cell(p.Capacity, 12), types.ToString(p.Email))
		}
	}
}

// FormatJSON writes v as indented JSON to w.
func FormatJSON(v any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// cell renders an optional field truncated to max runes.
func cell(s *string, max int) string {
	return truncate(types.ToString(s), max)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
