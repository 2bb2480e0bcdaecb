// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for the personas pipeline:
// the canonical person record, the per-source record sets, and the accumulated
// search result entries.
package types

// Person is the canonical record every source is normalized into. JSON tags
// keep the wire names used by the feeds and by durable storage.
//
// Fields are pointers so a field the source did not carry (nil) stays
// distinct from one it carried empty (""). Absent fields are omitted on
// write and never filled with a placeholder; empty ones are written back
// as "".
type Person struct {
	ID         *string `json:"id,omitempty" yaml:"id,omitempty"`
	Name       *string `json:"nombre,omitempty" yaml:"nombre,omitempty"`
	Surname    *string `json:"apellido,omitempty" yaml:"apellido,omitempty"`
	Age        *string `json:"edad,omitempty" yaml:"edad,omitempty"`
	Address    *string `json:"direccion,omitempty" yaml:"direccion,omitempty"`
	Disability *string `json:"discapacidad,omitempty" yaml:"discapacidad,omitempty"`
	Phone      *string `json:"telefono,omitempty" yaml:"telefono,omitempty"`
	Capacity   *string `json:"capacidad,omitempty" yaml:"capacidad,omitempty"`
	Email      *string `json:"email,omitempty" yaml:"email,omitempty"`
}

// String returns a pointer to s, for building present fields.
func String(s string) *string { return &s }

// ToString returns the value of a field, or "" when it is absent.
func ToString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Clone returns a copy of p that shares no field storage with it.
func (p Person) Clone() Person {
	dup := func(s *string) *string {
		if s == nil {
			return nil
		}
		return String(*s)
	}
	return Person{
		ID:         dup(p.ID),
		Name:       dup(p.Name),
		Surname:    dup(p.Surname),
		Age:        dup(p.Age),
		Address:    dup(p.Address),
		Disability: dup(p.Disability),
		Phone:      dup(p.Phone),
		Capacity:   dup(p.Capacity),
		Email:      dup(p.Email),
	}
}

// SourceName identifies one of the three record sources.
type SourceName string

const (
	SourceLocal SourceName = "local"
	SourceJSON  SourceName = "json"
	SourceXML   SourceName = "xml"
)

// SourceOrder is the order in which sets are unioned for search.
var SourceOrder = []SourceName{SourceLocal, SourceJSON, SourceXML}

// SourceSet is the in-memory sequence of records loaded from one source.
// Sets are loaded independently and are never merged into a persistent set.
type SourceSet struct {
	Source SourceName `json:"source" yaml:"source"`
	People []Person   `json:"people" yaml:"people"`
}

// Result is one entry of the accumulated search results. Ref is a synthetic
// identifier assigned when the entry is appended, so entries whose source
// carried no id can still be edited or deleted.
type Result struct {
	Ref    string `json:"ref,omitempty" yaml:"ref,omitempty"`
	Person `yaml:",inline"`
}

// Edit carries the replacement name and surname for an accumulated entry.
type Edit struct {
	Name    string `json:"nombre" yaml:"nombre"`
	Surname string `json:"apellido" yaml:"apellido"`
}

// Complete reports whether both values were supplied.
func (e Edit) Complete() bool {
	return e.Name != "" && e.Surname != ""
}
