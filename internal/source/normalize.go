// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"strings"

	"github.com/pdiddy/personas/pkg/types"
)

// xmlText is the compact form of a text-only element: its character data
// under a single wrapper, like {_text: value}.
type xmlText struct {
	Text string `xml:",chardata"`
}

// xmlPersona is one <persona> element. A nil field means the element was
// absent. Only the elements the feed defines are read; any other child
// element is ignored.
type xmlPersona struct {
	ID       *xmlText `xml:"id"`
	Name     *xmlText `xml:"nombre"`
	Age      *xmlText `xml:"edad"`
	Capacity *xmlText `xml:"capacidad"`
	Email    *xmlText `xml:"email"`
}

// unwrap returns the text of t verbatim. An absent element, or one holding
// only whitespace, carries no text and yields an absent field.
func unwrap(t *xmlText) *string {
	if t == nil || strings.TrimSpace(t.Text) == "" {
		return nil
	}
	return types.String(t.Text)
}

// fromXML maps one compact <persona> tree onto the canonical record.
func fromXML(p xmlPersona) types.Person {
	return types.Person{
		ID:       unwrap(p.ID),
		Name:     unwrap(p.Name),
		Age:      unwrap(p.Age),
		Capacity: unwrap(p.Capacity),
		Email:    unwrap(p.Email),
	}
}

// passThrough returns flat records unchanged, substituting an empty slice for nil.
func passThrough(people []types.Person) []types.Person {
	if people == nil {
		return []types.Person{}
	}
	return people
}
