// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package source

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/pdiddy/personas/internal/httputil"
	"github.com/pdiddy/personas/pkg/types"
)

// XMLLoader fetches a <personas> document of repeated <persona> elements.
type XMLLoader struct {
	Client    *http.Client
	URL       string
	UserAgent string
}

// Name returns the source identifier.
func (l *XMLLoader) Name() types.SourceName { return types.SourceXML }

// Load fetches the feed, parses it into compact element trees, and
// normalizes each <persona>.
func (l *XMLLoader) Load(ctx context.Context) ([]types.Person, error) {
	body, err := httputil.Get(ctx, l.Client, l.URL, l.UserAgent)
	if err != nil {
		return nil, &LoadError{Source: l.Name(), Err: fmt.Errorf("%w: %w", ErrFetch, err)}
	}

	doc, err := parseXML(body)
	if err != nil {
		return nil, &LoadError{Source: l.Name(), Err: fmt.Errorf("%w: %w", ErrParse, err)}
	}

	people := make([]types.Person, 0, len(doc.Personas))
	for _, p := range doc.Personas {
		people = append(people, fromXML(p))
	}
	return people, nil
}

// XML document structure.
type xmlDocument struct {
	XMLName  xml.Name     `xml:"personas"`
	Personas []xmlPersona `xml:"persona"`
}

func parseXML(body []byte) (xmlDocument, error) {
	var doc xmlDocument
	dec := xml.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(&doc); err != nil {
		return xmlDocument{}, err
	}
	return doc, nil
}
