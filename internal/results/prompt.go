// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package results

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/personas/pkg/types"
)

// Prompter supplies replacement values for an entry being edited. It
// receives the entry's current record and returns ok=false when the
// operator cancels.
type Prompter interface {
	Prompt(current types.Person) (types.Edit, bool)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(current types.Person) (types.Edit, bool)

// Prompt calls f.
func (f PromptFunc) Prompt(current types.Person) (types.Edit, bool) { return f(current) }

// StaticPrompter answers every prompt with fixed values.
type StaticPrompter types.Edit

// Prompt returns the fixed values.
func (p StaticPrompter) Prompt(types.Person) (types.Edit, bool) { return types.Edit(p), true }

// ReaderPrompter asks for the new values on Out and reads one line per value
// from In. An empty line keeps the current value; end of input cancels.
type ReaderPrompter struct {
	In  io.Reader
	Out io.Writer

	r *bufio.Reader
}

// Prompt asks for the new name, then the new surname.
func (p *ReaderPrompter) Prompt(current types.Person) (types.Edit, bool) {
	if p.r == nil {
		p.r = bufio.NewReader(p.In)
	}
	name, ok := p.ask("Nuevo nombre", types.ToString(current.Name))
	if !ok {
		return types.Edit{}, false
	}
	surname, ok := p.ask("Nuevo apellido", types.ToString(current.Surname))
	if !ok {
		return types.Edit{}, false
	}
	return types.Edit{Name: name, Surname: surname}, true
}

func (p *ReaderPrompter) ask(label, current string) (string, bool) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "%s [%s]: ", label, current)

	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", false
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, true
	}
	return line, true
}
