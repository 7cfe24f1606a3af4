// Package editor keeps the draft state of the admin schema editor: free-form
// JSON text, the status of the last check and the last committed schema.
package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrInvalidJSON is returned by Format when the draft does not parse.
var ErrInvalidJSON = errors.New("editor: invalid JSON")

const invalidJSONPrefix = "Invalid JSON: "

// Status describes the draft after the last SetText.
type Status struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	Path    string `json:"path,omitempty"`
}

// Option configures an Editor.
type Option func(*Editor)

// WithCommitListener registers a callback invoked with every committed
// schema.
func WithCommitListener(fn func(*model.Schema)) Option {
	return func(e *Editor) {
		e.onCommit = fn
	}
}

// Editor is single-owner; callers serialise access.
type Editor struct {
	text          string
	committedText string
	status        Status
	committed     *model.Schema
	onCommit      func(*model.Schema)
}

// New seeds the editor with the pretty-printed initial schema. A nil schema
// starts from an empty sections array.
func New(initial *model.Schema, opts ...Option) (*Editor, error) {
	e := &Editor{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	seed := initial
	if seed == nil || seed.Sections == nil {
		seed = &model.Schema{Sections: []model.Section{}}
	}
	text, err := schema.Marshal(seed)
	if err != nil {
		return nil, fmt.Errorf("editor: seed draft: %w", err)
	}

	e.text = string(text)
	e.committedText = e.text
	e.status = check(text)
	if e.status.Valid {
		e.committed, err = seed.Clone()
		if err != nil {
			return nil, fmt.Errorf("editor: copy initial schema: %w", err)
		}
	}
	return e, nil
}

// SetText replaces the draft and checks it. Syntax errors are reported as
// "Invalid JSON: <detail>"; otherwise the first authoring error is surfaced
// verbatim. Only a valid draft is committed.
func (e *Editor) SetText(text string) Status {
	e.text = text
	e.status = check([]byte(text))
	if !e.status.Valid {
		return e.status
	}

	parsed, err := schema.Parse([]byte(text))
	if err != nil {
		e.status = Status{Message: err.Error()}
		return e.status
	}
	e.committed = parsed
	e.committedText = text
	if e.onCommit != nil {
		e.onCommit(parsed)
	}
	return e.status
}

// Format pretty-prints the draft with a two space indent, keeping key order.
// It works on any syntactically valid JSON, including drafts that fail the
// authoring checks.
func (e *Editor) Format() error {
	formatted, err := schema.Format([]byte(e.text))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidJSON, syntaxDetail([]byte(e.text)))
	}
	clean := !e.Dirty()
	e.text = string(formatted)
	if clean {
		e.committedText = e.text
	}
	return nil
}

// Reset discards the draft and restores the committed text.
func (e *Editor) Reset() Status {
	e.text = e.committedText
	e.status = check([]byte(e.text))
	return e.status
}

// Text returns the current draft.
func (e *Editor) Text() string { return e.text }

// Status returns the result of the last check.
func (e *Editor) Status() Status { return e.status }

// Schema returns the last committed schema, nil when nothing valid was ever
// committed.
func (e *Editor) Schema() *model.Schema { return e.committed }

// Dirty reports whether the draft differs from the committed text.
func (e *Editor) Dirty() bool { return e.text != e.committedText }

func check(raw []byte) Status {
	if !json.Valid(bytes.TrimSpace(raw)) {
		return Status{Message: invalidJSONPrefix + syntaxDetail(raw)}
	}
	result := validation.ValidateSchemaJSON(bytes.TrimSpace(raw))
	if !result.Valid {
		return Status{Message: result.Error, Path: result.Path}
	}
	return Status{Valid: true}
}

func syntaxDetail(raw []byte) string {
	var probe any
	if err := json.Unmarshal(raw, &probe); err != nil {
		return err.Error()
	}
	return "malformed document"
}
