package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Transformer rewrites a schema copy before a session is created, for
// example to localise labels for one storefront.
type Transformer interface {
	Transform(ctx context.Context, schema *model.Schema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, schema *model.Schema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, schema *model.Schema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, schema)
}

// JSONPresetTransformer applies declarative overrides loaded from JSON:
//
//	{
//	  "sections": {"1": {"name": "Your details"}},
//	  "fields": {
//	    "name": {"label": "Nom", "placeholder": "Jean Dupont"},
//	    "tier": {"required": true}
//	  }
//	}
//
// Sections are keyed by id and fields by name. Every declaration of a name
// is patched.
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Sections map[string]sectionPatch `json:"sections"`
	Fields   map[string]fieldPatch   `json:"fields"`
}

type sectionPatch struct {
	Name string `json:"name"`
}

type fieldPatch struct {
	Label       string `json:"label"`
	Description string `json:"description"`
	Placeholder string `json:"placeholder"`
	Required    *bool  `json:"required"`
	ReadOnly    *bool  `json:"readonly"`
	Disabled    *bool  `json:"disabled"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from fsys.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches. A patch naming an unknown field or section
// is an error so typos surface early.
func (t *JSONPresetTransformer) Transform(ctx context.Context, schema *model.Schema) error {
	if schema == nil {
		return errors.New("json preset transformer: schema is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for id, patch := range t.document.Sections {
		found := false
		for i := range schema.Sections {
			if schema.Sections[i].ID.String() != id {
				continue
			}
			found = true
			if patch.Name != "" {
				schema.Sections[i].Name = patch.Name
			}
		}
		if !found {
			return fmt.Errorf("json preset transformer: section %q not found", id)
		}
	}

	for name, patch := range t.document.Fields {
		found := false
		for i := range schema.Sections {
			fields := schema.Sections[i].Fields
			for j := range fields {
				if fields[j].Name != name {
					continue
				}
				found = true
				applyFieldPatch(&fields[j], patch)
			}
		}
		if !found {
			return fmt.Errorf("json preset transformer: field %q not found", name)
		}
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Description != "" {
		field.Description = patch.Description
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if patch.Required != nil {
		field.Required = *patch.Required
	}
	if patch.ReadOnly != nil {
		field.ReadOnly = *patch.ReadOnly
	}
	if patch.Disabled != nil {
		field.Disabled = *patch.Disabled
	}
}
