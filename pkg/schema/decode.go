package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrInvalidJSON is returned when a payload is neither JSON nor YAML.
var ErrInvalidJSON = errors.New("schema: invalid JSON")

// ToJSON returns raw unchanged when it is JSON and converts it when it is a
// YAML document.
func ToJSON(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("schema: document is empty")
	}
	if json.Valid(trimmed) {
		return trimmed, nil
	}
	return yamlToJSON(trimmed)
}

func yamlToJSON(raw []byte) ([]byte, error) {
	var decoded any
	if err := yaml.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	data, err := json.Marshal(normaliseYAML(decoded))
	if err != nil {
		return nil, fmt.Errorf("schema: convert yaml: %w", err)
	}
	return data, nil
}

// normaliseYAML rewrites map[any]any nodes, which encoding/json rejects.
func normaliseYAML(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normaliseYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normaliseYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normaliseYAML(item)
		}
		return out
	default:
		return v
	}
}

// Parse validates raw with the authoring validator and decodes it. Failures
// are returned as *validation.SchemaError.
func Parse(raw []byte) (*model.Schema, error) {
	data, err := ToJSON(raw)
	if err != nil {
		return nil, err
	}
	if result := validation.ValidateSchemaJSON(data); !result.Valid {
		return nil, &validation.SchemaError{Result: result}
	}
	var out model.Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return &out, nil
}

// MustParse panics when raw is not a valid schema. Useful for tests and
// embedded fixtures.
func MustParse(raw []byte) *model.Schema {
	out, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return out
}

type lenientDocument struct {
	Sections json.RawMessage `json:"sections"`
}

type lenientSection struct {
	ID          model.ID        `json:"id"`
	Name        string          `json:"name"`
	Width       model.Width     `json:"width"`
	IsPadding   bool            `json:"isPadding"`
	Collapsible bool            `json:"collapsible"`
	Expanded    bool            `json:"expanded"`
	Fields      json.RawMessage `json:"fields"`
}

// DecodeLenient decodes a stored schema for rendering. Entries that cannot be
// used are dropped and reported as warnings instead of failing the whole
// document: sections without a fields array, fields with an unknown type or
// no name, and entries whose JSON shape does not decode.
func DecodeLenient(raw []byte) (*model.Schema, []string) {
	data, err := ToJSON(raw)
	if err != nil {
		return nil, []string{err.Error()}
	}

	var doc lenientDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, []string{fmt.Sprintf("schema: decode: %v", err)}
	}

	out := &model.Schema{}
	var warnings []string

	var sections []json.RawMessage
	if err := json.Unmarshal(doc.Sections, &sections); err != nil || doc.Sections == nil {
		return out, append(warnings, "schema: sections is missing or not an array")
	}

	for i, rawSection := range sections {
		var section lenientSection
		if err := json.Unmarshal(rawSection, &section); err != nil {
			warnings = append(warnings, fmt.Sprintf("section %d skipped: %v", i+1, err))
			continue
		}

		var rawFields []json.RawMessage
		if section.Fields == nil || json.Unmarshal(section.Fields, &rawFields) != nil {
			warnings = append(warnings, fmt.Sprintf("section %d skipped: fields is missing or not an array", i+1))
			continue
		}

		decoded := model.Section{
			ID:          section.ID,
			Name:        section.Name,
			Width:       section.Width,
			IsPadding:   section.IsPadding,
			Collapsible: section.Collapsible,
			Expanded:    section.Expanded,
			Fields:      make([]model.Field, 0, len(rawFields)),
		}
		for j, rawField := range rawFields {
			var field model.Field
			if err := json.Unmarshal(rawField, &field); err != nil {
				warnings = append(warnings, fmt.Sprintf("field %d in section %d skipped: %v", j+1, i+1, err))
				continue
			}
			if strings.TrimSpace(field.Name) == "" {
				warnings = append(warnings, fmt.Sprintf("field %d in section %d skipped: missing name", j+1, i+1))
				continue
			}
			if !model.KnownFieldType(field.Type) {
				warnings = append(warnings, fmt.Sprintf("field %q in section %d skipped: unsupported type %q", field.Name, i+1, field.Type))
				continue
			}
			decoded.Fields = append(decoded.Fields, field)
		}
		out.Sections = append(out.Sections, decoded)
	}

	return out, warnings
}

// Format pretty-prints syntactically valid JSON with a two space indent. Key
// order is preserved and the schema itself is not validated.
func Format(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	var buf bytes.Buffer
	if err := json.Indent(&buf, trimmed, "", "  "); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return buf.Bytes(), nil
}

// Marshal encodes a schema as pretty JSON.
func Marshal(s *model.Schema) ([]byte, error) {
	if s == nil {
		s = &model.Schema{}
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encode: %w", err)
	}
	return data, nil
}
