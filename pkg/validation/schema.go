package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const msgInvalidJSON = "Invalid JSON"

// SchemaResult captures the outcome of an authoring check. Only the first
// problem is reported.
type SchemaResult struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Path  string `json:"path,omitempty"`
}

// SchemaError carries a failed SchemaResult through error returns.
type SchemaError struct {
	Result SchemaResult
}

func (e *SchemaError) Error() string {
	if e == nil {
		return ""
	}
	if e.Result.Path != "" {
		return fmt.Sprintf("%s (at %s)", e.Result.Error, e.Result.Path)
	}
	return e.Result.Error
}

// ValidateSchema checks an authoring document. raw may be JSON text as a
// string or []byte, or any value that encodes to JSON such as a decoded map
// or a *model.Schema.
func ValidateSchema(raw any) SchemaResult {
	switch v := raw.(type) {
	case []byte:
		return ValidateSchemaJSON(v)
	case string:
		return ValidateSchemaJSON([]byte(v))
	case json.RawMessage:
		return ValidateSchemaJSON(v)
	case nil:
		return invalid(`Schema must have a "sections" array`, "sections")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return invalid(msgInvalidJSON, "")
	}
	return ValidateSchemaJSON(data)
}

// ValidateSchemaJSON runs the authoring checks over raw JSON, section by
// section in document order. The first failing check wins.
func ValidateSchemaJSON(raw []byte) SchemaResult {
	if !gjson.ValidBytes(raw) {
		return invalid(msgInvalidJSON, "")
	}
	doc := gjson.ParseBytes(raw)
	sections := doc.Get("sections")
	if !doc.IsObject() || !sections.IsArray() {
		return invalid(`Schema must have a "sections" array`, "sections")
	}

	for i, section := range sections.Array() {
		if result := checkSection(i, section); !result.Valid {
			return result
		}
	}
	return SchemaResult{Valid: true}
}

func checkSection(index int, section gjson.Result) SchemaResult {
	path := fmt.Sprintf("sections.%d", index)
	n := index + 1

	if !section.IsObject() || !present(section.Get("id")) || !nonEmptyString(section.Get("name")) || !section.Get("fields").IsArray() {
		return invalid(fmt.Sprintf("Section %d must have an id, a name and a fields array", n), path)
	}

	width := section.Get("width")
	if width.Type != gjson.Number || !model.Width(int(width.Num)).Valid() || float64(int(width.Num)) != width.Num {
		return invalid(fmt.Sprintf("Section %d has invalid width %s. Must be one of 25, 50, 75, 100", n, describe(width)), path+".width")
	}

	for j, field := range section.Get("fields").Array() {
		if result := checkField(index, j, field); !result.Valid {
			return result
		}
	}
	return SchemaResult{Valid: true}
}

func checkField(sectionIndex, fieldIndex int, field gjson.Result) SchemaResult {
	path := fmt.Sprintf("sections.%d.fields.%d", sectionIndex, fieldIndex)
	n := sectionIndex + 1

	fieldType := field.Get("type")
	name := field.Get("name")
	if !field.IsObject() || !nonEmptyString(fieldType) || !nonEmptyString(name) || !nonEmptyString(field.Get("label")) {
		return invalid(fmt.Sprintf("Field %d in section %d must have type, name and label", fieldIndex+1, n), path)
	}

	if !model.KnownFieldType(model.FieldType(fieldType.Str)) {
		return invalid(fmt.Sprintf("Field %q in section %d has unsupported type %q", name.Str, n, fieldType.Str), path+".type")
	}

	if model.FieldType(fieldType.Str) == model.FieldTypeSelect {
		options := field.Get("options")
		if !options.IsArray() || len(options.Array()) == 0 {
			return invalid(fmt.Sprintf("Select field %q in section %d must have a non-empty options array", name.Str, n), path+".options")
		}
	}
	return SchemaResult{Valid: true}
}

func invalid(message, path string) SchemaResult {
	return SchemaResult{Valid: false, Error: message, Path: path}
}

func present(value gjson.Result) bool {
	if !value.Exists() || value.Type == gjson.Null {
		return false
	}
	return !(value.Type == gjson.String && value.Str == "")
}

func nonEmptyString(value gjson.Result) bool {
	return value.Type == gjson.String && strings.TrimSpace(value.Str) != ""
}

func describe(value gjson.Result) string {
	if !value.Exists() {
		return "undefined"
	}
	return value.Raw
}
