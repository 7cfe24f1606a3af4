package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind describes how one field type behaves across validation, rendering and
// text-transport input.
type Kind struct {
	Type FieldType
	// InputType is the HTML control: an <input> type, or "textarea"/"select"
	// for the element based kinds.
	InputType string
	// Textual kinds hold string values and receive the string rules.
	Textual bool
	// Coerce converts raw text (form posts, terminal input) into the value
	// stored in SubmissionData.
	Coerce func(raw string) (any, error)
}

var kinds = []Kind{
	{Type: FieldTypeText, InputType: "text", Textual: true, Coerce: coerceText},
	{Type: FieldTypeEmail, InputType: "email", Textual: true, Coerce: coerceText},
	{Type: FieldTypeTextarea, InputType: "textarea", Textual: true, Coerce: coerceText},
	{Type: FieldTypeNumber, InputType: "number", Coerce: coerceNumber},
	{Type: FieldTypeDate, InputType: "date", Textual: true, Coerce: coerceText},
	{Type: FieldTypeSelect, InputType: "select", Textual: true, Coerce: coerceText},
}

var kindIndex = func() map[FieldType]Kind {
	out := make(map[FieldType]Kind, len(kinds))
	for _, kind := range kinds {
		out[kind.Type] = kind
	}
	return out
}()

// Kinds returns the supported field kinds in declaration order.
func Kinds() []Kind {
	return append([]Kind(nil), kinds...)
}

// LookupKind returns the descriptor for a field type.
func LookupKind(t FieldType) (Kind, bool) {
	kind, ok := kindIndex[t]
	return kind, ok
}

// KnownFieldType reports whether t is one of the supported kinds.
func KnownFieldType(t FieldType) bool {
	_, ok := kindIndex[t]
	return ok
}

// FieldTypeNames lists the supported kinds as plain strings.
func FieldTypeNames() []string {
	out := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		out = append(out, string(kind.Type))
	}
	return out
}

// CoerceValue converts raw text input for field into a submission value.
// Unknown kinds keep the raw string.
func CoerceValue(field Field, raw string) (any, error) {
	kind, ok := LookupKind(field.Type)
	if !ok || kind.Coerce == nil {
		return raw, nil
	}
	return kind.Coerce(raw)
}

func coerceText(raw string) (any, error) {
	return raw, nil
}

// coerceNumber maps blank input to nil so an untouched number input reads as
// missing rather than zero.
func coerceNumber(raw string) (any, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil, fmt.Errorf("model: %q is not a number", raw)
	}
	return f, nil
}
