package model

import (
	"encoding/json"
	"fmt"
)

// The Resolve* helpers read a constraint from the flat field property first
// and fall back to the nested `validation` block.

func (f Field) ResolveMinLength() *int {
	if f.MinLength != nil {
		return f.MinLength
	}
	if f.Validation != nil {
		return f.Validation.MinLength
	}
	return nil
}

func (f Field) ResolveMaxLength() *int {
	if f.MaxLength != nil {
		return f.MaxLength
	}
	if f.Validation != nil {
		return f.Validation.MaxLength
	}
	return nil
}

func (f Field) ResolveMin() *Limit {
	if f.Min != nil {
		return f.Min
	}
	if f.Validation != nil {
		return f.Validation.Min
	}
	return nil
}

func (f Field) ResolveMax() *Limit {
	if f.Max != nil {
		return f.Max
	}
	if f.Validation != nil {
		return f.Validation.Max
	}
	return nil
}

func (f Field) ResolvePattern() string {
	if f.Pattern != nil {
		return *f.Pattern
	}
	if f.Validation != nil && f.Validation.Pattern != nil {
		return *f.Validation.Pattern
	}
	return ""
}

func (f Field) ResolveAlphanumeric() bool {
	if f.Alphanumeric != nil {
		return *f.Alphanumeric
	}
	if f.Validation != nil && f.Validation.Alphanumeric != nil {
		return *f.Validation.Alphanumeric
	}
	return false
}

func (f Field) ResolveEmail() bool {
	if f.Email != nil {
		return *f.Email
	}
	if f.Validation != nil && f.Validation.Email != nil {
		return *f.Validation.Email
	}
	return false
}

// DisplayLabel falls back to the field name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// OptionIndex returns the position of value within Options using exact
// matching, or -1. Only string values can match.
func (f Field) OptionIndex(value any) int {
	s, ok := value.(string)
	if !ok {
		return -1
	}
	for i, option := range f.Options {
		if option == s {
			return i
		}
	}
	return -1
}

// OptionPrice returns the price declared for the option at index, or zero
// when the index falls outside OptionPrices.
func (f Field) OptionPrice(index int) float64 {
	if index < 0 || index >= len(f.OptionPrices) {
		return 0
	}
	return f.OptionPrices[index]
}

// HasOptionPrices reports whether any option carries a price list.
func (f Field) HasOptionPrices() bool {
	return len(f.OptionPrices) > 0
}

// Fields flattens every field of every section in document order.
func (s *Schema) Fields() []Field {
	if s == nil {
		return nil
	}
	var out []Field
	for _, section := range s.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field returns the first field declared with name.
func (s *Schema) Field(name string) (Field, bool) {
	if s == nil {
		return Field{}, false
	}
	for _, section := range s.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return Field{}, false
}

// Clone returns a deep copy made through the JSON encoding, so callers can
// mutate the copy without touching a shared schema.
func (s *Schema) Clone() (*Schema, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("model: clone schema: %w", err)
	}
	var out Schema
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("model: clone schema: %w", err)
	}
	return &out, nil
}
