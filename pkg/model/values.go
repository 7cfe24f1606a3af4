package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies a section. Schemas use numbers or strings interchangeably, so
// the original JSON kind is remembered and written back unchanged.
type ID struct {
	value   string
	numeric bool
}

// StringID builds a string section id.
func StringID(value string) ID { return ID{value: value} }

// NumericID builds a numeric section id.
func NumericID(value int) ID { return ID{value: strconv.Itoa(value), numeric: true} }

// String returns the textual form of the id.
func (id ID) String() string { return id.value }

// IsZero reports whether the id was never set.
func (id ID) IsZero() bool { return id.value == "" && !id.numeric }

// IsNumeric reports whether the id was declared as a JSON number.
func (id ID) IsNumeric() bool { return id.numeric }

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*id = ID{}
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: section id: %w", err)
		}
		*id = ID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("model: section id must be a number or string: %w", err)
	}
	*id = ID{value: n.String(), numeric: true}
	return nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else decodes to
// zero, which Width.Valid rejects, so a render pass can still lay the section
// out.
func (w *Width) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*w = 0
		return nil
	}
	raw := string(trimmed)
	if trimmed[0] == '"' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			*w = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || f != math.Trunc(f) {
		*w = 0
		return nil
	}
	*w = Width(f)
	return nil
}

// Limit is a min/max bound. Number fields declare numeric bounds and date
// fields declare ISO date strings; both shapes decode into Limit.
type Limit struct {
	num  *float64
	text string
}

// NumberLimit builds a numeric bound.
func NumberLimit(v float64) *Limit { return &Limit{num: &v} }

// TextLimit builds a textual bound, such as an ISO date.
func TextLimit(v string) *Limit { return &Limit{text: v} }

// Number returns the numeric reading of the bound. Numeric strings count.
func (l *Limit) Number() (float64, bool) {
	if l == nil {
		return 0, false
	}
	if l.num != nil {
		return *l.num, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(l.text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// String returns the bound as it would appear in an HTML attribute.
func (l *Limit) String() string {
	if l == nil {
		return ""
	}
	if l.num != nil {
		return strconv.FormatFloat(*l.num, 'f', -1, 64)
	}
	return l.text
}

func (l Limit) MarshalJSON() ([]byte, error) {
	if l.num != nil {
		return json.Marshal(*l.num)
	}
	return json.Marshal(l.text)
}

func (l *Limit) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("model: limit: %w", err)
		}
		*l = Limit{text: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return fmt.Errorf("model: limit must be a number or string: %w", err)
	}
	*l = Limit{num: &f}
	return nil
}

// MarshalJSON always writes a sections array so encoded schemas pass the
// authoring validator even when built in code with nil slices.
func (s Schema) MarshalJSON() ([]byte, error) {
	type alias Schema
	out := alias(s)
	if out.Sections == nil {
		out.Sections = []Section{}
	}
	return json.Marshal(out)
}

func (s Section) MarshalJSON() ([]byte, error) {
	type alias Section
	out := alias(s)
	if out.Fields == nil {
		out.Fields = []Field{}
	}
	return json.Marshal(out)
}
