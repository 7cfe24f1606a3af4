// Package summary renders submitted form data as read-only label/value rows
// for carts, checkouts and order views.
package summary

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

const (
	// DefaultCurrency is appended to option prices.
	DefaultCurrency = "€"
	// DefaultDateLayout renders dates the way a US locale would.
	DefaultDateLayout = "1/2/2006"
	// EmptyValue stands in for missing values when ShowEmpty is set.
	EmptyValue = "-"
)

// Options controls which rows are produced and how values are formatted.
type Options struct {
	ShowEmpty  bool
	Compact    bool
	Currency   string
	DateLayout string
	// BasePrice turns percentage option annotations into amounts.
	BasePrice float64
	// SkipHidden omits fields whose conditional logic hides them.
	SkipHidden bool
}

// Row is one displayed value.
type Row struct {
	Field   string `json:"field"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Section string `json:"section"`
}

// Group is a run of consecutive rows from one section.
type Group struct {
	Section string `json:"section"`
	Rows    []Row  `json:"rows"`
}

// Line is one entry of the flat display list: either a section header or a
// row.
type Line struct {
	Header  bool   `json:"header,omitempty"`
	Section string `json:"section,omitempty"`
	Label   string `json:"label,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Summary is the ordered result of Summarize.
type Summary struct {
	Rows    []Row `json:"rows"`
	Compact bool  `json:"compact,omitempty"`
}

// Empty reports the "nothing to show" state.
func (s Summary) Empty() bool {
	return len(s.Rows) == 0
}

// Groups splits the rows into runs that share a section.
func (s Summary) Groups() []Group {
	var out []Group
	for _, row := range s.Rows {
		if n := len(out); n > 0 && out[n-1].Section == row.Section {
			out[n-1].Rows = append(out[n-1].Rows, row)
			continue
		}
		out = append(out, Group{Section: row.Section, Rows: []Row{row}})
	}
	return out
}

// ShowSectionHeaders is true in full mode when rows came from more than one
// section.
func (s Summary) ShowSectionHeaders() bool {
	if s.Compact {
		return false
	}
	seen := make(map[string]struct{})
	for _, row := range s.Rows {
		seen[row.Section] = struct{}{}
		if len(seen) > 1 {
			return true
		}
	}
	return false
}

// Lines returns the flat display list with headers inserted where
// ShowSectionHeaders allows them.
func (s Summary) Lines() []Line {
	headers := s.ShowSectionHeaders()
	var out []Line
	for _, group := range s.Groups() {
		if headers {
			out = append(out, Line{Header: true, Section: group.Section})
		}
		for _, row := range group.Rows {
			out = append(out, Line{Section: row.Section, Label: row.Label, Value: row.Value})
		}
	}
	return out
}

// Summarize builds display rows for data in schema order. It is pure: the
// same inputs always produce the same summary.
func Summarize(schema *model.Schema, data model.SubmissionData, opts Options) Summary {
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}

	out := Summary{Compact: opts.Compact}
	if schema == nil {
		return out
	}
	for _, section := range schema.Sections {
		for _, field := range section.Fields {
			if opts.SkipHidden && !visibility.FieldVisible(field, data) {
				continue
			}
			value, _ := data.Value(field.Name)
			if isEmpty(value) {
				if !opts.ShowEmpty {
					continue
				}
				out.Rows = append(out.Rows, Row{Field: field.Name, Label: field.DisplayLabel(), Value: EmptyValue, Section: section.Name})
				continue
			}
			out.Rows = append(out.Rows, Row{
				Field:   field.Name,
				Label:   field.DisplayLabel(),
				Value:   FormatValue(field, value, opts),
				Section: section.Name,
			})
		}
	}
	return out
}

// FormatValue renders one submitted value for display.
func FormatValue(field model.Field, value any, opts Options) string {
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}

	switch field.Type {
	case model.FieldTypeSelect:
		if s, ok := value.(string); ok {
			return s + priceAnnotation(field, field.OptionIndex(s), opts)
		}
	case model.FieldTypeDate:
		if s, ok := value.(string); ok {
			return formatDate(s, opts.DateLayout)
		}
	}
	return natural(value)
}

func priceAnnotation(field model.Field, index int, opts Options) string {
	if index < 0 {
		return ""
	}
	rate := field.OptionPrice(index)
	if rate == 0 {
		return ""
	}
	if field.OptionPriceType.Normalized() == model.PriceTypePercentage {
		if opts.BasePrice > 0 {
			return fmt.Sprintf(" (+%.2f%s)", opts.BasePrice*(rate/100), opts.Currency)
		}
		return fmt.Sprintf(" (+%s%%)", formatNumber(rate))
	}
	return fmt.Sprintf(" (+%.2f%s)", rate, opts.Currency)
}

func formatDate(raw, layout string) string {
	trimmed := strings.TrimSpace(raw)
	for _, candidate := range []string{"2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(candidate, trimmed); err == nil {
			return parsed.Format(layout)
		}
	}
	return raw
}

func natural(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return formatNumber(v)
	case float32:
		return formatNumber(float64(v))
	case json.Number:
		return v.String()
	case []string:
		return strings.Join(v, ", ")
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			parts = append(parts, natural(item))
		}
		return strings.Join(parts, ", ")
	}
	return fmt.Sprint(value)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
