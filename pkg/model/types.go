package model

// FieldType discriminates the field union.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
)

// PriceType controls how select option prices are applied.
type PriceType string

const (
	PriceTypeFixed      PriceType = "fixed"
	PriceTypePercentage PriceType = "percentage"
)

// Normalized returns PriceTypeFixed for empty or unknown values.
func (p PriceType) Normalized() PriceType {
	if p == PriceTypePercentage {
		return PriceTypePercentage
	}
	return PriceTypeFixed
}

// Width is the share of horizontal space a section takes in full-width mode.
type Width int

const (
	Width25  Width = 25
	Width50  Width = 50
	Width75  Width = 75
	Width100 Width = 100
)

// Valid reports whether w is one of the four supported widths.
func (w Width) Valid() bool {
	switch w {
	case Width25, Width50, Width75, Width100:
		return true
	default:
		return false
	}
}

// Columns maps the width onto a 12 column grid. Invalid widths span the full
// row.
func (w Width) Columns() int {
	if !w.Valid() {
		return 12
	}
	return int(w) * 12 / 100
}

// Schema is the root form document.
type Schema struct {
	Sections []Section `json:"sections"`
}

// Section groups fields under a heading.
type Section struct {
	ID          ID      `json:"id"`
	Name        string  `json:"name"`
	Width       Width   `json:"width"`
	IsPadding   bool    `json:"isPadding,omitempty"`
	Collapsible bool    `json:"collapsible,omitempty"`
	Expanded    bool    `json:"expanded,omitempty"`
	Fields      []Field `json:"fields"`
}

// ConditionalLogic makes a field visible only when another field holds a
// given value. FieldID carries the controlling field's name.
type ConditionalLogic struct {
	Enabled bool   `json:"enabled"`
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

// FieldValidation is the nested constraint block. Pointers keep "unset"
// distinct from the zero value.
type FieldValidation struct {
	Alphanumeric *bool   `json:"alphanumeric,omitempty"`
	MinLength    *int    `json:"minLength,omitempty"`
	MaxLength    *int    `json:"maxLength,omitempty"`
	Min          *Limit  `json:"min,omitempty"`
	Max          *Limit  `json:"max,omitempty"`
	Pattern      *string `json:"pattern,omitempty"`
	Email        *bool   `json:"email,omitempty"`
}

// Field is a single input. Variant specific attributes are only meaningful
// for the kinds noted next to them.
type Field struct {
	Type             FieldType         `json:"type"`
	Name             string            `json:"name"`
	Label            string            `json:"label"`
	Placeholder      string            `json:"placeholder,omitempty"`
	DefaultValue     any               `json:"defaultValue,omitempty"`
	Description      string            `json:"description,omitempty"`
	Required         bool              `json:"required,omitempty"`
	ReadOnly         bool              `json:"readonly,omitempty"`
	Disabled         bool              `json:"disabled,omitempty"`
	ConditionalLogic *ConditionalLogic `json:"conditionalLogic,omitempty"`
	Validation       *FieldValidation  `json:"validation,omitempty"`

	// flat constraints, kept for schemas written before `validation` existed
	MinLength    *int    `json:"minLength,omitempty"`
	MaxLength    *int    `json:"maxLength,omitempty"`
	Min          *Limit  `json:"min,omitempty"`
	Max          *Limit  `json:"max,omitempty"`
	Pattern      *string `json:"pattern,omitempty"`
	Alphanumeric *bool   `json:"alphanumeric,omitempty"`
	Email        *bool   `json:"email,omitempty"`

	Step *float64 `json:"step,omitempty"` // number
	Rows int      `json:"rows,omitempty"` // textarea
	Cols int      `json:"cols,omitempty"` // textarea

	// select
	Options         []string  `json:"options,omitempty"`
	OptionPrices    []float64 `json:"optionPrices,omitempty"`
	OptionPriceType PriceType `json:"optionPriceType,omitempty"`
	Multiple        bool      `json:"multiple,omitempty"`
}

// SubmissionData maps field names to the values a buyer entered.
type SubmissionData map[string]any

// Clone returns a shallow copy; slices of strings are copied as well so
// snapshots handed to callers cannot be mutated through the session.
func (d SubmissionData) Clone() SubmissionData {
	out := make(SubmissionData, len(d))
	for key, value := range d {
		switch v := value.(type) {
		case []string:
			out[key] = append([]string(nil), v...)
		case []any:
			out[key] = append([]any(nil), v...)
		default:
			out[key] = value
		}
	}
	return out
}

// Value returns the value stored for name and whether it was present.
func (d SubmissionData) Value(name string) (any, bool) {
	if d == nil {
		return nil, false
	}
	value, ok := d[name]
	return value, ok
}

// ValidationResult is the outcome of validating a whole form.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}
