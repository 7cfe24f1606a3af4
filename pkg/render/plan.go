package render

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/pricing"
)

// DisplayMode selects the global layout. It only affects presentation.
type DisplayMode string

const (
	// DisplayModeSidebar stacks every section in a narrow column.
	DisplayModeSidebar DisplayMode = "sidebar"
	// DisplayModeFullWidth lays sections out on a 12 column grid using their
	// declared width.
	DisplayModeFullWidth DisplayMode = "fullwidth"
)

// Normalized falls back to the sidebar layout for unknown modes.
func (m DisplayMode) Normalized() DisplayMode {
	if m == DisplayModeFullWidth {
		return DisplayModeFullWidth
	}
	return DisplayModeSidebar
}

// Plan is everything a renderer needs for one render pass: the visible fields
// in order, with values, errors and priced options already resolved.
type Plan struct {
	Available bool                `json:"available"`
	SessionID string              `json:"sessionId,omitempty"`
	Mode      DisplayMode         `json:"mode"`
	Sections  []SectionPlan       `json:"sections"`
	Price     pricing.Calculation `json:"price"`
}

// Fields flattens the visible fields of every section.
func (p Plan) Fields() []FieldPlan {
	var out []FieldPlan
	for _, section := range p.Sections {
		out = append(out, section.Fields...)
	}
	return out
}

// Field returns the visible field called name.
func (p Plan) Field(name string) (FieldPlan, bool) {
	for _, section := range p.Sections {
		for _, field := range section.Fields {
			if field.Name == name {
				return field, true
			}
		}
	}
	return FieldPlan{}, false
}

// SectionPlan is one section with only its visible fields.
type SectionPlan struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Width       int         `json:"width"`
	Columns     int         `json:"columns"`
	IsPadding   bool        `json:"isPadding,omitempty"`
	Collapsible bool        `json:"collapsible,omitempty"`
	Expanded    bool        `json:"expanded,omitempty"`
	Fields      []FieldPlan `json:"fields"`
}

// FieldPlan describes one control.
type FieldPlan struct {
	Name        string          `json:"name"`
	Label       string          `json:"label"`
	Type        model.FieldType `json:"type"`
	InputType   string          `json:"inputType"`
	Placeholder string          `json:"placeholder,omitempty"`
	Description string          `json:"description,omitempty"`
	Required    bool            `json:"required,omitempty"`
	ReadOnly    bool            `json:"readonly,omitempty"`
	Disabled    bool            `json:"disabled,omitempty"`
	// Value is the submitted value, or the declared default when nothing was
	// submitted yet. Text is its string form for inputs.
	Value     any    `json:"value,omitempty"`
	Text      string `json:"text"`
	IsDefault bool   `json:"isDefault,omitempty"`
	Error     string `json:"error,omitempty"`

	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Min       string `json:"min,omitempty"`
	Max       string `json:"max,omitempty"`
	Step      string `json:"step,omitempty"`
	Pattern   string `json:"pattern,omitempty"`
	Rows      int    `json:"rows,omitempty"`
	Cols      int    `json:"cols,omitempty"`

	Multiple bool         `json:"multiple,omitempty"`
	Options  []OptionPlan `json:"options,omitempty"`
}

// OptionPlan is a select option annotated with its price.
type OptionPlan struct {
	Value     string          `json:"value"`
	Index     int             `json:"index"`
	Price     float64         `json:"price,omitempty"`
	PriceType model.PriceType `json:"priceType,omitempty"`
	Selected  bool            `json:"selected,omitempty"`
}
