package orchestrator

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/pricing"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/summary"
	"github.com/goliatone/go-formbuilder/pkg/validation"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// HiddenFieldPolicy decides whether values of fields hidden by conditional
// logic still count. Hidden values are never removed from the data either
// way, so toggling a field back restores what was typed.
type HiddenFieldPolicy int

const (
	// HiddenRetain prices, validates and summarises hidden values like any
	// other.
	HiddenRetain HiddenFieldPolicy = iota
	// HiddenIgnore only considers fields that are currently visible.
	HiddenIgnore
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithInitialData seeds the submission data. The map is copied.
func WithInitialData(data model.SubmissionData) SessionOption {
	return func(s *Session) {
		if data != nil {
			s.data = data.Clone()
		}
	}
}

// WithBasePrice sets the product price percentage options are taken of.
func WithBasePrice(price float64) SessionOption {
	return func(s *Session) {
		s.basePrice = price
	}
}

// WithDisplayMode selects the global layout.
func WithDisplayMode(mode render.DisplayMode) SessionOption {
	return func(s *Session) {
		s.mode = mode.Normalized()
	}
}

// WithDataListener registers a callback that receives a snapshot of the data
// after every change.
func WithDataListener(fn func(model.SubmissionData)) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.dataListeners = append(s.dataListeners, fn)
		}
	}
}

// WithPriceListener registers a callback that receives the recomputed price
// after every change.
func WithPriceListener(fn func(pricing.Calculation)) SessionOption {
	return func(s *Session) {
		if fn != nil {
			s.priceListeners = append(s.priceListeners, fn)
		}
	}
}

// WithHiddenFieldPolicy selects how hidden field values are treated.
func WithHiddenFieldPolicy(policy HiddenFieldPolicy) SessionOption {
	return func(s *Session) {
		s.policy = policy
	}
}

// WithID overrides the generated session id.
func WithID(id string) SessionOption {
	return func(s *Session) {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			s.id = trimmed
		}
	}
}

// WithEvaluator swaps the visibility evaluator.
func WithEvaluator(evaluator visibility.Evaluator) SessionOption {
	return func(s *Session) {
		if evaluator != nil {
			s.evaluator = evaluator
		}
	}
}

// Session owns the submission data of one form being filled in. It is not
// safe for concurrent use; hosts serialise calls per session.
type Session struct {
	id        string
	schema    *model.Schema
	data      model.SubmissionData
	errors    map[string]string
	basePrice float64
	mode      render.DisplayMode
	policy    HiddenFieldPolicy
	evaluator visibility.Evaluator
	price     pricing.Calculation

	dataListeners  []func(model.SubmissionData)
	priceListeners []func(pricing.Calculation)
}

var _ render.Form = (*Session)(nil)

// NewSession starts a session for schema. A nil schema yields a session that
// reports Available() == false and renders the "no configuration" state.
// Listeners receive an initial notification before NewSession returns.
func NewSession(schema *model.Schema, opts ...SessionOption) *Session {
	s := &Session{
		id:        uuid.NewString(),
		schema:    schema,
		data:      model.SubmissionData{},
		errors:    map[string]string{},
		mode:      render.DisplayModeSidebar,
		evaluator: visibility.Default,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.recompute()
	s.notify()
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Available reports whether a schema is configured.
func (s *Session) Available() bool { return s.schema != nil }

// Schema returns the schema the session renders.
func (s *Session) Schema() *model.Schema { return s.schema }

// Mode returns the display mode.
func (s *Session) Mode() render.DisplayMode { return s.mode }

// Policy returns the hidden field policy.
func (s *Session) Policy() HiddenFieldPolicy { return s.policy }

// Data returns a snapshot of the submission data.
func (s *Session) Data() model.SubmissionData { return s.data.Clone() }

// Errors returns a copy of the current field errors.
func (s *Session) Errors() map[string]string {
	out := make(map[string]string, len(s.errors))
	for name, msg := range s.errors {
		out[name] = msg
	}
	return out
}

// Pricing returns the latest price calculation.
func (s *Session) Pricing() pricing.Calculation { return s.price }

// BasePrice returns the configured base price.
func (s *Session) BasePrice() float64 { return s.basePrice }

// OnFieldChange stores value, clears the field's error without validating,
// then recomputes the price and notifies listeners.
func (s *Session) OnFieldChange(name string, value any) {
	s.data[name] = value
	delete(s.errors, name)
	s.recompute()
	s.notify()
}

// OnFieldBlur validates one field against its current value, stores or
// clears its error, and returns the message ("" when valid). When a name is
// declared twice the first declaration is used.
func (s *Session) OnFieldBlur(name string) string {
	field, ok := s.schema.Field(name)
	if !ok || (s.policy == HiddenIgnore && !s.visible(field)) {
		delete(s.errors, name)
		return ""
	}
	msg := validation.ValidateField(field, s.data[name])
	if msg == "" {
		delete(s.errors, name)
		return ""
	}
	s.errors[name] = msg
	return msg
}

// ValidateAll validates every declared field, hidden ones included unless the
// session ignores hidden fields. Errors replace the stored set.
func (s *Session) ValidateAll() model.ValidationResult {
	var opts []validation.FormOption
	if s.policy == HiddenIgnore {
		opts = append(opts, validation.OnlyVisible())
	}
	result := validation.ValidateForm(s.schema, s.data, opts...)
	s.errors = make(map[string]string, len(result.Errors))
	for name, msg := range result.Errors {
		s.errors[name] = msg
	}
	return result
}

// SetBasePrice changes the base price and notifies price listeners.
func (s *Session) SetBasePrice(price float64) {
	s.basePrice = price
	s.recompute()
	for _, fn := range s.priceListeners {
		fn(s.price)
	}
}

// Submission is the final state handed to a host on submit.
type Submission struct {
	SessionID  string                 `json:"sessionId"`
	Data       model.SubmissionData   `json:"data"`
	Price      pricing.Calculation    `json:"price"`
	Validation model.ValidationResult `json:"validation"`
}

// Submit runs full validation and returns the data, price and result. The
// host decides whether an invalid submission blocks checkout.
func (s *Session) Submit() Submission {
	result := s.ValidateAll()
	return Submission{
		SessionID:  s.id,
		Data:       s.Data(),
		Price:      s.price,
		Validation: result,
	}
}

// Summary summarises the session data. Base price and hidden field handling
// follow the session unless opts sets them.
func (s *Session) Summary(opts summary.Options) summary.Summary {
	if opts.BasePrice == 0 {
		opts.BasePrice = s.basePrice
	}
	if s.policy == HiddenIgnore {
		opts.SkipHidden = true
	}
	return summary.Summarize(s.schema, s.data, opts)
}

// Plan resolves what must be shown for the current data: visible fields per
// section with values, errors and priced options. Sections without fields,
// sections whose fields are all hidden and fields of unknown kind are left
// out.
func (s *Session) Plan() render.Plan {
	plan := render.Plan{
		Available: s.Available(),
		SessionID: s.id,
		Mode:      s.mode,
		Price:     s.price,
		Sections:  []render.SectionPlan{},
	}
	if s.schema == nil {
		return plan
	}

	for _, section := range s.schema.Sections {
		if len(section.Fields) == 0 {
			continue
		}
		columns := 12
		if s.mode == render.DisplayModeFullWidth {
			columns = section.Width.Columns()
		}
		sectionPlan := render.SectionPlan{
			ID:          section.ID.String(),
			Name:        section.Name,
			Width:       int(section.Width),
			Columns:     columns,
			IsPadding:   section.IsPadding,
			Collapsible: section.Collapsible,
			Expanded:    section.Expanded,
		}
		for _, field := range section.Fields {
			kind, ok := model.LookupKind(field.Type)
			if !ok || strings.TrimSpace(field.Name) == "" || !s.visible(field) {
				continue
			}
			sectionPlan.Fields = append(sectionPlan.Fields, s.fieldPlan(field, kind))
		}
		if len(sectionPlan.Fields) == 0 {
			continue
		}
		plan.Sections = append(plan.Sections, sectionPlan)
	}
	return plan
}

func (s *Session) fieldPlan(field model.Field, kind model.Kind) render.FieldPlan {
	value, present := s.data.Value(field.Name)
	isDefault := false
	if !present || value == nil {
		value = field.DefaultValue
		isDefault = value != nil
	}
	text := displayText(value)

	out := render.FieldPlan{
		Name:        field.Name,
		Label:       field.DisplayLabel(),
		Type:        field.Type,
		InputType:   kind.InputType,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Required:    field.Required,
		ReadOnly:    field.ReadOnly,
		Disabled:    field.Disabled,
		Value:       value,
		Text:        text,
		IsDefault:   isDefault,
		Error:       s.errors[field.Name],
		MinLength:   field.ResolveMinLength(),
		MaxLength:   field.ResolveMaxLength(),
		Min:         field.ResolveMin().String(),
		Max:         field.ResolveMax().String(),
		Pattern:     field.ResolvePattern(),
		Rows:        field.Rows,
		Cols:        field.Cols,
		Multiple:    field.Multiple,
	}
	if field.Step != nil {
		out.Step = strconv.FormatFloat(*field.Step, 'f', -1, 64)
	}
	for i, option := range field.Options {
		opt := render.OptionPlan{
			Value:    option,
			Index:    i,
			Price:    field.OptionPrice(i),
			Selected: option == text,
		}
		if opt.Price != 0 {
			opt.PriceType = field.OptionPriceType.Normalized()
		}
		out.Options = append(out.Options, opt)
	}
	return out
}

func (s *Session) visible(field model.Field) bool {
	return s.evaluator.Visible(field.ConditionalLogic, s.data)
}

func (s *Session) recompute() {
	opts := []pricing.Option{pricing.WithEvaluator(s.evaluator)}
	if s.policy == HiddenIgnore {
		opts = append(opts, pricing.SkipHidden())
	}
	s.price = pricing.Calculate(s.schema, s.data, s.basePrice, opts...)
}

func (s *Session) notify() {
	for _, fn := range s.dataListeners {
		fn(s.data.Clone())
	}
	for _, fn := range s.priceListeners {
		fn(s.price)
	}
}

func displayText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case json.Number:
		return v.String()
	case []string:
		return strings.Join(v, ",")
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return strings.Trim(string(data), `"`)
}
