package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/pricing"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/summary"
)

const noneOption = "(none)"

// Renderer fills a form from the terminal. It walks the visible fields in
// order, feeding each answer through OnFieldChange and OnFieldBlur, so fields
// revealed by an answer are asked next and invalid answers are asked again.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	maxAttempts       int
}

var _ render.SummaryRenderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		maxAttempts:  3,
		theme:        Theme{ErrorPrefix: "! "},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialisation format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts for every visible field and returns the serialised result.
// When the final validation fails the user may revisit the invalid fields.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errors.New("tui: form is required")
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	if !form.Plan().Available {
		if err := r.info(ctx, "No form configuration is available."); err != nil {
			return nil, err
		}
		return r.serialize(form, model.ValidationResult{IsValid: true, Errors: map[string]string{}}, opts)
	}

	answered := make(map[string]bool)
	for {
		field, ok := nextField(form.Plan(), answered)
		if !ok {
			break
		}
		if err := r.fill(ctx, form, field, opts); err != nil {
			return nil, err
		}
		answered[field.Name] = true
	}

	result := form.ValidateAll()
	for !result.IsValid {
		invalid := invalidVisibleFields(form.Plan(), result)
		for _, name := range sortedKeys(result.Errors) {
			if err := r.errorf(ctx, "%s: %s", name, result.Errors[name]); err != nil {
				return nil, err
			}
		}
		if len(invalid) == 0 {
			break
		}
		fix, err := r.driver.Confirm(ctx, ConfirmConfig{Message: "Fix the invalid fields?", Default: true})
		if err != nil {
			return nil, err
		}
		if !fix {
			break
		}
		for _, field := range invalid {
			if err := r.fill(ctx, form, field, opts); err != nil {
				return nil, err
			}
		}
		result = form.ValidateAll()
	}

	return r.serialize(form, result, opts)
}

// RenderSummary prints summary rows as plain text.
func (r *Renderer) RenderSummary(ctx context.Context, s summary.Summary, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Empty() {
		return []byte("No details provided.\n"), nil
	}
	var buf bytes.Buffer
	for _, line := range s.Lines() {
		if line.Header {
			fmt.Fprintf(&buf, "== %s ==\n", line.Section)
			continue
		}
		fmt.Fprintf(&buf, "%s: %s\n", line.Label, line.Value)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fill(ctx context.Context, form render.Form, field render.FieldPlan, opts render.RenderOptions) error {
	currency := opts.CurrencyOrDefault()
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		value, err := r.ask(ctx, field, currency)
		if err != nil {
			var coerce coerceError
			if !errors.As(err, &coerce) {
				return err
			}
			if err := r.errorf(ctx, "%s", coerce.Error()); err != nil {
				return err
			}
			continue
		}

		before := form.Pricing().Total
		form.OnFieldChange(field.Name, value)
		msg := form.OnFieldBlur(field.Name)
		if msg == "" {
			if after := form.Pricing().Total; after != before {
				return r.info(ctx, "Total: "+money(after, currency))
			}
			return nil
		}
		if err := r.errorf(ctx, "%s", msg); err != nil {
			return err
		}
		if refreshed, ok := form.Plan().Field(field.Name); ok {
			field = refreshed
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

type coerceError struct{ err error }

func (e coerceError) Error() string { return e.err.Error() }

func (r *Renderer) ask(ctx context.Context, field render.FieldPlan, currency string) (any, error) {
	message := field.Label
	if field.Required {
		message += " *"
	}
	help := plainText(field.Description)

	switch field.Type {
	case model.FieldTypeSelect:
		labels := make([]string, 0, len(field.Options)+1)
		offset := 0
		if !field.Required {
			labels = append(labels, noneOption)
			offset = 1
		}
		defaultIndex := 0
		for i, option := range field.Options {
			labels = append(labels, optionLabel(option, currency))
			if option.Selected {
				defaultIndex = i + offset
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         help,
		})
		if err != nil {
			return nil, err
		}
		idx -= offset
		if idx < 0 || idx >= len(field.Options) {
			return "", nil
		}
		return field.Options[idx].Value, nil
	case model.FieldTypeTextarea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: message, Default: field.Text, Help: help})
	default:
		if field.Placeholder != "" && help == "" {
			help = "e.g. " + field.Placeholder
		}
		raw, err := r.driver.Input(ctx, InputConfig{Message: message, Default: field.Text, Help: help})
		if err != nil {
			return nil, err
		}
		value, err := model.CoerceValue(model.Field{Type: field.Type}, raw)
		if err != nil {
			return nil, coerceError{err: fmt.Errorf("%s must be a number", field.Label)}
		}
		return value, nil
	}
}

type output struct {
	Data       map[string]any         `json:"data"`
	Price      pricing.Calculation    `json:"price"`
	Validation model.ValidationResult `json:"validation"`
}

func (r *Renderer) serialize(form render.Form, result model.ValidationResult, opts render.RenderOptions) ([]byte, error) {
	values := map[string]any(form.Data())
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	if values == nil {
		values = map[string]any{}
	}

	if r.outputFormat == OutputFormatPrettyText {
		var buf bytes.Buffer
		for _, field := range form.Plan().Fields() {
			text := field.Text
			if field.IsDefault || text == "" {
				continue
			}
			fmt.Fprintf(&buf, "%s: %s\n", field.Label, text)
		}
		fmt.Fprintf(&buf, "Total: %s\n", money(form.Pricing().Total, opts.CurrencyOrDefault()))
		return buf.Bytes(), nil
	}

	payload, err := json.MarshalIndent(output{Data: values, Price: form.Pricing(), Validation: result}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: encode output: %w", err)
	}
	return append(payload, '\n'), nil
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) errorf(ctx context.Context, format string, args ...any) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+fmt.Sprintf(format, args...))
}

func nextField(plan render.Plan, answered map[string]bool) (render.FieldPlan, bool) {
	for _, field := range plan.Fields() {
		if !answered[field.Name] {
			return field, true
		}
	}
	return render.FieldPlan{}, false
}

func invalidVisibleFields(plan render.Plan, result model.ValidationResult) []render.FieldPlan {
	var out []render.FieldPlan
	for _, field := range plan.Fields() {
		if _, ok := result.Errors[field.Name]; ok {
			out = append(out, field)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func optionLabel(option render.OptionPlan, currency string) string {
	if option.Price == 0 {
		return option.Value
	}
	if option.PriceType == model.PriceTypePercentage {
		return option.Value + " (+" + strconv.FormatFloat(option.Price, 'f', -1, 64) + "%)"
	}
	return option.Value + " (+" + money(option.Price, currency) + ")"
}

func money(amount float64, currency string) string {
	return strconv.FormatFloat(amount, 'f', 2, 64) + currency
}

var (
	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

// plainText drops markup from admin-authored descriptions for terminal
// output.
func plainText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(raw)))
}
