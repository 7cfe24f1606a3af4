// Package formbuilder is the entry point of the dynamic form schema engine.
// It re-exports the types and calls most hosts need; the pkg/ packages hold
// the full API.
package formbuilder

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/pricing"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/summary"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

type (
	Schema           = model.Schema
	Section          = model.Section
	Field            = model.Field
	SubmissionData   = model.SubmissionData
	ValidationResult = model.ValidationResult
	SchemaResult     = validation.SchemaResult
	Calculation      = pricing.Calculation
	Summary          = summary.Summary
	SummaryOptions   = summary.Options
	Session          = orchestrator.Session
	RenderOptions    = render.RenderOptions
)

// Parse validates an authoring document (JSON or YAML) and decodes it.
func Parse(raw []byte) (*Schema, error) {
	return schema.Parse(raw)
}

// ValidateSchema runs the authoring checks and reports the first problem.
func ValidateSchema(raw any) SchemaResult {
	return validation.ValidateSchema(raw)
}

// ValidateField returns the first rule violation for value, or "".
func ValidateField(field Field, value any) string {
	return validation.ValidateField(field, value)
}

// Price computes the additional amount and total for data.
func Price(s *Schema, data SubmissionData, basePrice float64) Calculation {
	return pricing.Calculate(s, data, basePrice)
}

// Summarize builds read-only rows for submitted data.
func Summarize(s *Schema, data SubmissionData, opts SummaryOptions) Summary {
	return summary.Summarize(s, data, opts)
}

// NewSession starts a render session. A nil schema yields the "no
// configuration available" state.
func NewSession(s *Schema, opts ...orchestrator.SessionOption) *Session {
	return orchestrator.NewSession(s, opts...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML renders data into the schema's form with the default HTML
// renderer. It is the simplest entry point for hosts that only need markup.
func RenderHTML(ctx context.Context, s *Schema, data SubmissionData, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	session, err := gen.NewSession(ctx, orchestrator.Request{Schema: s, InitialData: data})
	if err != nil {
		return nil, err
	}
	return gen.Render(ctx, session, orchestrator.RenderRequest{Options: opts})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme and variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks overrides the template used for a partial key when the
// selected theme does not provide one.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
