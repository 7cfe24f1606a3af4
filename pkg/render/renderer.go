package render

import (
	"context"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/pricing"
	"github.com/goliatone/go-formbuilder/pkg/summary"
)

// Form is the interactive surface of a render session. HTML renderers only
// read the Plan; interactive renderers also feed input back through it.
type Form interface {
	Plan() Plan
	OnFieldChange(name string, value any)
	OnFieldBlur(name string) string
	ValidateAll() model.ValidationResult
	Data() model.SubmissionData
	Pricing() pricing.Calculation
}

// Renderer turns a form into a byte representation (HTML, JSON, terminal
// transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form Form, options RenderOptions) ([]byte, error)
}

// SummaryRenderer is implemented by renderers that can also present a
// read-only submission summary.
type SummaryRenderer interface {
	Renderer
	RenderSummary(ctx context.Context, summary summary.Summary, options RenderOptions) ([]byte, error)
}
