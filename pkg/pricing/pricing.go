// Package pricing derives the additional charge a submission adds to a
// product's base price from the option prices declared on select fields.
package pricing

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// Line is the contribution of one priced selection.
type Line struct {
	Field  string          `json:"field"`
	Label  string          `json:"label"`
	Option string          `json:"option"`
	Index  int             `json:"index"`
	Type   model.PriceType `json:"type"`
	// Rate is the declared option price: an amount for fixed options, a
	// percentage of the base price otherwise.
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Calculation is the priced view of a submission.
type Calculation struct {
	BasePrice  float64 `json:"basePrice"`
	Additional float64 `json:"additional"`
	Total      float64 `json:"total"`
	Lines      []Line  `json:"lines,omitempty"`
}

// Option configures Calculate.
type Option func(*config)

type config struct {
	skipHidden bool
	evaluator  visibility.Evaluator
}

// SkipHidden leaves out fields whose conditional logic hides them for data.
func SkipHidden() Option {
	return func(cfg *config) {
		cfg.skipHidden = true
	}
}

// WithEvaluator swaps the visibility evaluator used by SkipHidden.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(cfg *config) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// Calculate sums the option prices selected in data. Percentage options are
// taken of basePrice, never of the running total. Values that match no option,
// indexes past the price list and zero prices contribute nothing.
func Calculate(schema *model.Schema, data model.SubmissionData, basePrice float64, opts ...Option) Calculation {
	cfg := config{evaluator: visibility.Default}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := Calculation{BasePrice: basePrice}
	for _, field := range schema.Fields() {
		if !field.HasOptionPrices() {
			continue
		}
		value, ok := data.Value(field.Name)
		if !ok {
			continue
		}
		if cfg.skipHidden && !cfg.evaluator.Visible(field.ConditionalLogic, data) {
			continue
		}
		index := field.OptionIndex(value)
		if index < 0 {
			continue
		}
		rate := field.OptionPrice(index)
		if rate == 0 {
			continue
		}

		line := Line{
			Field:  field.Name,
			Label:  field.DisplayLabel(),
			Option: field.Options[index],
			Index:  index,
			Type:   field.OptionPriceType.Normalized(),
			Rate:   rate,
			Amount: rate,
		}
		if line.Type == model.PriceTypePercentage {
			line.Amount = basePrice * (rate / 100)
		}
		out.Additional += line.Amount
		out.Lines = append(out.Lines, line)
	}
	out.Total = out.BasePrice + out.Additional
	return out
}

// Additional returns only the surcharge, the figure callers add to the base
// price themselves.
func Additional(schema *model.Schema, data model.SubmissionData, basePrice float64, opts ...Option) float64 {
	return Calculate(schema, data, basePrice, opts...).Additional
}
