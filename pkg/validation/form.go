package validation

import (
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

// FormOption tweaks ValidateForm.
type FormOption func(*formConfig)

type formConfig struct {
	onlyVisible bool
}

// OnlyVisible skips fields hidden by their conditional logic. Without it every
// declared field is validated, hidden or not.
func OnlyVisible() FormOption {
	return func(cfg *formConfig) {
		cfg.onlyVisible = true
	}
}

// ValidateForm validates every field of every section against data. When a
// name is declared twice the first error reported for it is kept.
func ValidateForm(schema *model.Schema, data model.SubmissionData, opts ...FormOption) model.ValidationResult {
	cfg := formConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	result := model.ValidationResult{IsValid: true, Errors: map[string]string{}}
	for _, field := range schema.Fields() {
		if cfg.onlyVisible && !visibility.FieldVisible(field, data) {
			continue
		}
		if _, seen := result.Errors[field.Name]; seen {
			continue
		}
		if msg := ValidateField(field, data[field.Name]); msg != "" {
			result.Errors[field.Name] = msg
		}
	}
	result.IsValid = len(result.Errors) == 0
	return result
}
