package visibility

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Evaluator determines whether conditional logic lets a field show for the
// current submission data.
type Evaluator interface {
	Visible(logic *model.ConditionalLogic, data model.SubmissionData) bool
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(logic *model.ConditionalLogic, data model.SubmissionData) bool

// Visible delegates to the underlying function.
func (fn EvaluatorFunc) Visible(logic *model.ConditionalLogic, data model.SubmissionData) bool {
	return fn(logic, data)
}

// Default is the single-variable evaluator used across the engine.
var Default Evaluator = EvaluatorFunc(IsVisible)

// IsVisible reports whether a field guarded by logic is shown. Absent or
// disabled logic is always visible. An empty Value means "show while the
// controlling field is empty"; any other Value must equal the controlling
// string exactly.
func IsVisible(logic *model.ConditionalLogic, data model.SubmissionData) bool {
	if logic == nil || !logic.Enabled {
		return true
	}
	current, _ := data.Value(logic.FieldID)
	if logic.Value == "" {
		if falsy(current) {
			return true
		}
		s, ok := current.(string)
		return ok && strings.TrimSpace(s) == ""
	}
	s, ok := current.(string)
	return ok && s == logic.Value
}

// FieldVisible evaluates the field's own conditional logic.
func FieldVisible(field model.Field, data model.SubmissionData) bool {
	return IsVisible(field.ConditionalLogic, data)
}

func falsy(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case bool:
		return !v
	case string:
		return v == ""
	case float64:
		return v == 0 || math.IsNaN(v)
	case float32:
		return v == 0 || math.IsNaN(float64(v))
	case int:
		return v == 0
	case int64:
		return v == 0
	case int32:
		return v == 0
	case json.Number:
		f, err := v.Float64()
		return err == nil && f == 0
	}
	return false
}
