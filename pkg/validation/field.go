package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"
	"unicode/utf16"

	"github.com/dlclark/regexp2"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// PatternTimeout bounds a single pattern match so a hostile expression cannot
// stall a session.
const PatternTimeout = 100 * time.Millisecond

var (
	alphanumericRe = regexp2.MustCompile(`^[a-zA-Z0-9]+$`, regexp2.ECMAScript)
	emailRe        = regexp2.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`, regexp2.ECMAScript)

	patterns sync.Map // string -> *regexp2.Regexp, nil when the pattern does not compile
)

// ValidateField checks value against the field's constraints and returns the
// first violation as a display message, or "" when the value is acceptable.
// Rules run in order: required, string rules (length, alphanumeric, pattern,
// email), numeric rules (min, max).
func ValidateField(field model.Field, value any) string {
	label := field.DisplayLabel()

	if field.Required && IsMissing(value) {
		return label + " is required"
	}

	switch v := value.(type) {
	case string:
		return validateString(field, label, v)
	default:
		if n, ok := numeric(value); ok {
			return validateNumber(field, label, n)
		}
	}
	return ""
}

// IsMissing reports whether value counts as absent for the required rule:
// nil, "", false, an empty slice or NaN. The number zero is a value.
func IsMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return math.IsNaN(v)
	case float32:
		return math.IsNaN(float64(v))
	case json.Number:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// validateString applies the string rules to any string, the empty one
// included. Lengths count UTF-16 code units.
func validateString(field model.Field, label, value string) string {
	length := len(utf16.Encode([]rune(value)))

	if minLength := field.ResolveMinLength(); minLength != nil && length < *minLength {
		return fmt.Sprintf("%s must be at least %d characters", label, *minLength)
	}
	if maxLength := field.ResolveMaxLength(); maxLength != nil && length > *maxLength {
		return fmt.Sprintf("%s must be no more than %d characters", label, *maxLength)
	}
	if field.ResolveAlphanumeric() && !matches(alphanumericRe, value) {
		return label + " must contain only letters and numbers"
	}
	if pattern := field.ResolvePattern(); pattern != "" {
		if re := compilePattern(pattern); re != nil && !matches(re, value) {
			return label + " format is invalid"
		}
	}
	if (field.Type == model.FieldTypeEmail || field.ResolveEmail()) && !matches(emailRe, value) {
		return label + " must be a valid email address"
	}
	return ""
}

func validateNumber(field model.Field, label string, value float64) string {
	if math.IsNaN(value) {
		return ""
	}
	if lower, ok := field.ResolveMin().Number(); ok && value < lower {
		return fmt.Sprintf("%s must be at least %s", label, field.ResolveMin().String())
	}
	if upper, ok := field.ResolveMax().Number(); ok && value > upper {
		return fmt.Sprintf("%s must be no more than %s", label, field.ResolveMax().String())
	}
	return ""
}

func numeric(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// compilePattern compiles an author supplied expression once. Patterns that
// fail to compile are remembered and skipped.
func compilePattern(pattern string) *regexp2.Regexp {
	if cached, ok := patterns.Load(pattern); ok {
		re, _ := cached.(*regexp2.Regexp)
		return re
	}
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		patterns.Store(pattern, (*regexp2.Regexp)(nil))
		return nil
	}
	re.MatchTimeout = PatternTimeout
	patterns.Store(pattern, re)
	return re
}

// matches treats a match error (a timeout) as a pass.
func matches(re *regexp2.Regexp, value string) bool {
	ok, err := re.MatchString(value)
	if err != nil {
		return true
	}
	return ok
}
