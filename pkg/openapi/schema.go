package openapi

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// ExtensionKey namespaces the engine metadata attached to property schemas:
// section, option prices and visibility rules.
const ExtensionKey = "x-formbuilder"

const alphanumericPattern = `^[a-zA-Z0-9]+$`

// SubmissionSchema describes the data a form submits: an object with one
// property per field. Fields shown through conditional logic are never listed
// as required since they may be hidden when the form is posted. Only the
// first declaration of a duplicated name is described.
func SubmissionSchema(schema *model.Schema) *openapi3.Schema {
	out := openapi3.NewObjectSchema()
	if schema == nil {
		return out
	}

	for _, section := range schema.Sections {
		for _, field := range section.Fields {
			if field.Name == "" || !model.KnownFieldType(field.Type) {
				continue
			}
			if _, exists := out.Properties[field.Name]; exists {
				continue
			}
			out.WithProperty(field.Name, fieldSchema(section, field))
			if field.Required && !conditional(field) {
				out.Required = append(out.Required, field.Name)
			}
		}
	}
	return out
}

// Components maps form names to their submission schemas. Nil schemas are
// skipped.
func Components(forms map[string]*model.Schema) openapi3.Schemas {
	out := make(openapi3.Schemas, len(forms))
	for name, schema := range forms {
		if schema == nil {
			continue
		}
		out[name] = openapi3.NewSchemaRef("", SubmissionSchema(schema))
	}
	return out
}

func fieldSchema(section model.Section, field model.Field) *openapi3.Schema {
	var s *openapi3.Schema
	switch field.Type {
	case model.FieldTypeNumber:
		s = openapi3.NewFloat64Schema()
		if lo, ok := limitNumber(field.ResolveMin()); ok {
			s.WithMin(lo)
		}
		if hi, ok := limitNumber(field.ResolveMax()); ok {
			s.WithMax(hi)
		}
	case model.FieldTypeSelect:
		s = openapi3.NewStringSchema()
		enum := make([]any, 0, len(field.Options))
		for _, option := range field.Options {
			enum = append(enum, option)
		}
		s.WithEnum(enum...)
	case model.FieldTypeDate:
		s = openapi3.NewStringSchema().WithFormat("date")
	default:
		s = openapi3.NewStringSchema()
	}

	s.Title = field.DisplayLabel()
	s.Description = field.Description
	s.ReadOnly = field.ReadOnly
	if field.DefaultValue != nil {
		s.Default = field.DefaultValue
	}

	if kind, ok := model.LookupKind(field.Type); ok && kind.Textual {
		if n := field.ResolveMinLength(); n != nil && *n > 0 {
			s.WithMinLength(int64(*n))
		}
		if n := field.ResolveMaxLength(); n != nil && *n >= 0 {
			s.WithMaxLength(int64(*n))
		}
		if pattern := field.ResolvePattern(); pattern != "" && compiles(pattern) {
			s.WithPattern(pattern)
		}
		if field.ResolveAlphanumeric() {
			s.AllOf = append(s.AllOf, openapi3.NewSchemaRef("", openapi3.NewStringSchema().WithPattern(alphanumericPattern)))
		}
		if field.Type == model.FieldTypeEmail || field.ResolveEmail() {
			s.Format = "email"
		}
	}

	s.Extensions = map[string]any{ExtensionKey: extension(section, field)}
	return s
}

func extension(section model.Section, field model.Field) map[string]any {
	ext := map[string]any{
		"section": section.Name,
		"type":    string(field.Type),
	}
	if field.HasOptionPrices() {
		ext["optionPrices"] = field.OptionPrices
		ext["priceType"] = string(field.OptionPriceType.Normalized())
	}
	if conditional(field) {
		ext["visibleWhen"] = map[string]any{
			"field": field.ConditionalLogic.FieldID,
			"value": field.ConditionalLogic.Value,
		}
	}
	if field.Type == model.FieldTypeDate {
		if lo := field.ResolveMin(); lo != nil {
			ext["min"] = lo.String()
		}
		if hi := field.ResolveMax(); hi != nil {
			ext["max"] = hi.String()
		}
	}
	return ext
}

func conditional(field model.Field) bool {
	return field.ConditionalLogic != nil && field.ConditionalLogic.Enabled
}

func limitNumber(limit *model.Limit) (float64, bool) {
	if limit == nil {
		return 0, false
	}
	return limit.Number()
}

type ecmaPattern struct {
	re *regexp2.Regexp
}

// MatchString treats a match timeout as a match, like the field validator.
func (p ecmaPattern) MatchString(s string) bool {
	ok, err := p.re.MatchString(s)
	return err != nil || ok
}

func compileECMAScript(expr string) (openapi3.RegexMatcher, error) {
	re, err := regexp2.Compile(expr, regexp2.ECMAScript)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = 250 * time.Millisecond
	return ecmaPattern{re: re}, nil
}

func compiles(pattern string) bool {
	_, err := compileECMAScript(pattern)
	return err == nil
}
