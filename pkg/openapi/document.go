package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

const (
	defaultTitle   = "Form submissions"
	defaultVersion = "1.0.0"
	openAPIVersion = "3.0.3"
)

// ErrSubmissionInvalid wraps contract violations reported by
// ValidateSubmission.
var ErrSubmissionInvalid = errors.New("openapi: submission does not match the form contract")

// Document builds an OpenAPI document holding one component schema and one
// submit operation per form. The result is serialised, loaded back and
// validated through openapi3.Loader so callers receive a resolved document.
func Document(title, version string, forms map[string]*model.Schema) (*openapi3.T, error) {
	if title == "" {
		title = defaultTitle
	}
	if version == "" {
		version = defaultVersion
	}

	doc := &openapi3.T{
		OpenAPI:    openAPIVersion,
		Info:       &openapi3.Info{Title: title, Version: version},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: Components(forms)},
	}

	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Paths.Set(SubmitPath(name), &openapi3.PathItem{Post: submitOperation(name)})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode document: %w", err)
	}

	ctx := context.Background()
	loader := openapi3.NewLoader()
	loader.Context = ctx
	loaded, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := loaded.Validate(ctx,
		openapi3.DisableExamplesValidation(),
		openapi3.DisableSchemaDefaultsValidation(),
		openapi3.SetRegexCompiler(compileECMAScript),
	); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return loaded, nil
}

// SubmitPath is the operation path published for a form.
func SubmitPath(name string) string {
	return "/forms/" + url.PathEscape(name) + "/submissions"
}

func submitOperation(name string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "submit-" + name
	op.Summary = "Submit the " + name + " form"
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/"+name, nil)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(204, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Submission accepted")}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Field errors keyed by field name")}),
	)
	return op
}

// ValidateSubmission checks data against the form's submission schema. Values
// the field validator treats as missing are dropped first, so an empty
// optional field is not a type error and an empty required one is reported
// as missing. Patterns use ECMAScript semantics.
func ValidateSubmission(schema *model.Schema, data model.SubmissionData) error {
	value, err := contractValue(data)
	if err != nil {
		return err
	}
	if err := SubmissionSchema(schema).VisitJSON(value,
		openapi3.MultiErrors(),
		openapi3.SetSchemaRegexCompiler(compileECMAScript),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrSubmissionInvalid, err)
	}
	return nil
}

// ErrorPayload turns a ValidateSubmission failure into messages keyed by JSON
// pointer ("/seats"), the shape render.MapErrorPayload resolves onto fields.
// Violations of the whole object are keyed "/".
func ErrorPayload(err error) map[string][]string {
	if err == nil {
		return nil
	}
	errs := []error{err}
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		errs = []error(multi)
	}

	payload := make(map[string][]string, len(errs))
	for _, e := range errs {
		key, reason := "/", e.Error()
		var schemaErr *openapi3.SchemaError
		if errors.As(e, &schemaErr) {
			key = "/" + strings.Join(schemaErr.JSONPointer(), "/")
			reason = schemaErr.Reason
		}
		payload[key] = append(payload[key], reason)
	}
	return payload
}

// contractValue converts data into the generic JSON shape VisitJSON expects.
func contractValue(data model.SubmissionData) (map[string]any, error) {
	present := make(map[string]any, len(data))
	for key, value := range data {
		if validation.IsMissing(value) {
			continue
		}
		present[key] = value
	}
	raw, err := json.Marshal(present)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode submission: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("openapi: decode submission: %w", err)
	}
	return out, nil
}
