package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestMapErrorPayload(t *testing.T) {
	t.Parallel()

	payload := map[string][]string{
		"/body/name":         {"Name is taken"},
		"data.email":         {"Email bounced", " Email bounced "},
		"$.data[0].tier":     {"Tier sold out"},
		"non_field_errors":   {"Form level error"},
		"request/body/bogus": {"Unknown field"},
		"":                   {"Unscoped"},
		"/seats":             {"Too many", "Pick fewer"},
	}

	schema := testsupport.TierSchema()
	schema.Sections[0].Fields = append(schema.Sections[0].Fields,
		model.Field{Type: model.FieldTypeEmail, Name: "email", Label: "Email"},
		model.Field{Type: model.FieldTypeNumber, Name: "seats", Label: "Seats"},
	)

	mapped := render.MapErrorPayload(schema, payload)

	wantFields := map[string]string{
		"name":  "Name is taken",
		"email": "Email bounced",
		"tier":  "Tier sold out",
		"seats": "Too many; Pick fewer",
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Unknown field", "Unscoped"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	t.Parallel()

	merged := render.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}
	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
