package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

func TestSortedHiddenFields(t *testing.T) {
	t.Parallel()

	sorted := render.SortedHiddenFields(
		render.CSRFToken("_csrf", "old"),
		render.SessionField("abc"),
		render.Hidden("  ", "skip"),
		render.Hidden(" version ", 4),
		render.CSRFToken("_csrf", "token123"),
	)

	want := []render.HiddenField{
		{Name: "_csrf", Value: "token123"},
		{Name: "form_session", Value: "abc"},
		{Name: "version", Value: "4"},
	}
	if diff := cmp.Diff(want, sorted); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}

	if got := render.SortedHiddenFields(); got != nil {
		t.Fatalf("expected nil for no fields, got %v", got)
	}
}
