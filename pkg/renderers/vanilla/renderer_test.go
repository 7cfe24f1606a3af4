package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/summary"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestRenderer_RendersCheckoutControls(t *testing.T) {
	t.Parallel()

	session := orchestrator.NewSession(testsupport.MustSchema(t, testsupport.CheckoutFixture),
		orchestrator.WithID("sess-1"),
		orchestrator.WithInitialData(model.SubmissionData{"tier": "Pro"}),
		orchestrator.WithBasePrice(100),
	)
	session.OnFieldBlur("email")

	output := renderHTML(t, session, render.RenderOptions{
		Action: "/checkout",
		Hidden: []render.HiddenField{render.CSRFToken("_csrf", "tok")},
	})

	wants := []string{
		`<form class="fb-form" method="POST" action="/checkout" data-mode="sidebar"`,
		`<input type="hidden" name="_csrf" value="tok">`,
		`<input type="hidden" name="form_session" value="sess-1">`,
		`<label for="fb-name">Full name <span aria-hidden="true">*</span></label>`,
		`minlength="2"`,
		`maxlength="60"`,
		`<input id="fb-email" type="email" name="email" value=""`,
		`<p class="fb-field-error" id="fb-email-error" role="alert">Email is required</p>`,
		`<option value="Pro" selected>Pro (+20.00€)</option>`,
		`<option value="Priority">Priority (+10%)</option>`,
		`<option value="personal" selected>personal</option>`,
		`<textarea id="fb-notes" name="notes" rows="3"`,
		`<details open>`,
		`<strong>120.00€</strong>`,
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(output, `name="company"`) {
		t.Errorf("hidden conditional field must not render")
	}
}

func TestRenderer_SanitizesDescriptions(t *testing.T) {
	t.Parallel()

	session := orchestrator.NewSession(testsupport.MustSchema(t, testsupport.CheckoutFixture))
	output := renderHTML(t, session, render.RenderOptions{})

	if !strings.Contains(output, "<strong>licence key</strong>") {
		t.Fatalf("inline markup should survive sanitising")
	}
	if strings.Contains(output, "<script") || strings.Contains(output, "alert(1)") {
		t.Fatalf("script content must be removed:\n%s", output)
	}
}

func TestRenderer_FullWidthSpansAndServerErrors(t *testing.T) {
	t.Parallel()

	session := orchestrator.NewSession(testsupport.TierSchema(), orchestrator.WithDisplayMode(render.DisplayModeFullWidth))
	output := renderHTML(t, session, render.RenderOptions{
		FormErrors:  []string{"Payment declined"},
		FieldErrors: map[string]string{"name": "Name is taken"},
		Currency:    "$",
	})

	for _, want := range []string{
		`style="grid-column: span 12"`,
		`data-mode="fullwidth"`,
		`<li>Payment declined</li>`,
		`Name is taken`,
		`<option value="Pro">Pro (+20.00$)</option>`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderer_NoConfiguration(t *testing.T) {
	t.Parallel()

	output := renderHTML(t, orchestrator.NewSession(nil), render.RenderOptions{})
	if !strings.Contains(output, "No form configuration is available") {
		t.Fatalf("expected no configuration notice, got:\n%s", output)
	}
	if strings.Contains(output, "<form") {
		t.Fatalf("no form element expected")
	}
}

func TestRenderer_ThemeConfig(t *testing.T) {
	t.Parallel()

	session := orchestrator.NewSession(testsupport.TierSchema())
	output := renderHTML(t, session, render.RenderOptions{Theme: &theme.RendererConfig{
		Theme:   "acme",
		Variant: "dark",
		CSSVars: map[string]string{"--brand": "#123456"},
		AssetURL: func(key string) string {
			if key == "stylesheet" {
				return "/themes/acme/theme.css"
			}
			return ""
		},
	}})

	for _, want := range []string{
		`data-theme="acme"`,
		`data-variant="dark"`,
		`style="--brand: #123456"`,
		`<link rel="stylesheet" href="/themes/acme/theme.css">`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(output, "<style>") {
		t.Errorf("theme stylesheet should replace the inline css")
	}
}

func TestRenderer_TemplateOverrides(t *testing.T) {
	t.Parallel()

	overrides := fstest.MapFS{
		"form.tmpl":    {Data: []byte(`custom {{ form.sections|length }}`)},
		"branded.tmpl": {Data: []byte(`branded {{ form.method }}`)},
	}
	renderer, err := vanilla.New(vanilla.WithTemplatesFS(overrides))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	session := orchestrator.NewSession(testsupport.TierSchema())

	out, err := renderer.Render(context.Background(), session, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "custom 1" {
		t.Fatalf("override template not used, got %q", out)
	}

	out, err = renderer.Render(context.Background(), session, render.RenderOptions{
		Theme: &theme.RendererConfig{Partials: map[string]string{vanilla.PartialForm: "branded.tmpl"}},
	})
	if err != nil {
		t.Fatalf("render themed: %v", err)
	}
	if string(out) != "branded POST" {
		t.Fatalf("theme partial not used, got %q", out)
	}
}

func TestRenderer_Summary(t *testing.T) {
	t.Parallel()

	renderer, err := vanilla.New(vanilla.WithoutInlineStylesheet())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	s := summary.Summarize(testsupport.MustSchema(t, testsupport.CheckoutFixture), model.SubmissionData{
		"name": "Alice",
		"tier": "Pro",
	}, summary.Options{})
	out, err := renderer.RenderSummary(context.Background(), s, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render summary: %v", err)
	}
	output := string(out)
	for _, want := range []string{
		`<dt class="fb-summary-section">Account</dt>`,
		`<dt class="fb-summary-section">Plan</dt>`,
		"<dt>Full name</dt>\n  <dd>Alice</dd>",
		"<dd>Pro (+20.00€)</dd>",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("summary missing %q in:\n%s", want, output)
		}
	}

	empty, err := renderer.RenderSummary(context.Background(), summary.Summary{}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if !strings.Contains(string(empty), "No details provided.") {
		t.Fatalf("expected empty placeholder, got %q", empty)
	}
}

func TestRenderer_Metadata(t *testing.T) {
	t.Parallel()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" || !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected metadata %s %s", renderer.Name(), renderer.ContentType())
	}
	if _, err := renderer.Render(context.Background(), nil, render.RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil form")
	}
}

func renderHTML(t *testing.T, form render.Form, opts render.RenderOptions) string {
	t.Helper()

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), form, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}
