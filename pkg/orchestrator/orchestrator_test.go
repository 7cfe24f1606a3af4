package orchestrator

import (
	"context"
	"errors"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/registry"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/summary"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestOrchestrator_DefaultRegistryHasVanilla(t *testing.T) {
	t.Parallel()

	orch := New()
	if !orch.Registry().Has(defaultRendererName) {
		t.Fatalf("expected the vanilla renderer to be registered by default")
	}
}

func TestOrchestrator_NewSessionCopiesSchemaForTransformers(t *testing.T) {
	t.Parallel()

	source := testsupport.TierSchema()
	orch := New(WithRegistry(render.NewRegistry()), WithSchemaTransformer(TransformerFunc(
		func(_ context.Context, s *model.Schema) error {
			s.Sections[0].Fields[0].Label = "Your name"
			return nil
		},
	)))

	session, err := orch.NewSession(context.Background(), Request{Schema: source, BasePrice: 10})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if got := session.Schema().Sections[0].Fields[0].Label; got != "Your name" {
		t.Fatalf("transformer not applied, got %q", got)
	}
	if source.Sections[0].Fields[0].Label != "Name" {
		t.Fatalf("transformer mutated the caller's schema")
	}
	if session.BasePrice() != 10 {
		t.Fatalf("base price not forwarded, got %v", session.BasePrice())
	}
}

func TestOrchestrator_NewSessionFromSchemaRegistry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	schemas, err := registry.New(registry.NewMemoryStore())
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	if _, err := schemas.Register(ctx, "sku-1", testsupport.MustFixture(t, testsupport.CheckoutFixture)); err != nil {
		t.Fatalf("register: %v", err)
	}

	orch := New(WithRegistry(render.NewRegistry()), WithSchemaRegistry(schemas))

	session, err := orch.NewSession(ctx, Request{ProductID: "sku-1"})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if !session.Available() {
		t.Fatalf("expected stored schema to be used")
	}

	missing, err := orch.NewSession(ctx, Request{ProductID: "sku-2"})
	if err != nil {
		t.Fatalf("missing product should not fail: %v", err)
	}
	if missing.Available() {
		t.Fatalf("missing product should yield an unavailable session")
	}
}

func TestOrchestrator_TransformerErrorIsWrapped(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	orch := New(WithRegistry(render.NewRegistry()), WithSchemaTransformer(TransformerFunc(
		func(context.Context, *model.Schema) error { return boom },
	)))

	_, err := orch.NewSession(context.Background(), Request{Schema: testsupport.TierSchema()})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped transformer error, got %v", err)
	}
}

func TestOrchestrator_SessionOptionsOrder(t *testing.T) {
	t.Parallel()

	orch := New(
		WithRegistry(render.NewRegistry()),
		WithSessionOptions(WithHiddenFieldPolicy(HiddenIgnore), WithID("global")),
	)
	session, err := orch.NewSession(context.Background(), Request{
		Schema:         testsupport.TierSchema(),
		SessionOptions: []SessionOption{WithID("request")},
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if session.ID() != "request" {
		t.Fatalf("request options should win, got %q", session.ID())
	}
	if session.Policy() != HiddenIgnore {
		t.Fatalf("orchestrator options should apply")
	}
}

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	t.Parallel()

	manifest := &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens:  map[string]string{"brand": "#123456"},
		Templates: map[string]string{
			ThemePartialForm: "themes/acme/form.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files:  map[string]string{"stylesheet": "theme.css"},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"brand": "#654321"},
				Assets: theme.Assets{Files: map[string]string{"vendor": "vendor.dark.js"}},
			},
		},
	}
	selector := &stubThemeSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: manifest}}

	renderer := &captureRenderer{}
	renderers := render.NewRegistry()
	renderers.MustRegister(renderer)

	orch := New(WithRegistry(renderers), WithDefaultRenderer(renderer.Name()), WithThemeSelector(selector))
	session := NewSession(testsupport.TierSchema())

	if _, err := orch.Render(context.Background(), session, RenderRequest{ThemeName: "acme", ThemeVariant: "dark"}); err != nil {
		t.Fatalf("render: %v", err)
	}

	if len(selector.calls) != 1 || selector.calls[0] != (selectorCall{name: "acme", variant: "dark"}) {
		t.Fatalf("unexpected selector calls: %+v", selector.calls)
	}
	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme identity %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Partials[ThemePartialForm] != "themes/acme/form.tmpl" {
		t.Fatalf("manifest template should override the fallback, got %s", cfg.Partials[ThemePartialForm])
	}
	if cfg.Partials[ThemePartialSummary] != defaultThemeFallbacks()[ThemePartialSummary] {
		t.Fatalf("fallback partial not applied for summary")
	}
	if cfg.Tokens["brand"] != "#654321" || cfg.CSSVars["--brand"] != "#654321" {
		t.Fatalf("variant tokens should win, got %v / %v", cfg.Tokens, cfg.CSSVars)
	}
	if got := cfg.AssetURL("vendor"); got != "/assets/themes/acme/vendor.dark.js" {
		t.Fatalf("unexpected vendor asset url: %s", got)
	}
	if got := cfg.AssetURL("stylesheet"); got != "/assets/themes/acme/theme.css" {
		t.Fatalf("unexpected stylesheet asset url: %s", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("unknown assets resolve to empty, got %s", got)
	}
}

func TestOrchestrator_ExplicitThemeSkipsSelector(t *testing.T) {
	t.Parallel()

	selector := &stubThemeSelector{err: errors.New("should not be called")}
	renderer := &captureRenderer{}
	renderers := render.NewRegistry()
	renderers.MustRegister(renderer)

	orch := New(WithRegistry(renderers), WithThemeSelector(selector))
	explicit := &theme.RendererConfig{Theme: "inline"}
	_, err := orch.Render(context.Background(), NewSession(nil), RenderRequest{
		Options: render.RenderOptions{Theme: explicit},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(selector.calls) != 0 || renderer.options.Theme != explicit {
		t.Fatalf("explicit theme should be passed through untouched")
	}
}

func TestOrchestrator_RendererFallbacks(t *testing.T) {
	t.Parallel()

	renderer := &captureRenderer{}
	renderers := render.NewRegistry()
	renderers.MustRegister(renderer)
	orch := New(WithRegistry(renderers))

	out, err := orch.Render(context.Background(), NewSession(nil), RenderRequest{})
	if err != nil {
		t.Fatalf("default renderer missing should fall back to the first registered: %v", err)
	}
	if string(out) != "capture" {
		t.Fatalf("unexpected output %q", out)
	}

	_, err = orch.Render(context.Background(), NewSession(nil), RenderRequest{Renderer: "pdf"})
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("explicit unknown renderer should fail, got %v", err)
	}

	_, err = orch.RenderSummary(context.Background(), summary.Summary{}, RenderRequest{})
	if !errors.Is(err, render.ErrSummaryUnsupported) {
		t.Fatalf("expected summary unsupported error, got %v", err)
	}
}

func TestOrchestrator_RejectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(WithRegistry(render.NewRegistry()))
	if _, err := orch.NewSession(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if _, err := orch.Render(ctx, NewSession(nil), RenderRequest{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}

func TestJSONPresetTransformer(t *testing.T) {
	t.Parallel()

	transformer, err := NewJSONPresetTransformer([]byte(`{
		"sections": {"1": {"name": "Bestellung"}},
		"fields": {"name": {"label": "Name", "placeholder": "Max", "required": false}}
	}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}

	schema := testsupport.TierSchema()
	if err := transformer.Transform(context.Background(), schema); err != nil {
		t.Fatalf("transform: %v", err)
	}
	field := schema.Sections[0].Fields[0]
	if schema.Sections[0].Name != "Bestellung" || field.Placeholder != "Max" || field.Required {
		t.Fatalf("patch not applied: section %q field %+v", schema.Sections[0].Name, field)
	}

	typo, err := NewJSONPresetTransformer([]byte(`{"fields": {"nmae": {"label": "x"}}}`))
	if err != nil {
		t.Fatalf("new transformer: %v", err)
	}
	if err := typo.Transform(context.Background(), testsupport.TierSchema()); err == nil {
		t.Fatalf("expected error for unknown field")
	}

	if _, err := NewJSONPresetTransformer([]byte("  ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
}

type captureRenderer struct {
	options render.RenderOptions
}

func (r *captureRenderer) Name() string {
	return "capture"
}

func (r *captureRenderer) ContentType() string {
	return "text/plain"
}

func (r *captureRenderer) Render(_ context.Context, _ render.Form, opts render.RenderOptions) ([]byte, error) {
	r.options = opts
	return []byte(r.Name()), nil
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}
