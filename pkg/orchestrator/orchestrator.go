package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/registry"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/summary"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaRegistry lets requests name a product instead of carrying a
// schema.
func WithSchemaRegistry(schemas *registry.Registry) Option {
	return func(o *Orchestrator) {
		o.schemas = schemas
	}
}

// WithSchemaTransformer registers a Transformer that runs against a copy of
// the schema before each session is created.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector resolves go-theme selections for render requests.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks overrides the partial names used when a theme manifest
// does not provide its own template for a key.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		if len(fallbacks) == 0 {
			return
		}
		o.themeFallbacks = make(map[string]string, len(fallbacks))
		for key, value := range fallbacks {
			o.themeFallbacks[key] = value
		}
	}
}

// WithSessionOptions applies opts to every session the orchestrator creates,
// before the per-request options.
func WithSessionOptions(opts ...SessionOption) Option {
	return func(o *Orchestrator) {
		o.sessionOptions = append(o.sessionOptions, opts...)
	}
}

// Orchestrator is the host-facing entry point: it resolves a schema, starts
// sessions and hands them to renderers. It applies sensible defaults (the
// vanilla renderer, no theme) while remaining open to injection.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	schemas         *registry.Registry
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	sessionOptions  []SessionOption
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		themeFallbacks:  defaultThemeFallbacks(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes how to start a session.
type Request struct {
	// Schema is used as is when set. Otherwise ProductID is looked up in the
	// schema registry.
	Schema    *model.Schema
	ProductID string

	InitialData model.SubmissionData
	BasePrice   float64
	DisplayMode render.DisplayMode

	// SessionOptions run after the orchestrator wide options.
	SessionOptions []SessionOption
}

// NewSession resolves the schema for req and starts a session. A product
// without a stored schema yields an unavailable session rather than an
// error so hosts can render the "no configuration" state.
func (o *Orchestrator) NewSession(ctx context.Context, req Request) (*Session, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	schema, err := o.resolveSchema(ctx, req)
	if err != nil {
		return nil, err
	}
	if schema != nil && o.transformer != nil {
		if err := o.transformer.Transform(ctx, schema); err != nil {
			return nil, fmt.Errorf("orchestrator: transform schema: %w", err)
		}
	}

	opts := make([]SessionOption, 0, len(o.sessionOptions)+len(req.SessionOptions)+3)
	opts = append(opts, o.sessionOptions...)
	opts = append(opts,
		WithInitialData(req.InitialData),
		WithBasePrice(req.BasePrice),
		WithDisplayMode(req.DisplayMode),
	)
	opts = append(opts, req.SessionOptions...)
	return NewSession(schema, opts...), nil
}

func (o *Orchestrator) resolveSchema(ctx context.Context, req Request) (*model.Schema, error) {
	if req.Schema != nil {
		// Transformers mutate, so they get a private copy.
		clone, err := req.Schema.Clone()
		if err != nil {
			return nil, fmt.Errorf("orchestrator: %w", err)
		}
		return clone, nil
	}
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" || o.schemas == nil {
		return nil, nil
	}
	schema, err := o.schemas.Lookup(ctx, productID)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: lookup schema for %q: %w", productID, err)
	}
	return schema, nil
}

// RenderRequest selects the renderer and theme for one render call.
type RenderRequest struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant are passed to the theme selector. Both may be
	// empty to use the selector's defaults.
	ThemeName    string
	ThemeVariant string

	// Options carries per-request instructions such as the form action,
	// hidden fields or server side errors.
	Options render.RenderOptions
}

// Render renders form with the requested renderer.
func (o *Orchestrator) Render(ctx context.Context, form render.Form, req RenderRequest) ([]byte, error) {
	if err := o.checkContext(ctx); err != nil {
		return nil, err
	}
	if form == nil {
		return nil, errors.New("orchestrator: form is required")
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	options, err := o.withTheme(req)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// RenderSummary renders a read-only summary. The renderer must implement
// render.SummaryRenderer.
func (o *Orchestrator) RenderSummary(ctx context.Context, s summary.Summary, req RenderRequest) ([]byte, error) {
	if err := o.checkContext(ctx); err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	summaries, ok := renderer.(render.SummaryRenderer)
	if !ok {
		return nil, fmt.Errorf("orchestrator: %w: %q", render.ErrSummaryUnsupported, renderer.Name())
	}
	options, err := o.withTheme(req)
	if err != nil {
		return nil, err
	}

	output, err := summaries.RenderSummary(ctx, s, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render summary: %w", err)
	}
	return output, nil
}

// Registry exposes the renderer registry so hosts can add renderers after
// construction.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

func (o *Orchestrator) checkContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) withTheme(req RenderRequest) (render.RenderOptions, error) {
	options := req.Options
	if options.Theme != nil || o.themeSelector == nil {
		return options, nil
	}
	cfg, err := o.resolveTheme(req.ThemeName, req.ThemeVariant)
	if err != nil {
		return options, err
	}
	options.Theme = cfg
	return options, nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
