package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
	"github.com/goliatone/go-formbuilder/pkg/summary"
)

// Template names and theme partial keys.
const (
	FormTemplate    = "form.tmpl"
	SummaryTemplate = "summary.tmpl"

	PartialForm    = "forms.form"
	PartialSummary = "forms.summary"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	sanitizer        *bluemonday.Policy
	classes          Classes
	stylesheet       string
	omitStylesheet   bool
}

// WithTemplatesFS supplies templates searched before the embedded bundle, so
// a host can override form.tmpl alone.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads override templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithSanitizer replaces the policy applied to field descriptions.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		cfg.sanitizer = policy
	}
}

// WithClasses overrides chrome classes.
func WithClasses(classes Classes) Option {
	return func(cfg *config) {
		cfg.classes = classes
	}
}

// WithoutInlineStylesheet stops the renderer from inlining the default CSS.
// Hosts that serve AssetsFS themselves use this.
func WithoutInlineStylesheet() Option {
	return func(cfg *config) {
		cfg.omitStylesheet = true
	}
}

// Renderer renders a form plan and summaries as HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	cfg       config
}

var _ render.SummaryRenderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{stylesheet: defaultStylesheet()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engineOpts := []pongo.Option{pongo.WithName("vanilla"), pongo.WithExtension(".tmpl")}
		if cfg.templateFS != nil {
			engineOpts = append(engineOpts, pongo.WithFS(cfg.templateFS))
		}
		engineOpts = append(engineOpts, pongo.WithFS(TemplatesFS()))
		engine, err := pongo.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, cfg: cfg}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render renders the form plan. An unavailable form renders the "no
// configuration" notice instead of controls.
func (r *Renderer) Render(ctx context.Context, form render.Form, opts render.RenderOptions) ([]byte, error) {
	if form == nil {
		return nil, errors.New("vanilla renderer: form is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := buildFormView(form.Plan(), opts, r.cfg)
	return r.execute(templateFor(opts, PartialForm, FormTemplate), map[string]any{"form": view})
}

// RenderSummary renders read-only rows. An empty summary renders a
// placeholder paragraph; hosts that prefer to omit the block check
// Summary.Empty first.
func (r *Renderer) RenderSummary(ctx context.Context, s summary.Summary, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view := summaryView{
		Empty:   s.Empty(),
		Lines:   s.Lines(),
		Classes: r.cfg.classes.merged(),
		Theme:   buildThemeView(opts, r.cfg),
	}
	return r.execute(templateFor(opts, PartialSummary, SummaryTemplate), map[string]any{"summary": view})
}

func (r *Renderer) execute(name string, data map[string]any) ([]byte, error) {
	if r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}
	result, err := r.templates.RenderTemplate(name, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func templateFor(opts render.RenderOptions, partial, fallback string) string {
	if opts.Theme != nil {
		if name := opts.Theme.Partials[partial]; name != "" {
			return name
		}
	}
	return fallback
}
