package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
	"github.com/goliatone/go-formbuilder/pkg/schema"
	"github.com/goliatone/go-formbuilder/pkg/summary"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func (a *app) lint(ctx context.Context, args []string) error {
	fs := a.flags("lint")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "lint: expected at least one schema file")
		return errUsage
	}

	failed := 0
	for _, path := range fs.Args() {
		result, err := lintFile(ctx, path)
		if err != nil {
			return err
		}
		if result.Valid {
			fmt.Fprintf(a.stdout, "%s: ok\n", path)
			continue
		}
		failed++
		if result.Path != "" {
			fmt.Fprintf(a.stdout, "%s: %s (at %s)\n", path, result.Error, result.Path)
		} else {
			fmt.Fprintf(a.stdout, "%s: %s\n", path, result.Error)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents are invalid", failed, fs.NArg())
	}
	return nil
}

func lintFile(ctx context.Context, path string) (validation.SchemaResult, error) {
	doc, err := schema.Load(ctx, schema.SourceFromFile(path), nil)
	if err != nil {
		return validation.SchemaResult{}, err
	}
	data, err := doc.JSON()
	if err != nil {
		return validation.SchemaResult{Error: "Invalid JSON"}, nil
	}
	return validation.ValidateSchemaJSON(data), nil
}

func (a *app) format(ctx context.Context, args []string) error {
	fs := a.flags("fmt")
	write := fs.Bool("w", false, "write the result back to the file")
	path, err := a.parseFlags(fs, args)
	if err != nil {
		return err
	}

	doc, err := schema.Load(ctx, schema.SourceFromFile(path), nil)
	if err != nil {
		return err
	}
	data, err := doc.JSON()
	if err != nil {
		return err
	}
	formatted, err := schema.Format(data)
	if err != nil {
		return err
	}
	formatted = append(formatted, '\n')

	if *write {
		return a.write(path, formatted)
	}
	return a.write("", formatted)
}

func (a *app) fill(ctx context.Context, args []string) error {
	fs := a.flags("fill")
	basePrice := fs.Float64("base-price", 0, "product base price")
	dataArg := fs.String("data", "", "initial data as a JSON file or inline JSON object")
	format := fs.String("format", string(tui.OutputFormatJSON), "output format (json, pretty)")
	currency := fs.String("currency", "", "currency symbol")
	path, err := a.parseFlags(fs, args)
	if err != nil {
		return err
	}

	parsed, err := a.loadSchema(ctx, path)
	if err != nil {
		return err
	}
	data, err := loadData(*dataArg)
	if err != nil {
		return err
	}

	gen, err := a.orchestrator(tui.WithOutputFormat(tui.OutputFormat(*format)))
	if err != nil {
		return err
	}
	session, err := gen.NewSession(ctx, orchestrator.Request{Schema: parsed, InitialData: data, BasePrice: *basePrice})
	if err != nil {
		return err
	}
	out, err := gen.Render(ctx, session, orchestrator.RenderRequest{
		Renderer: "tui",
		Options:  render.RenderOptions{Currency: *currency},
	})
	if err != nil {
		if errors.Is(err, tui.ErrAborted) {
			a.logger.Info("fill aborted")
			return nil
		}
		return err
	}

	a.logger.WithFields(logrus.Fields{
		"file":  path,
		"total": session.Pricing().Total,
	}).Info("form filled")
	return a.write("", out)
}

func (a *app) summary(ctx context.Context, args []string) error {
	fs := a.flags("summary")
	dataArg := fs.String("data", "", "submitted data as a JSON file or inline JSON object")
	compact := fs.Bool("compact", false, "flat list without section headers")
	showEmpty := fs.Bool("show-empty", false, "list empty fields as -")
	skipHidden := fs.Bool("skip-hidden", false, "omit fields hidden by conditional logic")
	currency := fs.String("currency", "", "currency symbol")
	basePrice := fs.Float64("base-price", 0, "base price for percentage option amounts")
	html := fs.Bool("html", false, "render HTML instead of text")
	path, err := a.parseFlags(fs, args)
	if err != nil {
		return err
	}

	parsed, err := a.loadSchema(ctx, path)
	if err != nil {
		return err
	}
	data, err := loadData(*dataArg)
	if err != nil {
		return err
	}

	s := summary.Summarize(parsed, data, summary.Options{
		ShowEmpty:  *showEmpty,
		Compact:    *compact,
		Currency:   *currency,
		BasePrice:  *basePrice,
		SkipHidden: *skipHidden,
	})

	gen, err := a.orchestrator()
	if err != nil {
		return err
	}
	renderer := "tui"
	if *html {
		renderer = "vanilla"
	}
	out, err := gen.RenderSummary(ctx, s, orchestrator.RenderRequest{Renderer: renderer})
	if err != nil {
		return err
	}
	return a.write("", out)
}

func (a *app) render(ctx context.Context, args []string) error {
	fs := a.flags("render")
	dataArg := fs.String("data", "", "submitted data as a JSON file or inline JSON object")
	mode := fs.String("mode", string(render.DisplayModeSidebar), "display mode (sidebar, fullwidth)")
	action := fs.String("action", "", "form action URL")
	currency := fs.String("currency", "", "currency symbol")
	basePrice := fs.Float64("base-price", 0, "product base price")
	validate := fs.Bool("validate", false, "validate the data and render field errors")
	output := fs.String("output", "", "output file (stdout if empty)")
	path, err := a.parseFlags(fs, args)
	if err != nil {
		return err
	}

	parsed, err := a.loadSchema(ctx, path)
	if err != nil {
		return err
	}
	data, err := loadData(*dataArg)
	if err != nil {
		return err
	}

	gen, err := a.orchestrator()
	if err != nil {
		return err
	}
	session, err := gen.NewSession(ctx, orchestrator.Request{
		Schema:      parsed,
		InitialData: data,
		BasePrice:   *basePrice,
		DisplayMode: render.DisplayMode(*mode),
	})
	if err != nil {
		return err
	}
	if *validate {
		result := session.ValidateAll()
		a.logger.WithField("errors", len(result.Errors)).Debug("data validated")
	}

	out, err := gen.Render(ctx, session, orchestrator.RenderRequest{
		Renderer: "vanilla",
		Options:  render.RenderOptions{Action: *action, Currency: *currency},
	})
	if err != nil {
		return err
	}
	return a.write(*output, out)
}

func (a *app) openapi(ctx context.Context, args []string) error {
	fs := a.flags("openapi")
	title := fs.String("title", "", "document title")
	version := fs.String("version", "", "document version")
	output := fs.String("output", "", "output file (stdout if empty)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(a.stderr, "openapi: expected at least one schema file")
		return errUsage
	}

	forms := make(map[string]*model.Schema, fs.NArg())
	for _, path := range fs.Args() {
		parsed, err := a.loadSchema(ctx, path)
		if err != nil {
			return err
		}
		forms[componentName(path)] = parsed
	}

	doc, err := openapi.Document(*title, *version, forms)
	if err != nil {
		return err
	}
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return a.write(*output, append(payload, '\n'))
}

// orchestrator wires both built-in renderers. tuiOpts configure the terminal
// renderer.
func (a *app) orchestrator(tuiOpts ...tui.Option) (*orchestrator.Orchestrator, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, err
	}
	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(a.stderr)
	}
	terminal, err := tui.New(append([]tui.Option{tui.WithPromptDriver(driver)}, tuiOpts...)...)
	if err != nil {
		return nil, err
	}

	renderers := render.NewRegistry()
	if err := renderers.Register(html); err != nil {
		return nil, err
	}
	if err := renderers.Register(terminal); err != nil {
		return nil, err
	}
	return orchestrator.New(
		orchestrator.WithRegistry(renderers),
		orchestrator.WithDefaultRenderer(html.Name()),
	), nil
}
