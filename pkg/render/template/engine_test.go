package template_test

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-formbuilder/pkg/render/template/pongo"
)

//go:embed testdata/templates/*.tmpl
var embeddedTemplates embed.FS

func TestEngine_RenderTemplateWritesToOutputs(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)

	var buf bytes.Buffer
	result, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "Hello Ada!\n" {
		t.Fatalf("unexpected result %q", result)
	}
	if buf.String() != result {
		t.Fatalf("writer mismatch: %q", buf.String())
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	if err := engine.GlobalContext(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	result, err := engine.RenderTemplate("use-global", nil)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "env=staging\n" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		if input == nil {
			return "", nil
		}
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil && !errors.Is(err, pongo.ErrFilterExists) {
		t.Fatalf("register filter: %v", err)
	}

	result, err := engine.RenderTemplate("use-filter", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "ADA!\n" {
		t.Fatalf("unexpected result %q", result)
	}

	if err := engine.RegisterFilter("shout", func(any, any) (any, error) { return "", nil }); !errors.Is(err, pongo.ErrFilterExists) {
		t.Fatalf("expected ErrFilterExists, got %v", err)
	}
}

func TestEngine_StructDataUsesJSONNames(t *testing.T) {
	t.Parallel()

	type line struct {
		Label  string  `json:"label"`
		Amount float64 `json:"amount"`
		Qty    int     `json:"qty"`
	}
	engine := newEngine(t)

	result, err := engine.RenderTemplate("price", map[string]any{
		"line":     line{Label: "Pro", Amount: 20, Qty: 3},
		"currency": "€",
	})
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	if result != "Pro: 20.00€ x3\n" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RenderString(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	result, err := engine.Render(`{{ rate|number }}% of {{ base|money:"$" }}`, map[string]any{"rate": 12.5, "base": 200})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "12.5% of 200.00$" {
		t.Fatalf("unexpected result %q", result)
	}
}

func TestEngine_RequiresLoader(t *testing.T) {
	t.Parallel()

	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without loaders")
	}

	engine := newEngine(t)
	if engine.HasTemplate("missing") {
		t.Fatalf("missing template should not resolve")
	}
	if _, err := engine.RenderTemplate("missing", nil); err == nil {
		t.Fatalf("expected error for missing template")
	}
}

func newEngine(t *testing.T) *pongo.Engine {
	t.Helper()

	sub, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := pongo.New(pongo.WithFS(sub))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}
