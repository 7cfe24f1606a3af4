package testsupport

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// Fixture names shipped with the package.
const (
	CheckoutFixture     = "checkout.json"
	CheckoutYAMLFixture = "checkout.yaml"
	MalformedFixture    = "malformed.json"
)

//go:embed fixtures/*
var fixtures embed.FS

// Fixtures exposes the embedded fixture files.
func Fixtures() embed.FS {
	return fixtures
}

// LoadFixture returns the raw bytes of an embedded fixture.
func LoadFixture(name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("testsupport: fixture name is required")
	}
	data, err := fixtures.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return data, nil
}

// MustFixture reads an embedded fixture or fails the test.
func MustFixture(t testing.TB, name string) []byte {
	t.Helper()

	data, err := LoadFixture(name)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return data
}

// MustSchema parses an embedded fixture with the strict decoder.
func MustSchema(t testing.TB, name string) *model.Schema {
	t.Helper()

	parsed, err := schema.Parse(MustFixture(t, name))
	if err != nil {
		t.Fatalf("parse fixture %s: %v", name, err)
	}
	return parsed
}

// CheckoutSchema returns the checkout fixture without requiring testing.T so
// examples and benchmarks can share it.
func CheckoutSchema() (*model.Schema, error) {
	data, err := LoadFixture(CheckoutFixture)
	if err != nil {
		return nil, err
	}
	return schema.Parse(data)
}

// TierSchema builds the smallest priced form: a required name and a tier
// select priced at 0 and 20.
func TierSchema() *model.Schema {
	return &model.Schema{Sections: []model.Section{{
		ID:    model.NumericID(1),
		Name:  "Order",
		Width: model.Width100,
		Fields: []model.Field{
			{Type: model.FieldTypeText, Name: "name", Label: "Name", Required: true},
			{
				Type:         model.FieldTypeSelect,
				Name:         "tier",
				Label:        "Tier",
				Options:      []string{"Basic", "Pro"},
				OptionPrices: []float64{0, 20},
			},
		},
	}}}
}

// WriteGolden writes arbitrary data to a golden file when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs a render function that writes to an io.Writer and
// returns what it wrote.
func CaptureOutput(t *testing.T, render func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}
