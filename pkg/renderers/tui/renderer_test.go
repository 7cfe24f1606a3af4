package tui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/orchestrator"
	"github.com/goliatone/go-formbuilder/pkg/render"
	"github.com/goliatone/go-formbuilder/pkg/summary"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

type stubDriver struct {
	inputs     []string
	selectIdx  []int
	confirm    []bool
	textAreas  []string
	inputPos   int
	selectPos  int
	confirmPos int
	textPos    int

	messages []string
	selects  []SelectConfig
}

func (s *stubDriver) Input(_ context.Context, _ InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.selects = append(s.selects, cfg)
	if s.selectPos >= len(s.selectIdx) {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[s.selectPos]
	s.selectPos++
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, _ TextAreaConfig) (string, error) {
	if s.textPos >= len(s.textAreas) {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[s.textPos]
	s.textPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.messages = append(s.messages, msg)
	return nil
}

func TestRenderer_FillsTierFormAndRepromptsInvalidInput(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"", "Alice"}, selectIdx: []int{2}}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), orchestrator.NewSession(testsupport.TierSchema()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var got struct {
		Data  map[string]any `json:"data"`
		Price struct {
			Total float64 `json:"total"`
		} `json:"price"`
		Validation model.ValidationResult `json:"validation"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"name": "Alice", "tier": "Pro"}, got.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if got.Price.Total != 20 || !got.Validation.IsValid {
		t.Fatalf("unexpected result %+v", got)
	}

	wantMessages := []string{"! Name is required", "Total: 20.00€"}
	if diff := cmp.Diff(wantMessages, driver.messages); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{noneOption, "Basic", "Pro (+20.00€)"}, driver.selects[0].Options); diff != "" {
		t.Fatalf("select options mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderer_AsksRevealedFieldsNext(t *testing.T) {
	t.Parallel()

	schema := &model.Schema{Sections: []model.Section{{
		ID:    model.NumericID(1),
		Name:  "Account",
		Width: model.Width100,
		Fields: []model.Field{
			{Type: model.FieldTypeSelect, Name: "kind", Label: "Kind", Options: []string{"personal", "business"}},
			{
				Type: model.FieldTypeText, Name: "company", Label: "Company", Required: true,
				ConditionalLogic: &model.ConditionalLogic{Enabled: true, FieldID: "kind", Value: "business"},
			},
			{Type: model.FieldTypeNumber, Name: "seats", Label: "Seats"},
		},
	}}}

	driver := &stubDriver{selectIdx: []int{2}, inputs: []string{"Acme", "abc", "3"}}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	session := orchestrator.NewSession(schema)

	if _, err := renderer.Render(context.Background(), session, render.RenderOptions{}); err != nil {
		t.Fatalf("render: %v", err)
	}

	want := model.SubmissionData{"kind": "business", "company": "Acme", "seats": float64(3)}
	if diff := cmp.Diff(want, session.Data()); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
	if len(driver.messages) != 1 || driver.messages[0] != "! Seats must be a number" {
		t.Fatalf("expected coercion message, got %v", driver.messages)
	}
}

func TestRenderer_ReportsHiddenRequiredFieldsWithoutPrompting(t *testing.T) {
	t.Parallel()

	schema := &model.Schema{Sections: []model.Section{{
		ID:    model.NumericID(1),
		Name:  "Account",
		Width: model.Width100,
		Fields: []model.Field{
			{Type: model.FieldTypeSelect, Name: "kind", Label: "Kind", Required: true, Options: []string{"personal", "business"}},
			{
				Type: model.FieldTypeText, Name: "company", Label: "Company", Required: true,
				ConditionalLogic: &model.ConditionalLogic{Enabled: true, FieldID: "kind", Value: "business"},
			},
		},
	}}}

	driver := &stubDriver{selectIdx: []int{0}}
	renderer, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), orchestrator.NewSession(schema), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(out), `"isValid": false`) {
		t.Fatalf("expected invalid result, got %s", out)
	}
	if driver.confirmPos != 0 {
		t.Fatalf("hidden fields cannot be fixed, so no confirmation should be asked")
	}
	if len(driver.messages) != 1 || driver.messages[0] != "! company: Company is required" {
		t.Fatalf("unexpected messages %v", driver.messages)
	}
}

func TestRenderer_GivesUpAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"", ""}}
	renderer, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = renderer.Render(context.Background(), orchestrator.NewSession(testsupport.TierSchema()), render.RenderOptions{})
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRenderer_PrettyOutputAndUnavailableForm(t *testing.T) {
	t.Parallel()

	driver := &stubDriver{inputs: []string{"Alice"}, selectIdx: []int{1}}
	renderer, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.ContentType() != "text/plain; charset=utf-8" {
		t.Fatalf("unexpected content type %s", renderer.ContentType())
	}

	out, err := renderer.Render(context.Background(), orchestrator.NewSession(testsupport.TierSchema()), render.RenderOptions{Currency: "$"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if want := "Name: Alice\nTier: Basic\nTotal: 0.00$\n"; string(out) != want {
		t.Fatalf("pretty output mismatch\nwant: %q\n got: %q", want, out)
	}

	out, err = renderer.Render(context.Background(), orchestrator.NewSession(nil), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render unavailable: %v", err)
	}
	if string(out) != "Total: 0.00€\n" {
		t.Fatalf("unexpected output %q", out)
	}
	if driver.messages[len(driver.messages)-1] != "No form configuration is available." {
		t.Fatalf("expected notice, got %v", driver.messages)
	}
}

func TestRenderer_RenderSummary(t *testing.T) {
	t.Parallel()

	renderer, err := New(WithPromptDriver(&stubDriver{}))
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
	want := "== Account ==\nFull name: Alice\n== Plan ==\nTier: Pro (+20.00€)\n"
	if string(out) != want {
		t.Fatalf("summary mismatch\nwant: %q\n got: %q", want, out)
	}

	empty, err := renderer.RenderSummary(context.Background(), summary.Summary{}, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render empty summary: %v", err)
	}
	if string(empty) != "No details provided.\n" {
		t.Fatalf("unexpected empty summary %q", empty)
	}
}

func TestPlainTextStripsMarkup(t *testing.T) {
	t.Parallel()

	got := plainText(`We send the <strong>licence key</strong> here &amp; now.<script>alert(1)</script>`)
	if got != "We send the licence key here & now." {
		t.Fatalf("unexpected plain text %q", got)
	}
}
