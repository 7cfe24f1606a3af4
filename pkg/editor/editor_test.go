package editor_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formbuilder/pkg/editor"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
)

func TestNewSeedsPrettyText(t *testing.T) {
	t.Parallel()

	ed, err := editor.New(testsupport.TierSchema())
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	if !strings.HasPrefix(ed.Text(), "{\n  \"sections\": [") {
		t.Fatalf("expected indented draft, got:\n%s", ed.Text())
	}
	if !ed.Status().Valid || ed.Dirty() {
		t.Fatalf("fresh editor should be valid and clean: %+v", ed.Status())
	}
	if ed.Schema() == nil || len(ed.Schema().Fields()) != 2 {
		t.Fatalf("initial schema should be committed")
	}

	empty, err := editor.New(nil)
	if err != nil {
		t.Fatalf("new empty editor: %v", err)
	}
	if empty.Text() != "{\n  \"sections\": []\n}" {
		t.Fatalf("unexpected empty draft %q", empty.Text())
	}
}

func TestSetTextStatuses(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		want editor.Status
	}{
		{
			name: "syntax error",
			text: `{"sections": [`,
			want: editor.Status{Message: "Invalid JSON: unexpected end of JSON input"},
		},
		{
			name: "missing sections",
			text: `{"fields": []}`,
			want: editor.Status{Message: `Schema must have a "sections" array`, Path: "sections"},
		},
		{
			name: "bad width",
			text: `{"sections":[{"id":1,"name":"S","width":33,"fields":[]}]}`,
			want: editor.Status{Message: "Section 1 has invalid width 33. Must be one of 25, 50, 75, 100", Path: "sections.0.width"},
		},
		{
			name: "valid",
			text: `{"sections":[{"id":1,"name":"S","width":50,"fields":[]}]}`,
			want: editor.Status{Valid: true},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ed, err := editor.New(nil)
			if err != nil {
				t.Fatalf("new editor: %v", err)
			}
			if diff := cmp.Diff(tc.want, ed.SetText(tc.text)); diff != "" {
				t.Fatalf("status mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.want, ed.Status()); diff != "" {
				t.Fatalf("stored status mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOnlyValidDraftsCommit(t *testing.T) {
	t.Parallel()

	var commits []*model.Schema
	ed, err := editor.New(nil, editor.WithCommitListener(func(s *model.Schema) {
		commits = append(commits, s)
	}))
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	ed.SetText(`{"sections":[{"id":"a","name":"A","width":100,"fields":[{"type":"text","name":"n","label":"N"}]}]}`)
	if len(commits) != 1 || ed.Schema() != commits[0] {
		t.Fatalf("expected one commit, got %d", len(commits))
	}

	ed.SetText(`{"sections":[{"id":"a","name":"A","width":100,"fields":[{"type":"color","name":"n","label":"N"}]}]}`)
	if len(commits) != 1 {
		t.Fatalf("invalid draft must not commit")
	}
	if !ed.Dirty() {
		t.Fatalf("rejected draft should leave the editor dirty")
	}
	if _, ok := ed.Schema().Field("n"); !ok {
		t.Fatalf("committed schema should survive an invalid draft")
	}

	status := ed.Reset()
	if !status.Valid || ed.Dirty() {
		t.Fatalf("reset should restore the committed draft: %+v", status)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	ed, err := editor.New(nil)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}

	ed.SetText(`{"sections":[{"width":33}],"z":1}`)
	if err := ed.Format(); err != nil {
		t.Fatalf("format schema-invalid json: %v", err)
	}
	want := "{\n  \"sections\": [\n    {\n      \"width\": 33\n    }\n  ],\n  \"z\": 1\n}"
	if ed.Text() != want {
		t.Fatalf("format mismatch\nwant:\n%s\n got:\n%s", want, ed.Text())
	}

	ed.SetText(`{"sections":`)
	if err := ed.Format(); !errors.Is(err, editor.ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if ed.Text() != `{"sections":` {
		t.Fatalf("failed format must keep the draft")
	}
}

func TestFormatKeepsCleanDraftClean(t *testing.T) {
	t.Parallel()

	ed, err := editor.New(nil)
	if err != nil {
		t.Fatalf("new editor: %v", err)
	}
	ed.SetText(`{"sections":[]}`)
	if err := ed.Format(); err != nil {
		t.Fatalf("format: %v", err)
	}
	if ed.Dirty() {
		t.Fatalf("formatting the committed draft should not mark it dirty")
	}
}
