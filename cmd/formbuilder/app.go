package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/renderers/tui"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

const usage = `Usage: formbuilder [-log-level level] <command> [flags] <file>

Commands:
  lint     check schema documents and report the first problem of each
  fmt      pretty-print a JSON schema document
  fill     fill a form interactively in the terminal
  summary  print read-only rows for submitted data
  render   render a form as HTML
  openapi  export submission contracts as an OpenAPI document
`

// errUsage signals a command line mistake; the command already printed why.
var errUsage = errors.New("usage")

type command func(ctx context.Context, args []string) error

type app struct {
	stdout io.Writer
	stderr io.Writer
	logger *logrus.Logger
	// driver overrides the terminal prompts used by fill.
	driver tui.PromptDriver
}

func newApp(stdout, stderr io.Writer) *app {
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	return &app{stdout: stdout, stderr: stderr, logger: logger}
}

func (a *app) run(ctx context.Context, args []string) int {
	global := flag.NewFlagSet("formbuilder", flag.ContinueOnError)
	global.SetOutput(a.stderr)
	global.Usage = func() { fmt.Fprint(a.stderr, usage) }
	level := global.String("log-level", "warn", "log level (debug, info, warn, error)")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if parsed, err := logrus.ParseLevel(*level); err == nil {
		a.logger.SetLevel(parsed)
	} else {
		a.logger.WithError(err).Warn("unknown log level, keeping warn")
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return 2
	}

	commands := map[string]command{
		"lint":    a.lint,
		"fmt":     a.format,
		"fill":    a.fill,
		"summary": a.summary,
		"render":  a.render,
		"openapi": a.openapi,
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", rest[0])
		global.Usage()
		return 2
	}

	if err := cmd(ctx, rest[1:]); err != nil {
		if errors.Is(err, errUsage) {
			return 2
		}
		a.logger.WithField("command", rest[0]).Error(err)
		return 1
	}
	return 0
}

func (a *app) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parseFlags parses args and returns the single positional file argument.
func (a *app) parseFlags(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", errUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(a.stderr, "%s: expected exactly one schema file\n", fs.Name())
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func (a *app) loadSchema(ctx context.Context, path string) (*model.Schema, error) {
	doc, err := schema.Load(ctx, schema.SourceFromFile(path), nil)
	if err != nil {
		return nil, err
	}
	parsed, err := doc.Schema()
	if err != nil {
		return nil, err
	}
	a.logger.WithFields(logrus.Fields{
		"file":     path,
		"sections": len(parsed.Sections),
		"fields":   len(parsed.Fields()),
	}).Debug("schema loaded")
	return parsed, nil
}

// loadData reads submission data from a JSON file, or inline JSON when the
// value starts with "{".
func loadData(value string) (model.SubmissionData, error) {
	if strings.TrimSpace(value) == "" {
		return model.SubmissionData{}, nil
	}
	raw := []byte(value)
	if !strings.HasPrefix(strings.TrimSpace(value), "{") {
		data, err := os.ReadFile(value)
		if err != nil {
			return nil, fmt.Errorf("read data: %w", err)
		}
		raw = data
	}
	var out model.SubmissionData
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	if out == nil {
		out = model.SubmissionData{}
	}
	return out, nil
}

func (a *app) write(output string, payload []byte) error {
	if output == "" {
		_, err := a.stdout.Write(payload)
		return err
	}
	if err := os.WriteFile(output, payload, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	a.logger.WithField("file", output).Info("output written")
	return nil
}

// componentName derives an OpenAPI component name from a file path.
func componentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
