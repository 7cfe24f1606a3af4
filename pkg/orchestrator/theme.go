package orchestrator

import (
	"errors"
	"fmt"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formbuilder/pkg/renderers/vanilla"
)

// Partial keys understood by the built-in renderers.
const (
	ThemePartialForm    = vanilla.PartialForm
	ThemePartialSummary = vanilla.PartialSummary
)

func defaultThemeFallbacks() map[string]string {
	return map[string]string{
		ThemePartialForm:    vanilla.FormTemplate,
		ThemePartialSummary: vanilla.SummaryTemplate,
	}
}

func (o *Orchestrator) resolveTheme(name, variant string) (*theme.RendererConfig, error) {
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	if selection == nil {
		return nil, errors.New("orchestrator: theme selector returned no selection")
	}
	return rendererConfig(selection, o.themeFallbacks), nil
}

// rendererConfig flattens a selection: fallbacks, then manifest templates,
// then variant templates. Variant tokens override manifest tokens.
func rendererConfig(selection *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: make(map[string]string, len(fallbacks)),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	for key, value := range fallbacks {
		cfg.Partials[key] = value
	}

	assets := map[string]string{}
	prefix := ""
	if manifest := selection.Manifest; manifest != nil {
		mergeStrings(cfg.Partials, manifest.Templates)
		mergeStrings(cfg.Tokens, manifest.Tokens)
		mergeStrings(assets, manifest.Assets.Files)
		prefix = manifest.Assets.Prefix

		if v, ok := manifest.Variants[selection.Variant]; ok {
			mergeStrings(cfg.Partials, v.Templates)
			mergeStrings(cfg.Tokens, v.Tokens)
			mergeStrings(assets, v.Assets.Files)
			if v.Assets.Prefix != "" {
				prefix = v.Assets.Prefix
			}
		}
	}

	for token, value := range cfg.Tokens {
		cfg.CSSVars["--"+token] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := assets[key]
		if !ok || file == "" {
			return ""
		}
		if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") || prefix == "" {
			return file
		}
		return path.Join(prefix, file)
	}
	return cfg
}

func mergeStrings(dst, src map[string]string) {
	for key, value := range src {
		if value != "" {
			dst[key] = value
		}
	}
}
