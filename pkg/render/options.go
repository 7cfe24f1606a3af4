package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without touching the session.
type RenderOptions struct {
	// Action and Method end up on the HTML <form> element. Method defaults to
	// POST.
	Action string
	Method string
	// Hidden fields are emitted alongside the visible controls (session id,
	// CSRF token).
	Hidden []HiddenField
	// FormErrors are messages that belong to no single field, typically from
	// MapErrorPayload.
	FormErrors []string
	// FieldErrors overlay server side messages on top of the session's own
	// errors. Session errors win when both exist.
	FieldErrors map[string]string
	// Currency is the symbol appended to prices. Defaults to "€".
	Currency string
	// Theme carries the resolved go-theme selection. Nil renders unthemed.
	Theme *theme.RendererConfig
}

// DefaultCurrency is used when RenderOptions.Currency is empty.
const DefaultCurrency = "€"

// CurrencyOrDefault returns the configured currency symbol.
func (o RenderOptions) CurrencyOrDefault() string {
	if o.Currency == "" {
		return DefaultCurrency
	}
	return o.Currency
}
