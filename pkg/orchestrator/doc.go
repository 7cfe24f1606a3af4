// Package orchestrator coordinates one form render session: it owns the
// submission data, runs validation on blur, reprices on every change and
// produces the render plan. Orchestrator adds the host-facing wiring around
// sessions: schema lookup, transformers, renderer selection and themes.
package orchestrator
