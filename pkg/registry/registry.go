// Package registry stores product form schemas behind an explicitly
// constructed Registry. Nothing is loaded at package init; hosts build one
// registry with the store they want and pass it where schemas are needed.
package registry

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/schema"
)

// EventType names a registry change.
type EventType string

const (
	EventRegistered EventType = "schema.registered"
	EventRemoved    EventType = "schema.removed"
)

// Event describes a change to a product's schema.
type Event struct {
	Type      EventType `json:"type"`
	ProductID string    `json:"productId"`
	At        time.Time `json:"at"`
}

// Notifier publishes registry events.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, event Event) error

// Notify calls fn.
func (fn NotifierFunc) Notify(ctx context.Context, event Event) error {
	return fn(ctx, event)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger. The default discards output.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithNotifier publishes an event after every successful change.
func WithNotifier(notifier Notifier) Option {
	return func(r *Registry) {
		r.notifier = notifier
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry validates schemas on the way in and decodes them leniently on the
// way out.
type Registry struct {
	store    Store
	logger   logrus.FieldLogger
	notifier Notifier
	now      func() time.Time
}

// New builds a registry over store.
func New(store Store, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, errors.New("registry: store is required")
	}
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	r := &Registry{
		store:  store,
		logger: discard,
		now:    time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// Register validates raw (JSON or YAML) and stores it as JSON for
// productID. Invalid documents are rejected with a *validation.SchemaError
// and nothing is stored.
func (r *Registry) Register(ctx context.Context, productID string, raw []byte) (*model.Schema, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, errors.New("registry: product id is required")
	}
	data, err := schema.ToJSON(raw)
	if err != nil {
		return nil, err
	}
	parsed, err := schema.Parse(data)
	if err != nil {
		r.logger.WithField("product_id", productID).WithError(err).Info("schema rejected")
		return nil, err
	}

	record := Record{ProductID: productID, Schema: data, UpdatedAt: r.now().UTC()}
	if err := r.store.Put(ctx, record); err != nil {
		return nil, err
	}
	r.logger.WithField("product_id", productID).Debug("schema registered")
	r.publish(ctx, Event{Type: EventRegistered, ProductID: productID, At: record.UpdatedAt})
	return parsed, nil
}

// Lookup returns the schema stored for productID. Stored documents are
// decoded leniently: entries that became unusable are dropped and logged.
func (r *Registry) Lookup(ctx context.Context, productID string) (*model.Schema, error) {
	record, err := r.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	decoded, warnings := schema.DecodeLenient(record.Schema)
	for _, warning := range warnings {
		r.logger.WithField("product_id", productID).Warn(warning)
	}
	if decoded == nil {
		return nil, errors.New("registry: stored schema for " + productID + " cannot be decoded")
	}
	return decoded, nil
}

// Raw returns the stored JSON document.
func (r *Registry) Raw(ctx context.Context, productID string) ([]byte, error) {
	record, err := r.store.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	return record.Schema, nil
}

// Remove deletes the schema for productID.
func (r *Registry) Remove(ctx context.Context, productID string) error {
	if err := r.store.Delete(ctx, productID); err != nil {
		return err
	}
	r.logger.WithField("product_id", productID).Debug("schema removed")
	r.publish(ctx, Event{Type: EventRemoved, ProductID: productID, At: r.now().UTC()})
	return nil
}

// Products lists the product ids with a stored schema.
func (r *Registry) Products(ctx context.Context) ([]string, error) {
	return r.store.List(ctx)
}

// publish never fails the caller: the change is already stored.
func (r *Registry) publish(ctx context.Context, event Event) {
	if r.notifier == nil {
		return
	}
	if err := r.notifier.Notify(ctx, event); err != nil {
		r.logger.WithFields(logrus.Fields{
			"product_id": event.ProductID,
			"event":      event.Type,
		}).WithError(err).Warn("schema event not published")
	}
}
