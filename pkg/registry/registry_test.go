package registry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formbuilder/pkg/registry"
	"github.com/goliatone/go-formbuilder/pkg/testsupport"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

func fixedClock() time.Time {
	return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	t.Parallel()

	var events []registry.Event
	reg, err := registry.New(registry.NewMemoryStore(),
		registry.WithClock(fixedClock),
		registry.WithNotifier(registry.NotifierFunc(func(_ context.Context, event registry.Event) error {
			events = append(events, event)
			return nil
		})),
	)
	require.NoError(t, err)

	ctx := context.Background()
	parsed, err := reg.Register(ctx, "sku-1", testsupport.MustFixture(t, testsupport.CheckoutYAMLFixture))
	require.NoError(t, err)
	assert.Len(t, parsed.Sections, 1)

	raw, err := reg.Raw(ctx, "sku-1")
	require.NoError(t, err)
	assert.True(t, validation.ValidateSchemaJSON(raw).Valid, "yaml should be stored as json")

	looked, err := reg.Lookup(ctx, "sku-1")
	require.NoError(t, err)
	_, ok := looked.Field("tier")
	assert.True(t, ok)

	ids, err := reg.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sku-1"}, ids)

	require.NoError(t, reg.Remove(ctx, "sku-1"))
	_, err = reg.Lookup(ctx, "sku-1")
	assert.ErrorIs(t, err, registry.ErrNotFound)

	require.Len(t, events, 2)
	assert.Equal(t, registry.Event{Type: registry.EventRegistered, ProductID: "sku-1", At: fixedClock()}, events[0])
	assert.Equal(t, registry.EventRemoved, events[1].Type)
}

func TestRegistryRejectsInvalidSchema(t *testing.T) {
	t.Parallel()

	store := registry.NewMemoryStore()
	reg, err := registry.New(store)
	require.NoError(t, err)

	_, err = reg.Register(context.Background(), "sku-2", []byte(`{"sections":[{"id":1,"name":"S","width":33,"fields":[]}]}`))
	var schemaErr *validation.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Contains(t, schemaErr.Result.Error, "invalid width")

	_, err = store.Get(context.Background(), "sku-2")
	assert.ErrorIs(t, err, registry.ErrNotFound, "rejected schemas must not be stored")

	_, err = reg.Register(context.Background(), "  ", []byte(`{"sections":[]}`))
	assert.Error(t, err)
}

func TestRegistryLookupIsLenient(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	store := registry.NewMemoryStore()
	require.NoError(t, store.Put(context.Background(), registry.Record{
		ProductID: "legacy",
		Schema:    testsupport.MustFixture(t, testsupport.MalformedFixture),
	}))

	reg, err := registry.New(store, registry.WithLogger(logger))
	require.NoError(t, err)

	decoded, err := reg.Lookup(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Len(t, decoded.Fields(), 2)

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
			assert.Equal(t, "legacy", entry.Data["product_id"])
		}
	}
	assert.Equal(t, 5, warnings)
}

func TestRegistryNotifierFailureDoesNotFailRegister(t *testing.T) {
	t.Parallel()

	logger, hook := test.NewNullLogger()
	reg, err := registry.New(registry.NewMemoryStore(),
		registry.WithLogger(logger),
		registry.WithNotifier(registry.NotifierFunc(func(context.Context, registry.Event) error {
			return errors.New("broker down")
		})),
	)
	require.NoError(t, err)

	_, err = reg.Register(context.Background(), "sku-3", []byte(`{"sections":[]}`))
	require.NoError(t, err)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestNewRequiresStore(t *testing.T) {
	t.Parallel()

	_, err := registry.New(nil)
	assert.Error(t, err)
}

func TestMemoryStoreCopiesPayloads(t *testing.T) {
	t.Parallel()

	store := registry.NewMemoryStore()
	payload := []byte(`{"sections":[]}`)
	require.NoError(t, store.Put(context.Background(), registry.Record{ProductID: "a", Schema: payload}))
	payload[0] = 'X'

	record, err := store.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, byte('{'), record.Schema[0])
	assert.ErrorIs(t, store.Delete(context.Background(), "missing"), registry.ErrNotFound)
}
