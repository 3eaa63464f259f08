package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/bata-cart/internal/core/domain"
)

type fixture struct {
	storage  *mockStorage
	renderer *mockRenderer
	notifier *mockNotifier
	store    *CartStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		storage:  newMockStorage(),
		renderer: &mockRenderer{},
		notifier: &mockNotifier{},
	}
	f.store = NewCartStore(f.storage, "profile-1", f.renderer, f.notifier)
	_, err := f.store.Load(context.Background())
	require.NoError(t, err)
	return f
}

func TestAdd_DistinctIDs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prices := []float64{10, 2.5, 99.99, 0, 7}
	var want float64
	for i, price := range prices {
		require.NoError(t, f.store.Add(ctx, fmt.Sprintf("p%d", i), "item", price))
		want += price
	}

	assert.Equal(t, len(prices), f.store.Count())
	assert.InDelta(t, want, f.store.Total(), 1e-9)
	for _, item := range f.store.Items() {
		assert.Equal(t, 1, item.Quantity)
	}
}

func TestAdd_SameIDIncrements(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))

	want := []domain.LineItem{{ID: "p1", Name: "Boot", Price: 50, Quantity: 2}}
	if diff := cmp.Diff(want, f.store.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestAdd_KeepsPriceFromFirstAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 65))

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 50.0, items[0].Price)
	assert.Equal(t, 100.0, f.store.Total())
}

func TestAdd_NotifiesAndRenders(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.Add(context.Background(), "p1", "Boot", 50))

	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "Boot added to cart!", f.notifier.messages[0].Message)
	assert.Equal(t, domain.NotificationSuccess, f.notifier.messages[0].Kind)

	require.Len(t, f.renderer.views, 1)
	assert.Equal(t, 1, f.renderer.views[0].Count)
	assert.Equal(t, "50.00", f.renderer.views[0].Total)
}

func TestAdd_RejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		price float64
	}{
		{name: "empty id", id: "", price: 1},
		{name: "negative price", id: "p1", price: -1},
		{name: "NaN price", id: "p1", price: math.NaN()},
		{name: "infinite price", id: "p1", price: math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			err := f.store.Add(context.Background(), tt.id, "x", tt.price)
			assert.True(t, errors.Is(err, ErrInvalidItem), "got %v", err)
			assert.Empty(t, f.store.Items())
			assert.Zero(t, f.storage.writeCount())
			assert.Empty(t, f.renderer.views)
		})
	}
}

func TestScenario_AddThreeTimes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p2", "Sandal", 20))
	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))

	want := []domain.LineItem{
		{ID: "p1", Name: "Boot", Price: 50, Quantity: 2},
		{ID: "p2", Name: "Sandal", Price: 20, Quantity: 1},
	}
	if diff := cmp.Diff(want, f.store.Items()); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "120.00", domain.FormatPrice(f.store.Total()))
	assert.Equal(t, 3, f.store.Count())
}

func TestScenario_DecrementToEmpty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))

	require.NoError(t, f.store.ChangeQuantity(ctx, 0, -1))
	assert.Equal(t, []domain.LineItem{{ID: "p1", Name: "Boot", Price: 50, Quantity: 1}}, f.store.Items())

	require.NoError(t, f.store.ChangeQuantity(ctx, 0, -1))
	assert.Empty(t, f.store.Items())

	raw, ok := f.storage.raw("profile-1")
	require.True(t, ok)
	assert.JSONEq(t, `[]`, raw)
}

func TestChangeQuantity_Increase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.ChangeQuantity(ctx, 0, 1))

	assert.Equal(t, 2, f.store.Count())
	assert.Len(t, f.renderer.views, 2)
}

func TestChangeQuantity_LargeNegativeRemoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p2", "Sandal", 20))
	require.NoError(t, f.store.ChangeQuantity(ctx, 0, -5))

	items := f.store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)
}

func TestQuantity_SaturatesAtMaxInt(t *testing.T) {
	ctx := context.Background()
	storage := newMockStorage()
	raw := fmt.Sprintf(`[{"id":"p1","name":"Boot","price":50,"quantity":%d}]`, math.MaxInt)
	require.NoError(t, storage.SetItem(ctx, "p", domain.StorageKey, raw))

	renderer := &mockRenderer{}
	notifier := &mockNotifier{}
	store := NewCartStore(storage, "p", renderer, notifier)
	_, err := store.Load(ctx)
	require.NoError(t, err)
	writes := storage.writes

	require.NoError(t, store.ChangeQuantity(ctx, 0, 1))
	require.NoError(t, store.ChangeItemQuantity(ctx, "p1", math.MaxInt))
	require.NoError(t, store.Add(ctx, "p1", "Boot", 50))

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, math.MaxInt, items[0].Quantity)
	assert.Equal(t, writes, storage.writes, "saturated item is not rewritten")
	assert.Empty(t, notifier.messages)
	assert.Empty(t, renderer.views)

	require.NoError(t, store.ChangeQuantity(ctx, 0, -1))
	assert.Equal(t, math.MaxInt-1, store.Items()[0].Quantity)
}

func TestIndexOperations_OutOfRangeAreNoops(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	before := f.store.Items()
	writes := f.storage.writeCount()
	renders := len(f.renderer.views)

	for _, index := range []int{-1, 1, 42} {
		require.NoError(t, f.store.Remove(ctx, index))
		require.NoError(t, f.store.ChangeQuantity(ctx, index, -1))
		require.NoError(t, f.store.ChangeQuantity(ctx, index, 1))
	}

	assert.Equal(t, before, f.store.Items())
	assert.Equal(t, writes, f.storage.writeCount(), "no-ops must not persist")
	assert.Equal(t, renders, len(f.renderer.views), "no-ops must not render")
}

func TestRemove_ByIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p2", "Sandal", 20))
	require.NoError(t, f.store.Add(ctx, "p3", "Loafer", 70))

	require.NoError(t, f.store.Remove(ctx, 1))

	ids := []string{}
	for _, item := range f.store.Items() {
		ids = append(ids, item.ID)
	}
	assert.Equal(t, []string{"p1", "p3"}, ids)
}

func TestIDOperations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p2", "Sandal", 20))

	require.NoError(t, f.store.ChangeItemQuantity(ctx, "p2", 2))
	assert.Equal(t, 4, f.store.Count())

	require.NoError(t, f.store.RemoveItem(ctx, "p1"))
	assert.Equal(t, []domain.LineItem{{ID: "p2", Name: "Sandal", Price: 20, Quantity: 3}}, f.store.Items())

	writes := f.storage.writeCount()
	require.NoError(t, f.store.RemoveItem(ctx, "missing"))
	require.NoError(t, f.store.ChangeItemQuantity(ctx, "missing", 1))
	assert.Equal(t, writes, f.storage.writeCount())

	require.NoError(t, f.store.ChangeItemQuantity(ctx, "p2", -3))
	assert.Empty(t, f.store.Items())
}

func TestPersistThenLoad_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p2", "Sandal", 19.99))
	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Add(ctx, "p3", "Loafer", 0.1))
	require.NoError(t, f.store.Persist(ctx))

	fresh := NewCartStore(f.storage, "profile-1", nil, nil)
	cart, err := fresh.Load(ctx)
	require.NoError(t, err)

	if diff := cmp.Diff(f.store.Items(), cart.Items); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPersist_WireFormat(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.store.Add(context.Background(), "p1", "Boot", 50))

	raw, ok := f.storage.raw("profile-1")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"p1","name":"Boot","price":50,"quantity":1}]`, raw)
}

func TestLoad_MissingOrMalformedIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
	}{
		{name: "absent"},
		{name: "not json", raw: ptr("{oops")},
		{name: "object instead of array", raw: ptr(`{"id":"p1"}`)},
		{name: "null", raw: ptr("null")},
		{name: "empty string", raw: ptr("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := newMockStorage()
			if tt.raw != nil {
				require.NoError(t, storage.SetItem(context.Background(), "p", domain.StorageKey, *tt.raw))
			}

			cart, err := NewCartStore(storage, "p", nil, nil).Load(context.Background())
			require.NoError(t, err)
			assert.True(t, cart.Empty())
		})
	}
}

func TestLoad_DropsInvalidEntries(t *testing.T) {
	storage := newMockStorage()
	raw := `[
		{"id":"p1","name":"Boot","price":50,"quantity":2},
		{"id":"","name":"NoID","price":1,"quantity":1},
		{"id":"p2","name":"Neg","price":-3,"quantity":1},
		{"id":"p3","name":"Zero","price":3,"quantity":0},
		{"id":"p1","name":"Dup","price":9,"quantity":1},
		{"id":"p4","name":"Sandal","price":20,"quantity":1}
	]`
	require.NoError(t, storage.SetItem(context.Background(), "p", domain.StorageKey, raw))

	cart, err := NewCartStore(storage, "p", nil, nil).Load(context.Background())
	require.NoError(t, err)

	want := []domain.LineItem{
		{ID: "p1", Name: "Boot", Price: 50, Quantity: 2},
		{ID: "p4", Name: "Sandal", Price: 20, Quantity: 1},
	}
	if diff := cmp.Diff(want, cart.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_StorageFailure(t *testing.T) {
	storage := newMockStorage()
	storage.getErr = errStorageDown

	_, err := NewCartStore(storage, "p", nil, nil).Load(context.Background())
	assert.ErrorIs(t, err, errStorageDown)
}

func TestAdd_PersistFailureIsReturned(t *testing.T) {
	f := newFixture(t)
	f.storage.setErr = errStorageDown

	err := f.store.Add(context.Background(), "p1", "Boot", 50)
	assert.ErrorIs(t, err, errStorageDown)
	assert.Empty(t, f.notifier.messages)
	assert.Empty(t, f.renderer.views)
}

func TestCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Checkout(ctx)
	assert.ErrorIs(t, err, ErrEmptyCart)
	require.Len(t, f.notifier.messages, 1)
	assert.Equal(t, "Your cart is empty!", f.notifier.messages[0].Message)
	assert.Equal(t, domain.NotificationError, f.notifier.messages[0].Kind)

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	location, err := f.store.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultCheckoutPath, location)
}

func TestCheckout_CustomPath(t *testing.T) {
	storage := newMockStorage()
	store := NewCartStore(storage, "p", nil, nil, WithCheckoutPath("/checkout"))
	require.NoError(t, store.Add(context.Background(), "p1", "Boot", 50))

	location, err := store.Checkout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/checkout", location)
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.store.Add(ctx, "p1", "Boot", 50))
	require.NoError(t, f.store.Clear(ctx))

	assert.Empty(t, f.store.Items())
	_, ok := f.storage.raw("profile-1")
	assert.False(t, ok)
	assert.True(t, f.renderer.views[len(f.renderer.views)-1].Empty)
}

func TestItems_ReturnsCopy(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Add(context.Background(), "p1", "Boot", 50))

	items := f.store.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, f.store.Count())
}

func ptr(s string) *string {
	return &s
}
