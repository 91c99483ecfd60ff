package service

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
)

// fakeCartStore is an in-memory CartStore.
type fakeCartStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.CartItem
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{rows: map[uint64]*model.CartItem{}}
}

func (f *fakeCartStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeCartStore) ItemByProductForUpdate(_ context.Context, clientID, productServiceID uint64) (*model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.rows {
		if it.ClientID == clientID && it.ProductServiceID == productServiceID {
			cp := *it
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCartStore) Insert(_ context.Context, item *model.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	item.ID = f.nextID
	cp := *item
	f.rows[item.ID] = &cp
	return nil
}

func (f *fakeCartStore) AddQuantity(_ context.Context, id uint64, delta int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	it.Quantity += delta
	return nil
}

func (f *fakeCartStore) SetQuantity(_ context.Context, id, clientID uint64, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok || it.ClientID != clientID {
		return sql.ErrNoRows
	}
	it.Quantity = quantity
	return nil
}

func (f *fakeCartStore) Remove(_ context.Context, id, clientID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.rows[id]
	if !ok || it.ClientID != clientID {
		return sql.ErrNoRows
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeCartStore) Clear(_ context.Context, clientID uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, it := range f.rows {
		if it.ClientID == clientID {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeCartStore) ItemsByClient(_ context.Context, clientID uint64) ([]model.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.CartItem, 0)
	for _, it := range f.rows {
		if it.ClientID == clientID {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (f *fakeCartStore) ItemsForUpdate(ctx context.Context, clientID uint64) ([]model.CartItem, error) {
	return f.ItemsByClient(ctx, clientID)
}

// fakeOrderStore is an in-memory OrderStore.
type fakeOrderStore struct {
	mu     sync.Mutex
	nextID uint64
	orders map[uint64]*model.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[uint64]*model.Order{}}
}

func (f *fakeOrderStore) Create(_ context.Context, o *model.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	o.ID = f.nextID
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderStore) CreateItems(_ context.Context, items []model.OrderItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		o, ok := f.orders[it.OrderID]
		if !ok {
			return sql.ErrNoRows
		}
		o.Items = append(o.Items, it)
	}
	return nil
}

func (f *fakeOrderStore) Get(_ context.Context, id uint64) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderStore) List(_ context.Context, clientID uint64) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Order, 0)
	for _, o := range f.orders {
		if clientID == 0 || o.ClientID == clientID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderStore) SetStatus(_ context.Context, id uint64, status model.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	o.Status = status
	return nil
}

func newCheckout() (*CheckoutService, *fakeCartStore, *fakeOrderStore, *fakeCatalog) {
	carts := newFakeCartStore()
	orders := newFakeOrderStore()
	catalog := washCatalog()
	return NewCheckoutService(carts, orders, catalog), carts, orders, catalog
}

func TestAddToCartMergesAndKeepsPriceSnapshot(t *testing.T) {
	svc, _, _, catalog := newCheckout()
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, 1, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 9.5, item.PriceAtAdd)

	// The catalog price changes after the item entered the cart.
	catalog.entries[2] = model.CatalogEntry{ID: 2, Price: 14, Kind: model.KindProduct}

	merged, err := svc.AddToCart(ctx, 1, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, item.ID, merged.ID)
	assert.Equal(t, 5, merged.Quantity)
	assert.Equal(t, 9.5, merged.PriceAtAdd)

	// A different client adding the same product now gets the new price.
	other, err := svc.AddToCart(ctx, 2, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 14.0, other.PriceAtAdd)
}

func TestAddToCartValidation(t *testing.T) {
	svc, _, _, _ := newCheckout()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 2, 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddToCart(ctx, 1, 2, -3)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = svc.AddToCart(ctx, 1, 99, 1)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestConvertPricesOrderFromSnapshots(t *testing.T) {
	svc, carts, _, catalog := newCheckout()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 1, 1) // service at 25
	require.NoError(t, err)
	_, err = svc.AddToCart(ctx, 1, 2, 3) // product at 9.5
	require.NoError(t, err)

	// Price changes between add and checkout must not affect the order.
	catalog.entries[1] = model.CatalogEntry{ID: 1, Price: 99, Kind: model.KindService}

	pm := "card"
	order, err := svc.Convert(ctx, 1, &pm)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.Number, "ORD-"))
	assert.Equal(t, model.OrderPending, order.Status)
	assert.InDelta(t, 25+3*9.5, order.Total, 1e-9)
	require.Len(t, order.Items, 2)
	require.NotNil(t, order.PaymentMethod)
	assert.Equal(t, "card", *order.PaymentMethod)

	var itemSum float64
	for _, it := range order.Items {
		itemSum += it.Subtotal
	}
	assert.InDelta(t, order.Total, itemSum, 1e-9)

	// The cart is emptied by the conversion.
	left, err := svc.Items(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Empty(t, carts.rows)
}

func TestConvertEmptyCart(t *testing.T) {
	svc, _, orders, _ := newCheckout()

	_, err := svc.Convert(context.Background(), 1, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orders.orders)
}

func TestUpdateItemAndRemoveItemOwnership(t *testing.T) {
	svc, _, _, _ := newCheckout()
	ctx := context.Background()

	item, err := svc.AddToCart(ctx, 1, 2, 1)
	require.NoError(t, err)

	// Another client cannot touch the row.
	assert.ErrorIs(t, svc.UpdateItem(ctx, 2, item.ID, 5), ErrNotFound)
	assert.ErrorIs(t, svc.RemoveItem(ctx, 2, item.ID), ErrNotFound)

	require.NoError(t, svc.UpdateItem(ctx, 1, item.ID, 5))
	assert.ErrorIs(t, svc.UpdateItem(ctx, 1, item.ID, 0), ErrInvalidQuantity)
	require.NoError(t, svc.RemoveItem(ctx, 1, item.ID))
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, _, _, _ := newCheckout()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, 2, 1)
	require.NoError(t, err)
	order, err := svc.Convert(ctx, 1, nil)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateOrderStatus(ctx, order.ID, model.OrderPaid))
	got, err := svc.Order(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPaid, got.Status)

	assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, order.ID, model.OrderStatus("shipped")), ErrInvalidStatus)
	assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, 999, model.OrderPaid), ErrNotFound)
}
