package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/car-wash-backoffice/internal/model"
	"github.com/iliyamo/car-wash-backoffice/internal/utils"
)

// CartStore is the storage surface the checkout service needs for cart
// rows.  It is satisfied by repository.CartRepo.
type CartStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	ItemByProductForUpdate(ctx context.Context, clientID, productServiceID uint64) (*model.CartItem, error)
	Insert(ctx context.Context, item *model.CartItem) error
	AddQuantity(ctx context.Context, id uint64, delta int) error
	SetQuantity(ctx context.Context, id, clientID uint64, quantity int) error
	Remove(ctx context.Context, id, clientID uint64) error
	Clear(ctx context.Context, clientID uint64) error
	ItemsByClient(ctx context.Context, clientID uint64) ([]model.CartItem, error)
	ItemsForUpdate(ctx context.Context, clientID uint64) ([]model.CartItem, error)
}

// OrderStore is the storage surface the checkout service needs for
// orders.  It is satisfied by repository.OrderRepo.  Its write methods
// participate in the transaction opened on the cart store: both repos
// share one database and pick the transaction up from the context.
type OrderStore interface {
	Create(ctx context.Context, o *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	Get(ctx context.Context, id uint64) (*model.Order, error)
	List(ctx context.Context, clientID uint64) ([]model.Order, error)
	SetStatus(ctx context.Context, id uint64, status model.OrderStatus) error
}

// CheckoutService owns the shopping cart and its conversion into an
// order.  Prices are snapshotted when an item first enters the cart
// and that snapshot is what the order is priced from, regardless of
// later catalog changes.
type CheckoutService struct {
	carts   CartStore
	orders  OrderStore
	catalog Catalog
}

// NewCheckoutService returns a CheckoutService backed by the given stores.
func NewCheckoutService(carts CartStore, orders OrderStore, catalog Catalog) *CheckoutService {
	return &CheckoutService{carts: carts, orders: orders, catalog: catalog}
}

// AddToCart puts quantity units of a catalog entry into the client's
// cart.  Adding an entry already present merges into the existing row:
// the quantity grows but the original price snapshot is kept.
func (s *CheckoutService) AddToCart(ctx context.Context, clientID, productServiceID uint64, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	entry, err := s.catalog.Resolve(ctx, productServiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	var item *model.CartItem
	err = s.carts.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.carts.ItemByProductForUpdate(ctx, clientID, productServiceID)
		switch {
		case err == nil:
			if err := s.carts.AddQuantity(ctx, existing.ID, quantity); err != nil {
				return err
			}
			existing.Quantity += quantity
			item = existing
			return nil
		case errors.Is(err, sql.ErrNoRows):
			item = &model.CartItem{
				ClientID:         clientID,
				ProductServiceID: productServiceID,
				Quantity:         quantity,
				PriceAtAdd:       entry.Price,
			}
			return s.carts.Insert(ctx, item)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem overwrites the quantity of one of the client's cart rows.
func (s *CheckoutService) UpdateItem(ctx context.Context, clientID, itemID uint64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := s.carts.SetQuantity(ctx, itemID, clientID, quantity); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// RemoveItem deletes one of the client's cart rows.
func (s *CheckoutService) RemoveItem(ctx context.Context, clientID, itemID uint64) error {
	if err := s.carts.Remove(ctx, itemID, clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Clear empties the client's cart.
func (s *CheckoutService) Clear(ctx context.Context, clientID uint64) error {
	return s.carts.Clear(ctx, clientID)
}

// Items returns the client's cart in insertion order.
func (s *CheckoutService) Items(ctx context.Context, clientID uint64) ([]model.CartItem, error) {
	return s.carts.ItemsByClient(ctx, clientID)
}

// Convert turns the client's cart into an order atomically: the cart
// rows are read under lock, the total is computed from their frozen
// prices, the order and its items are written and the cart is cleared.
// Either all of that happens or none of it does.
func (s *CheckoutService) Convert(ctx context.Context, clientID uint64, paymentMethod *string) (*model.Order, error) {
	var order *model.Order
	err := s.carts.WithTx(ctx, func(ctx context.Context) error {
		items, err := s.carts.ItemsForUpdate(ctx, clientID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}
		var total float64
		for _, it := range items {
			total += it.Subtotal()
		}
		number, err := utils.NewDocumentNumber("ORD")
		if err != nil {
			return err
		}
		order = &model.Order{
			Number:        number,
			ClientID:      clientID,
			Status:        model.OrderPending,
			Total:         total,
			PaymentMethod: paymentMethod,
		}
		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}
		lines := make([]model.OrderItem, 0, len(items))
		for _, it := range items {
			lines = append(lines, model.OrderItem{
				OrderID:          order.ID,
				ProductServiceID: it.ProductServiceID,
				Quantity:         it.Quantity,
				UnitPrice:        it.PriceAtAdd,
				Subtotal:         it.Subtotal(),
			})
		}
		if err := s.orders.CreateItems(ctx, lines); err != nil {
			return err
		}
		order.Items = lines
		return s.carts.Clear(ctx, clientID)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// UpdateOrderStatus moves an order to another known status.  Order
// workflow is staff-driven, so any change between known statuses is
// accepted.
func (s *CheckoutService) UpdateOrderStatus(ctx context.Context, id uint64, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := s.orders.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Orders returns orders newest first.  clientID 0 means all clients.
func (s *CheckoutService) Orders(ctx context.Context, clientID uint64) ([]model.Order, error) {
	return s.orders.List(ctx, clientID)
}

// Order returns one order with its items.
func (s *CheckoutService) Order(ctx context.Context, id uint64) (*model.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return o, nil
}
