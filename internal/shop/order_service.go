package shop

import (
	"context"

	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"

	"github.com/bjo163/shopadmin/internal/domain"
)

// OrderItemInput is one line of an order write request. UnitPrice is only
// honored for products already on the order, where it round-trips the
// snapshot taken at the original selection; lines adding a new product
// always snapshot the current product price server-side.
type OrderItemInput struct {
	ProductId int64
	Quantity  int
	UnitPrice *float64
}

// OrderService owns the order/item write path: number generation, unit
// price snapshotting and the synchronous total recompute.
type OrderService struct {
	orders   OrderRepository
	products ProductRepository
	calc     *OrderTotalCalculator
}

func NewOrderService(orders OrderRepository, products ProductRepository) *OrderService {
	return &OrderService{
		orders:   orders,
		products: products,
		calc:     NewOrderTotalCalculator(orders),
	}
}

// NewOrderNumber generates an immutable order identifier.
func NewOrderNumber() string {
	return "OR-" + random.String(6, random.Numeric)
}

// buildItems resolves the unit price of every line. prior maps product IDs
// already on the order to their stored snapshots; products outside it are
// new lines and get the current catalog price regardless of client input.
func (s *OrderService) buildItems(ctx context.Context, inputs []OrderItemInput, prior map[int64]float64) ([]domain.OrderItem, error) {
	items := make([]domain.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		item := domain.OrderItem{
			ProductId: in.ProductId,
			Quantity:  in.Quantity,
		}
		snapshot, retained := prior[in.ProductId]
		switch {
		case retained && in.UnitPrice != nil:
			item.UnitPrice = Round2(*in.UnitPrice)
		case retained:
			item.UnitPrice = snapshot
		default:
			p, err := s.products.GetByID(ctx, in.ProductId)
			if err != nil {
				return nil, errors.Wrapf(err, "snapshot price of product %d", in.ProductId)
			}
			item.UnitPrice = p.Price
		}
		items = append(items, item)
	}
	return items, nil
}

// Create persists a new order with its items and recomputes the total.
func (s *OrderService) Create(ctx context.Context, order *domain.Order, inputs []OrderItemInput) (*domain.Order, error) {
	if order.Number == "" {
		order.Number = NewOrderNumber()
	}

	items, err := s.buildItems(ctx, inputs, nil)
	if err != nil {
		return nil, err
	}
	order.Items = items

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, errors.Wrap(err, "create order")
	}

	total, err := s.calc.Recompute(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.TotalPrice = total
	return order, nil
}

// ReplaceItems swaps an order's item set and recomputes the total. Edits
// trigger the same recompute as creation, keeping the derived total
// consistent with the invariant.
func (s *OrderService) ReplaceItems(ctx context.Context, orderID int64, inputs []OrderItemInput) (*domain.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, errors.Wrapf(err, "load order %d", orderID)
	}
	prior := make(map[int64]float64, len(current.Items))
	for _, item := range current.Items {
		prior[item.ProductId] = item.UnitPrice
	}

	items, err := s.buildItems(ctx, inputs, prior)
	if err != nil {
		return nil, err
	}

	if err := s.orders.ReplaceItems(ctx, orderID, items); err != nil {
		return nil, errors.Wrapf(err, "replace items of order %d", orderID)
	}

	if _, err := s.calc.Recompute(ctx, orderID); err != nil {
		return nil, err
	}

	return s.orders.GetByID(ctx, orderID)
}
