package shop_test

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
)

type fakeOrderRepo struct {
	orders    map[int64]*domain.Order
	nextID    int64
	sumErr    error
	updateErr error
	countErr  error
	counts    map[domain.OrderStatus]int64
	perDay    []float64
}

var _ shop.OrderRepository = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]*domain.Order),
		counts: make(map[domain.OrderStatus]int64),
	}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.nextID++
	order.ID = f.nextID
	for i := range order.Items {
		order.Items[i].OrderId = order.ID
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) Update(ctx context.Context, order *domain.Order) error {
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (f *fakeOrderRepo) ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range items {
		items[i].OrderId = orderID
	}
	order.Items = items
	return nil
}

func (f *fakeOrderRepo) SumItems(ctx context.Context, orderID int64) (float64, error) {
	if f.sumErr != nil {
		return 0, f.sumErr
	}
	order, ok := f.orders[orderID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	var total float64
	for _, item := range order.Items {
		total += float64(item.Quantity) * item.UnitPrice
	}
	return total, nil
}

func (f *fakeOrderRepo) UpdateTotalPrice(ctx context.Context, orderID int64, total float64) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	order, ok := f.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.TotalPrice = total
	return nil
}

func (f *fakeOrderRepo) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.counts[status], nil
}

func (f *fakeOrderRepo) CreatedPerDay(ctx context.Context, days int) ([]float64, error) {
	if f.perDay != nil {
		return f.perDay, nil
	}
	return make([]float64, days), nil
}

type fakeProductRepo struct {
	products map[int64]*domain.Product
	byMonth  map[string]int64 // "2026-03" -> count
	countErr error
	perDay   []float64
}

var _ shop.ProductRepository = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: make(map[int64]*domain.Product),
		byMonth:  make(map[string]int64),
	}
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.products)), nil
}

func (f *fakeProductRepo) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.byMonth[from.Format("2006-01")], nil
}

func (f *fakeProductRepo) CreatedPerDay(ctx context.Context, days int) ([]float64, error) {
	if f.perDay != nil {
		return f.perDay, nil
	}
	return make([]float64, days), nil
}

type fakeCustomerRepo struct {
	total  int64
	perDay []float64
}

var _ shop.CustomerRepository = (*fakeCustomerRepo)(nil)

func (f *fakeCustomerRepo) Count(ctx context.Context) (int64, error) {
	return f.total, nil
}

func (f *fakeCustomerRepo) CreatedPerDay(ctx context.Context, days int) ([]float64, error) {
	if f.perDay != nil {
		return f.perDay, nil
	}
	return make([]float64, days), nil
}
