package shop_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
)

func TestOrderCreateSnapshotsUnitPrice(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1, Name: "Widget", Price: 9.99}

	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{
		CustomerId: 7,
		Status:     domain.OrderStatusPending,
	}, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 3},
	})

	assert.NoError(t, err)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 9.99, order.Items[0].UnitPrice)
	assert.Equal(t, 29.97, order.TotalPrice)

	// later product price changes must not touch the snapshot
	products.products[1].Price = 19.99
	reloaded, err := orders.GetByID(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 9.99, reloaded.Items[0].UnitPrice)
}

func TestOrderCreateIgnoresClientUnitPrice(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1, Name: "Widget", Price: 9.99}

	// a client-supplied price on a new line cannot undercut the catalog
	bogus := 0.01
	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{}, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 1, UnitPrice: &bogus},
	})

	assert.NoError(t, err)
	assert.Equal(t, 9.99, order.Items[0].UnitPrice)
	assert.Equal(t, 9.99, order.TotalPrice)
}

func TestReplaceItemsSnapshotsNewLinesServerSide(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1, Price: 9.99}
	products.products[2] = &domain.Product{ID: 2, Price: 4.50}

	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{}, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 1},
	})
	assert.NoError(t, err)

	// the retained line keeps its snapshot even after a catalog change,
	// the added line ignores the bogus client price
	products.products[1].Price = 19.99
	bogus := 0.01
	updated, err := svc.ReplaceItems(context.Background(), order.ID, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 1},
		{ProductId: 2, Quantity: 1, UnitPrice: &bogus},
	})
	assert.NoError(t, err)
	assert.Equal(t, 9.99, updated.Items[0].UnitPrice)
	assert.Equal(t, 4.50, updated.Items[1].UnitPrice)
	assert.Equal(t, 14.49, updated.TotalPrice)
}

func TestOrderCreateGeneratesNumber(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1, Price: 5}

	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{}, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 1},
	})

	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.Number, "OR-"), "number=%q", order.Number)
	assert.Len(t, order.Number, 9)
}

func TestOrderCreateKeepsExplicitNumber(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()

	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{Number: "OR-123456"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "OR-123456", order.Number)
}

func TestOrderCreateUnknownProduct(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()

	svc := shop.NewOrderService(orders, products)
	_, err := svc.Create(context.Background(), &domain.Order{}, []shop.OrderItemInput{
		{ProductId: 42, Quantity: 1},
	})
	assert.Error(t, err)
}

func TestReplaceItemsRecomputesTotal(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1, Price: 9.99}
	products.products[2] = &domain.Product{ID: 2, Price: 4.50}

	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{}, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, 29.97, order.TotalPrice)

	// edit: keep the old snapshot for the retained line, snapshot the new one
	keep := 9.99
	updated, err := svc.ReplaceItems(context.Background(), order.ID, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 1, UnitPrice: &keep},
		{ProductId: 2, Quantity: 2},
	})
	assert.NoError(t, err)
	assert.Equal(t, 18.99, updated.TotalPrice)
	assert.Len(t, updated.Items, 2)
}

func TestReplaceItemsEmptySetZeroesTotal(t *testing.T) {
	orders := newFakeOrderRepo()
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1, Price: 9.99}

	svc := shop.NewOrderService(orders, products)
	order, err := svc.Create(context.Background(), &domain.Order{}, []shop.OrderItemInput{
		{ProductId: 1, Quantity: 2},
	})
	assert.NoError(t, err)

	updated, err := svc.ReplaceItems(context.Background(), order.ID, nil)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, updated.TotalPrice)
	assert.Empty(t, updated.Items)
}
