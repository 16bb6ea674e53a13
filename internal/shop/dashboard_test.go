package shop_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
)

func newDashboard(products *fakeProductRepo, customers *fakeCustomerRepo, orders *fakeOrderRepo) *shop.DashboardService {
	return shop.NewDashboardService(products, customers, orders)
}

func TestProductsPerMonthShape(t *testing.T) {
	products := newFakeProductRepo()
	products.byMonth["2026-01"] = 2
	products.byMonth["2026-03"] = 5
	products.byMonth["2026-12"] = 1

	svc := newDashboard(products, &fakeCustomerRepo{}, newFakeOrderRepo())
	chart := svc.ProductsPerMonth(context.Background(), 2026)

	assert.Len(t, chart, 12)
	wantLabels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
	for i, mc := range chart {
		assert.Equal(t, wantLabels[i], mc.Label)
	}
	assert.Equal(t, int64(2), chart[0].Count)
	assert.Equal(t, int64(5), chart[2].Count)
	assert.Equal(t, int64(1), chart[11].Count)
	assert.Equal(t, int64(0), chart[6].Count)
}

func TestProductsPerMonthFiltersByYear(t *testing.T) {
	products := newFakeProductRepo()
	products.byMonth["2025-06"] = 9 // previous year must not appear

	svc := newDashboard(products, &fakeCustomerRepo{}, newFakeOrderRepo())
	chart := svc.ProductsPerMonth(context.Background(), 2026)

	for _, mc := range chart {
		assert.Equal(t, int64(0), mc.Count)
	}
}

func TestProductsPerMonthDegradesOnStoreError(t *testing.T) {
	products := newFakeProductRepo()
	products.countErr = errors.New("db down")

	svc := newDashboard(products, &fakeCustomerRepo{}, newFakeOrderRepo())
	chart := svc.ProductsPerMonth(context.Background(), 2026)

	assert.Len(t, chart, 12)
	for _, mc := range chart {
		assert.Equal(t, int64(0), mc.Count)
	}
}

func TestStatsOverview(t *testing.T) {
	products := newFakeProductRepo()
	for i := int64(1); i <= 4; i++ {
		products.products[i] = &domain.Product{ID: i}
	}
	customers := &fakeCustomerRepo{total: 11}
	orders := newFakeOrderRepo()
	orders.counts[domain.OrderStatusPending] = 2
	orders.counts[domain.OrderStatusProcessing] = 8 // pending card only counts pending

	svc := newDashboard(products, customers, orders)
	cards := svc.StatsOverview(context.Background())

	assert.Len(t, cards, 3)
	assert.Equal(t, "Total Customers", cards[0].Label)
	assert.Equal(t, int64(11), cards[0].Value)
	assert.Equal(t, "Total Products", cards[1].Label)
	assert.Equal(t, int64(4), cards[1].Value)
	assert.Equal(t, "Pending Orders", cards[2].Label)
	assert.Equal(t, int64(2), cards[2].Value)
	for _, card := range cards {
		assert.Len(t, card.Chart, 7)
		assert.Contains(t, []string{"up", "down", "flat"}, card.Trend)
	}
}

func TestStatsOverviewTrend(t *testing.T) {
	products := newFakeProductRepo()
	products.perDay = []float64{0, 1, 2, 3, 4, 5, 6}
	customers := &fakeCustomerRepo{perDay: []float64{6, 5, 4, 3, 2, 1, 0}}

	svc := newDashboard(products, customers, newFakeOrderRepo())
	cards := svc.StatsOverview(context.Background())

	assert.Equal(t, "down", cards[0].Trend, fmt.Sprintf("customers series %v", customers.perDay))
	assert.Equal(t, "up", cards[1].Trend)
	assert.Equal(t, "flat", cards[2].Trend)
}
