package shop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
)

func TestBadgeColorBoundary(t *testing.T) {
	assert.Equal(t, shop.BadgeColorPrimary, shop.BadgeColor(0))
	assert.Equal(t, shop.BadgeColorPrimary, shop.BadgeColor(5), "exactly at the threshold stays primary")
	assert.Equal(t, shop.BadgeColorWarning, shop.BadgeColor(6))
	assert.Equal(t, shop.BadgeColorWarning, shop.BadgeColor(100))
}

func TestOrdersBadge(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.counts[domain.OrderStatusProcessing] = 3
	orders.counts[domain.OrderStatusPending] = 99 // must not leak into the badge

	badge := shop.NewBadgeService(orders, newFakeProductRepo()).OrdersBadge(context.Background())
	assert.Equal(t, int64(3), badge.Count)
	assert.Equal(t, shop.BadgeColorPrimary, badge.Color)
}

func TestOrdersBadgeWarning(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.counts[domain.OrderStatusProcessing] = 6

	badge := shop.NewBadgeService(orders, newFakeProductRepo()).OrdersBadge(context.Background())
	assert.Equal(t, int64(6), badge.Count)
	assert.Equal(t, shop.BadgeColorWarning, badge.Color)
}

func TestOrdersBadgeDegradesOnStoreError(t *testing.T) {
	orders := newFakeOrderRepo()
	orders.countErr = errors.New("db down")

	badge := shop.NewBadgeService(orders, newFakeProductRepo()).OrdersBadge(context.Background())
	assert.Equal(t, int64(0), badge.Count)
	assert.Equal(t, shop.BadgeColorPrimary, badge.Color)
}

func TestProductsBadge(t *testing.T) {
	products := newFakeProductRepo()
	products.products[1] = &domain.Product{ID: 1}
	products.products[2] = &domain.Product{ID: 2}

	badge := shop.NewBadgeService(newFakeOrderRepo(), products).ProductsBadge(context.Background())
	assert.Equal(t, int64(2), badge.Count)
}
