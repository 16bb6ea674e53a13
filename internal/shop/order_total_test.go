package shop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
)

func TestRecomputeTotal(t *testing.T) {
	repo := newFakeOrderRepo()
	order := &domain.Order{
		Status: domain.OrderStatusPending,
		Items: []domain.OrderItem{
			{ProductId: 1, Quantity: 3, UnitPrice: 9.99},
		},
	}
	assert.NoError(t, repo.Create(context.Background(), order))

	calc := shop.NewOrderTotalCalculator(repo)
	total, err := calc.Recompute(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 29.97, total)
	assert.Equal(t, 29.97, order.TotalPrice, "total must be persisted")
}

func TestRecomputeTotalMultipleItems(t *testing.T) {
	repo := newFakeOrderRepo()
	order := &domain.Order{
		Items: []domain.OrderItem{
			{ProductId: 1, Quantity: 2, UnitPrice: 10.50},
			{ProductId: 2, Quantity: 1, UnitPrice: 0.99},
			{ProductId: 3, Quantity: 5, UnitPrice: 3.30},
		},
	}
	assert.NoError(t, repo.Create(context.Background(), order))

	total, err := shop.NewOrderTotalCalculator(repo).Recompute(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 38.49, total)
}

func TestRecomputeTotalEmptyItems(t *testing.T) {
	repo := newFakeOrderRepo()
	order := &domain.Order{}
	assert.NoError(t, repo.Create(context.Background(), order))

	total, err := shop.NewOrderTotalCalculator(repo).Recompute(context.Background(), order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)
}

func TestRecomputeTotalSumError(t *testing.T) {
	repo := newFakeOrderRepo()
	repo.sumErr = errors.New("db down")
	order := &domain.Order{}
	assert.NoError(t, repo.Create(context.Background(), order))
	repo.sumErr = errors.New("db down")

	_, err := shop.NewOrderTotalCalculator(repo).Recompute(context.Background(), order.ID)
	assert.Error(t, err, "a failed recompute must surface as a hard error")
}

func TestRecomputeTotalPersistError(t *testing.T) {
	repo := newFakeOrderRepo()
	order := &domain.Order{Items: []domain.OrderItem{{Quantity: 1, UnitPrice: 1}}}
	assert.NoError(t, repo.Create(context.Background(), order))
	repo.updateErr = errors.New("write failed")

	_, err := shop.NewOrderTotalCalculator(repo).Recompute(context.Background(), order.ID)
	assert.Error(t, err)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 29.97, shop.Round2(9.99*3))
	assert.Equal(t, 0.1, shop.Round2(0.1))
	assert.Equal(t, 0.13, shop.Round2(0.125))
}
