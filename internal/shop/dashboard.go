package shop

import (
	"context"
	"time"

	"github.com/montanaflynn/stats"
	"go.uber.org/zap"

	"github.com/bjo163/shopadmin/internal/domain"
)

// sparklineDays is the window of daily counts behind each stat card.
const sparklineDays = 7

// MonthCount is one point of the monthly product-creation chart.
type MonthCount struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// Stat is one card of the stats overview widget.
type Stat struct {
	Label       string    `json:"label"`
	Value       int64     `json:"value"`
	Description string    `json:"description"`
	Trend       string    `json:"trend"` // up | down | flat
	Chart       []float64 `json:"chart"`
}

// DashboardService feeds the two admin dashboard widgets. All reads; on
// store errors it degrades to zero values with a logged warning so the
// dashboard never fails user-visibly.
type DashboardService struct {
	products  ProductRepository
	customers CustomerRepository
	orders    OrderRepository
}

func NewDashboardService(products ProductRepository, customers CustomerRepository, orders OrderRepository) *DashboardService {
	return &DashboardService{products: products, customers: customers, orders: orders}
}

// ProductsPerMonth counts products created in each calendar month of the
// given year. Always returns exactly 12 entries labelled Jan..Dec.
func (s *DashboardService) ProductsPerMonth(ctx context.Context, year int) []MonthCount {
	out := make([]MonthCount, 0, 12)
	for m := time.January; m <= time.December; m++ {
		from := time.Date(year, m, 1, 0, 0, 0, 0, time.Local)
		to := from.AddDate(0, 1, 0)

		count, err := s.products.CountCreatedBetween(ctx, from, to)
		if err != nil {
			zap.L().Warn("monthly product count failed, rendering zero",
				zap.Int("year", year), zap.String("month", m.String()), zap.Error(err))
			count = 0
		}
		out = append(out, MonthCount{Label: m.String()[:3], Count: count})
	}
	return out
}

// StatsOverview returns the three overview cards: total customers, total
// products and pending orders, each with a 7-day sparkline and trend hint.
func (s *DashboardService) StatsOverview(ctx context.Context) []Stat {
	customers := s.statCard(ctx, "Total Customers", "Customers in application",
		func() (int64, error) { return s.customers.Count(ctx) },
		func() ([]float64, error) { return s.customers.CreatedPerDay(ctx, sparklineDays) })

	products := s.statCard(ctx, "Total Products", "Products in application",
		func() (int64, error) { return s.products.Count(ctx) },
		func() ([]float64, error) { return s.products.CreatedPerDay(ctx, sparklineDays) })

	pending := s.statCard(ctx, "Pending Orders", "Orders waiting for processing",
		func() (int64, error) { return s.orders.CountByStatus(ctx, domain.OrderStatusPending) },
		func() ([]float64, error) { return s.orders.CreatedPerDay(ctx, sparklineDays) })

	return []Stat{customers, products, pending}
}

func (s *DashboardService) statCard(ctx context.Context, label, desc string,
	count func() (int64, error), series func() ([]float64, error)) Stat {

	value, err := count()
	if err != nil {
		zap.L().Warn("stat count failed, rendering zero", zap.String("stat", label), zap.Error(err))
		value = 0
	}

	chart, err := series()
	if err != nil {
		zap.L().Warn("stat series failed, rendering empty", zap.String("stat", label), zap.Error(err))
		chart = make([]float64, sparklineDays)
	}

	return Stat{
		Label:       label,
		Value:       value,
		Description: desc,
		Trend:       trendOf(chart),
		Chart:       chart,
	}
}

// trendOf classifies a daily series by the slope of its regression line.
func trendOf(series []float64) string {
	if len(series) < 2 {
		return "flat"
	}
	coords := make([]stats.Coordinate, len(series))
	for i, v := range series {
		coords[i] = stats.Coordinate{X: float64(i), Y: v}
	}
	reg, err := stats.LinearRegression(coords)
	if err != nil || len(reg) < 2 {
		return "flat"
	}
	slope := reg[len(reg)-1].Y - reg[0].Y
	switch {
	case slope > 0:
		return "up"
	case slope < 0:
		return "down"
	default:
		return "flat"
	}
}
