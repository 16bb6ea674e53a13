package shop

import (
	"context"

	"go.uber.org/zap"

	"github.com/bjo163/shopadmin/internal/domain"
)

// BadgeWarnThreshold is the processing-order count above which the
// navigation badge switches to the warning color.
const BadgeWarnThreshold = 5

const (
	BadgeColorPrimary = "primary"
	BadgeColorWarning = "warning"
)

// Badge is a small count shown next to a navigation entry.
type Badge struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
	Color string `json:"color"`
}

// BadgeColor maps a processing-order count to a severity color. The
// boundary is exclusive: a count of exactly BadgeWarnThreshold stays
// primary.
func BadgeColor(count int64) string {
	if count > BadgeWarnThreshold {
		return BadgeColorWarning
	}
	return BadgeColorPrimary
}

// BadgeService computes navigation badge counts. Pure reads; counts are
// eventually consistent with concurrent writes at render time.
type BadgeService struct {
	orders   OrderRepository
	products ProductRepository
}

func NewBadgeService(orders OrderRepository, products ProductRepository) *BadgeService {
	return &BadgeService{orders: orders, products: products}
}

// OrdersBadge returns the processing-order count with its severity color.
func (s *BadgeService) OrdersBadge(ctx context.Context) Badge {
	count, err := s.orders.CountByStatus(ctx, domain.OrderStatusProcessing)
	if err != nil {
		zap.L().Warn("orders badge count failed, rendering zero", zap.Error(err))
		count = 0
	}
	return Badge{Label: "Orders", Count: count, Color: BadgeColor(count)}
}

// ProductsBadge returns the total product count.
func (s *BadgeService) ProductsBadge(ctx context.Context) Badge {
	count, err := s.products.Count(ctx)
	if err != nil {
		zap.L().Warn("products badge count failed, rendering zero", zap.Error(err))
		count = 0
	}
	return Badge{Label: "Products", Count: count, Color: BadgeColorPrimary}
}
