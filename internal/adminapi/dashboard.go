package adminapi

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bjo163/shopadmin/internal/shop"
	"github.com/bjo163/shopadmin/internal/webserver"
)

func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard/stats", dashboardStats)
	webserver.ApiGET("/dashboard/products-chart", dashboardProductsChart)
	webserver.ApiGET("/dashboard/badges", dashboardBadges)
}

func newDashboardService(c echo.Context) *shop.DashboardService {
	db := GetDB(c)
	return shop.NewDashboardService(
		shop.NewGormProductRepository(db),
		shop.NewGormCustomerRepository(db),
		shop.NewGormOrderRepository(db),
	)
}

// dashboardStats renders the overview cards. Store failures degrade to
// zeroed cards inside the service, so this endpoint always returns 200.
func dashboardStats(c echo.Context) error {
	polling := GetAppContext(c).GetSettingsInt64Value("dashboard", "PollingSeconds")
	if polling <= 0 {
		polling = 30
	}
	return ok(c, map[string]interface{}{
		"stats":           newDashboardService(c).StatsOverview(c.Request().Context()),
		"polling_seconds": polling,
	})
}

func dashboardProductsChart(c echo.Context) error {
	year := time.Now().Year()
	if y, err := strconv.Atoi(c.QueryParam("year")); err == nil && y > 0 {
		year = y
	}
	return ok(c, map[string]interface{}{
		"year":   year,
		"months": newDashboardService(c).ProductsPerMonth(c.Request().Context(), year),
	})
}

func dashboardBadges(c echo.Context) error {
	db := GetDB(c)
	svc := shop.NewBadgeService(shop.NewGormOrderRepository(db), shop.NewGormProductRepository(db))
	ctx := c.Request().Context()
	return ok(c, []shop.Badge{
		svc.OrdersBadge(ctx),
		svc.ProductsBadge(ctx),
	})
}
