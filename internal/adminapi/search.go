package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bjo163/shopadmin/internal/shop"
	"github.com/bjo163/shopadmin/internal/webserver"
)

func registerSearchRoutes() {
	webserver.ApiGET("/search", globalSearch)
}

// globalSearch fans the query out over products and orders.
func globalSearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return ok(c, []shop.SearchResult{})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	results, err := shop.NewSearchService(GetDB(c)).Search(c.Request().Context(), q, limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Search failed", err.Error())
	}
	return ok(c, results)
}
