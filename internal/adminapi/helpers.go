package adminapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/app"
	"github.com/bjo163/shopadmin/internal/webserver"
)

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ListResponse is the envelope for paginated collections.
type ListResponse struct {
	Items   interface{} `json:"items"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// GetAppContext returns the application context injected by the web server.
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// GetDB returns the request-scoped database handle.
func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{Code: code, Message: message, Details: details})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, ListResponse{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	})
}

// parsePagination reads page/perPage query params with sane bounds.
func parsePagination(c echo.Context) (int, int) {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.QueryParam("perPage"))
	if perPage < 1 || perPage > 500 {
		perPage = 20
	}
	return page, perPage
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// handleValidationError maps validator failures to field-level details so
// the UI can surface them next to the offending input.
func handleValidationError(c echo.Context, err error) error {
	verrs, okCast := err.(validator.ValidationErrors)
	if !okCast {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", details)
}

// operatorName extracts the authenticated operator from the JWT.
func operatorName(c echo.Context) string {
	token, okCast := c.Get("user").(*jwt.Token)
	if !okCast {
		return "unknown"
	}
	claims, okCast := token.Claims.(jwt.MapClaims)
	if !okCast {
		return "unknown"
	}
	name, _ := claims["sub"].(string)
	if name == "" {
		return "unknown"
	}
	return name
}

// publishAudit emits an audit event for a mutating admin operation.
func publishAudit(c echo.Context, action, desc string) {
	GetAppContext(c).Bus().Publish(app.EventAdminAudit, app.AuditEvent{
		OprName: operatorName(c),
		OprIp:   c.RealIP(),
		Action:  action,
		Desc:    desc,
	})
}

// RegisterRoutes wires every admin API route group.
func RegisterRoutes() {
	registerAuthRoutes()
	registerProductRoutes()
	registerOrderRoutes()
	registerCustomerRoutes()
	registerBrandRoutes()
	registerCategoryRoutes()
	registerDashboardRoutes()
	registerSearchRoutes()
}
