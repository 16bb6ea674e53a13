package adminapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/bjo163/shopadmin/internal/webserver"
)

func productRows(now time.Time) *sqlmock.Rows {
	cols := []string{"id", "brand_id", "name", "slug", "description", "sku", "price",
		"quantity", "type", "is_visible", "is_featured", "published_at", "image",
		"created_at", "updated_at"}
	return sqlmock.NewRows(cols).
		AddRow(101, 3, "Widget", "widget", "", "W-1", 9.99,
			5, "deliverable", true, false, nil, "", now, now)
}

func TestUpdateProductKeepsSlug(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(productRows(time.Now()))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "products" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body := `{"name":"Widget Pro","sku":"W-1","price":9.99,"quantity":5,"type":"deliverable","brand_id":"3"}`
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/shop/products/:id")
	c.SetParamNames("id")
	c.SetParamValues("101")
	c.Set(webserver.AppContextKey, newFakeAppContext(gdb))

	assert.NoError(t, updateProduct(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Widget Pro", got.Name)
	assert.Equal(t, "widget", got.Slug, "renaming must not rewrite the slug")
	assert.NoError(t, mock.ExpectationsWereMet())
}
