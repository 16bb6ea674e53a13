package adminapi

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
	"github.com/bjo163/shopadmin/internal/webserver"
	"github.com/bjo163/shopadmin/pkg/common"
)

type orderItemPayload struct {
	ProductId int64    `json:"product_id,string" validate:"required"`
	Quantity  int      `json:"quantity" validate:"required,min=1"`
	UnitPrice *float64 `json:"unit_price"` // only honored for products already on the order
}

type orderPayload struct {
	CustomerId    int64              `json:"customer_id,string" validate:"required"`
	ShippingPrice float64            `json:"shipping_price" validate:"min=0"`
	Status        string             `json:"status" validate:"required"`
	Notes         string             `json:"notes"`
	Items         []orderItemPayload `json:"items" validate:"omitempty,dive"`
}

// registerOrderRoutes registers order CRUD endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/shop/orders", listOrders)
	webserver.ApiGET("/shop/orders/export", exportOrders)
	webserver.ApiGET("/shop/orders/:id", getOrder)
	webserver.ApiPOST("/shop/orders", createOrder)
	webserver.ApiPUT("/shop/orders/:id", updateOrder)
	webserver.ApiDELETE("/shop/orders/:id", deleteOrder)
}

func newOrderService(c echo.Context) *shop.OrderService {
	db := GetDB(c)
	return shop.NewOrderService(shop.NewGormOrderRepository(db), shop.NewGormProductRepository(db))
}

func toItemInputs(items []orderItemPayload) []shop.OrderItemInput {
	inputs := make([]shop.OrderItemInput, 0, len(items))
	for _, it := range items {
		inputs = append(inputs, shop.OrderItemInput{
			ProductId: it.ProductId,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return inputs
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	allowed := map[string]string{
		"id":             "id",
		"number":         "number",
		"status":         "status",
		"shipping_price": "shipping_price",
		"total_price":    "total_price",
		"created_at":     "created_at",
	}
	sortCol, okSort := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !okSort {
		sortCol = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	db := GetDB(c).Model(&domain.Order{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("number ILIKE ? OR status ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(number) LIKE ? OR LOWER(status) LIKE ?", lq, lq)
		}
	}
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	if customer := strings.TrimSpace(c.QueryParam("customer_id")); customer != "" {
		db = db.Where("customer_id = ?", customer)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var rows []domain.Order
	if err := db.Preload("Customer").
		Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var o domain.Order
	err = GetDB(c).Preload("Customer").Preload("Items").Preload("Items.Product").
		Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}
	return ok(c, o)
}

func createOrder(c echo.Context) error {
	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.OrderStatus(payload.Status).Valid() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Status must be one of pending, processing, completed, declined",
			map[string]string{"status": "oneof"})
	}

	var customerCount int64
	GetDB(c).Model(&domain.Customer{}).Where("id = ?", payload.CustomerId).Count(&customerCount)
	if customerCount == 0 {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Customer does not exist", map[string]string{"customer_id": "exists"})
	}

	now := time.Now()
	order := &domain.Order{
		ID:            common.UUIDint64(),
		CustomerId:    payload.CustomerId,
		ShippingPrice: payload.ShippingPrice,
		Status:        domain.OrderStatus(payload.Status),
		Notes:         payload.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := newOrderService(c).Create(c.Request().Context(), order, toItemInputs(payload.Items))
	if err != nil {
		// a failed total recompute is fatal to the create, not ignored
		return fail(c, http.StatusInternalServerError, "ORDER_WRITE_FAILED", "Failed to create order", err.Error())
	}

	publishAudit(c, "order.create", fmt.Sprintf("created order %s", created.Number))
	return ok(c, created)
}

func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var o domain.Order
	err = GetDB(c).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	var payload orderPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if !domain.OrderStatus(payload.Status).Valid() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Status must be one of pending, processing, completed, declined",
			map[string]string{"status": "oneof"})
	}

	// the order number is immutable after creation
	o.CustomerId = payload.CustomerId
	o.ShippingPrice = payload.ShippingPrice
	o.Status = domain.OrderStatus(payload.Status)
	o.Notes = payload.Notes
	o.UpdatedAt = time.Now()

	if err := GetDB(c).Omit("Items", "Customer").Save(&o).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update order", err.Error())
	}

	if payload.Items != nil {
		updated, err := newOrderService(c).ReplaceItems(c.Request().Context(), id, toItemInputs(payload.Items))
		if err != nil {
			// item edits must recompute the total; treat failure as fatal
			return fail(c, http.StatusInternalServerError, "ORDER_WRITE_FAILED", "Failed to update order items", err.Error())
		}
		o = *updated
	}

	publishAudit(c, "order.update", fmt.Sprintf("updated order %s", o.Number))
	return ok(c, o)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}

	var o domain.Order
	err = GetDB(c).Where("id = ?", id).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", err.Error())
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Order{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete order", err.Error())
	}

	publishAudit(c, "order.delete", fmt.Sprintf("deleted order %s", o.Number))
	return ok(c, map[string]interface{}{"id": id})
}

func exportOrders(c echo.Context) error {
	var rows []domain.Order
	if err := GetDB(c).Preload("Customer").Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	headers := []string{"Number", "Customer", "Status", "Shipping Price", "Total Price", "Order Date"}
	for i, h := range headers {
		f.SetCellValue(sheet, fmt.Sprintf("%s1", excelize.ToAlphaString(i)), h)
	}
	for r, o := range rows {
		customer := ""
		if o.Customer != nil {
			customer = o.Customer.Name
		}
		values := []interface{}{
			o.Number, customer, string(o.Status), o.ShippingPrice, o.TotalPrice,
			o.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			f.SetCellValue(sheet, fmt.Sprintf("%s%d", excelize.ToAlphaString(col), r+2), v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render workbook", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="orders.xlsx"`)
	return c.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
