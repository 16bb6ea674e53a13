package adminapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/webserver"
	"github.com/bjo163/shopadmin/pkg/common"
)

type customerPayload struct {
	Name    string `json:"name" validate:"required,min=1,max=255"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"omitempty,max=64"`
	Address string `json:"address" validate:"omitempty,max=512"`
	City    string `json:"city" validate:"omitempty,max=128"`
	Country string `json:"country" validate:"omitempty,max=128"`
}

func registerCustomerRoutes() {
	webserver.ApiGET("/shop/customers", listCustomers)
	webserver.ApiGET("/shop/customers/:id", getCustomer)
	webserver.ApiPOST("/shop/customers", createCustomer)
	webserver.ApiPUT("/shop/customers/:id", updateCustomer)
	webserver.ApiDELETE("/shop/customers/:id", deleteCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Customer{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR email ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", lq, lq)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var rows []domain.Customer
	if err := db.Order("id DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, cust)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var exists int64
	GetDB(c).Model(&domain.Customer{}).Where("email = ?", payload.Email).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "CUSTOMER_EXISTS", "Customer email already exists", nil)
	}

	cust := domain.Customer{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Email:     strings.TrimSpace(payload.Email),
		Phone:     payload.Phone,
		Address:   payload.Address,
		City:      payload.City,
		Country:   payload.Country,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}

	publishAudit(c, "customer.create", fmt.Sprintf("created customer %s", cust.Name))
	return ok(c, cust)
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	if payload.Email != cust.Email {
		var exists int64
		GetDB(c).Model(&domain.Customer{}).Where("email = ? AND id != ?", payload.Email, id).Count(&exists)
		if exists > 0 {
			return fail(c, http.StatusConflict, "CUSTOMER_EXISTS", "Customer email already exists", nil)
		}
	}

	cust.Name = strings.TrimSpace(payload.Name)
	cust.Email = strings.TrimSpace(payload.Email)
	cust.Phone = payload.Phone
	cust.Address = payload.Address
	cust.City = payload.City
	cust.Country = payload.Country
	cust.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}

	publishAudit(c, "customer.update", fmt.Sprintf("updated customer %d", id))
	return ok(c, cust)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}

	// Prevent deletion while orders reference this customer
	var orderCount int64
	GetDB(c).Model(&domain.Order{}).Where("customer_id = ?", id).Count(&orderCount)
	if orderCount > 0 {
		return fail(c, http.StatusConflict, "CUSTOMER_IN_USE",
			"Customer has orders and cannot be deleted",
			map[string]interface{}{"order_count": orderCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Customer{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}

	publishAudit(c, "customer.delete", fmt.Sprintf("deleted customer %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
