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

type brandPayload struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

func registerBrandRoutes() {
	webserver.ApiGET("/shop/brands", listBrands)
	webserver.ApiGET("/shop/brands/:id", getBrand)
	webserver.ApiPOST("/shop/brands", createBrand)
	webserver.ApiPUT("/shop/brands/:id", updateBrand)
	webserver.ApiDELETE("/shop/brands/:id", deleteBrand)
}

func listBrands(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Brand{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}

	var rows []domain.Brand
	if err := db.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}
	var b domain.Brand
	if err := GetDB(c).Where("id = ?", id).First(&b).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BRAND_NOT_FOUND", "Brand not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brand", err.Error())
	}
	return ok(c, b)
}

func createBrand(c echo.Context) error {
	var payload brandPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse brand", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	var exists int64
	GetDB(c).Model(&domain.Brand{}).Where("name = ?", name).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "BRAND_EXISTS", "Brand name already exists", nil)
	}

	b := domain.Brand{
		ID:        common.UUIDint64(),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create brand", err.Error())
	}

	publishAudit(c, "brand.create", fmt.Sprintf("created brand %s", b.Name))
	return ok(c, b)
}

func updateBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}
	var b domain.Brand
	if err := GetDB(c).Where("id = ?", id).First(&b).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BRAND_NOT_FOUND", "Brand not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brand", err.Error())
	}

	var payload brandPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse brand", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	if name != b.Name {
		var exists int64
		GetDB(c).Model(&domain.Brand{}).Where("name = ? AND id != ?", name, id).Count(&exists)
		if exists > 0 {
			return fail(c, http.StatusConflict, "BRAND_EXISTS", "Brand name already exists", nil)
		}
	}

	b.Name = name
	b.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&b).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update brand", err.Error())
	}

	publishAudit(c, "brand.update", fmt.Sprintf("updated brand %d", id))
	return ok(c, b)
}

func deleteBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	var productCount int64
	GetDB(c).Model(&domain.Product{}).Where("brand_id = ?", id).Count(&productCount)
	if productCount > 0 {
		return fail(c, http.StatusConflict, "BRAND_IN_USE",
			"Brand is assigned to products and cannot be deleted",
			map[string]interface{}{"product_count": productCount})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Brand{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete brand", err.Error())
	}

	publishAudit(c, "brand.delete", fmt.Sprintf("deleted brand %d", id))
	return ok(c, map[string]interface{}{"id": id})
}
