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

type categoryPayload struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

func registerCategoryRoutes() {
	webserver.ApiGET("/shop/categories", listCategories)
	webserver.ApiGET("/shop/categories/:id", getCategory)
	webserver.ApiPOST("/shop/categories", createCategory)
	webserver.ApiPUT("/shop/categories/:id", updateCategory)
	webserver.ApiDELETE("/shop/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := GetDB(c).Model(&domain.Category{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}

	var rows []domain.Category
	if err := db.Order("name ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, cat)
}

func createCategory(c echo.Context) error {
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	var exists int64
	GetDB(c).Model(&domain.Category{}).Where("name = ?", name).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "Category name already exists", nil)
	}

	cat := domain.Category{
		ID:        common.UUIDint64(),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}

	publishAudit(c, "category.create", fmt.Sprintf("created category %s", cat.Name))
	return ok(c, cat)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	name := strings.TrimSpace(payload.Name)
	if name != cat.Name {
		var exists int64
		GetDB(c).Model(&domain.Category{}).Where("name = ? AND id != ?", name, id).Count(&exists)
		if exists > 0 {
			return fail(c, http.StatusConflict, "CATEGORY_EXISTS", "Category name already exists", nil)
		}
	}

	cat.Name = name
	cat.UpdatedAt = time.Now()
	if err := GetDB(c).Save(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}

	publishAudit(c, "category.update", fmt.Sprintf("updated category %d", id))
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}

	// The join table keeps memberships; detach them before removing the row.
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	err = GetDB(c).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&domain.Category{}).Error
	})
	if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}

	publishAudit(c, "category.delete", fmt.Sprintf("deleted category %s", cat.Name))
	return ok(c, map[string]interface{}{"id": id})
}
