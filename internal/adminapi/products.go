package adminapi

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/webserver"
	"github.com/bjo163/shopadmin/pkg/common"
)

type productPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description string  `json:"description"`
	Sku         string  `json:"sku" validate:"required,min=1,max=100"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity" validate:"min=0,max=100"`
	Type        string  `json:"type" validate:"required"`
	IsVisible   *bool   `json:"is_visible"`
	IsFeatured  bool    `json:"is_featured"`
	PublishedAt string  `json:"published_at"`
	BrandId     int64   `json:"brand_id,string" validate:"required"`
	CategoryIds []int64 `json:"category_ids"`
	Image       string  `json:"image"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/shop/products", listProducts)
	webserver.ApiGET("/shop/products/export", exportProducts)
	webserver.ApiGET("/shop/products/:id", getProduct)
	webserver.ApiPOST("/shop/products", createProduct)
	webserver.ApiPOST("/shop/products/batch_delete", batchDeleteProducts)
	webserver.ApiPUT("/shop/products/:id", updateProduct)
	webserver.ApiDELETE("/shop/products/:id", deleteProduct)
}

// validPrice enforces at most 6 integer digits and 2 fractional digits.
func validPrice(p float64) bool {
	if p < 0 || p > 999999.99 {
		return false
	}
	cents := p * 100
	return math.Abs(cents-math.Round(cents)) < 1e-6
}

func validateProductPayload(c echo.Context, payload *productPayload) error {
	payload.Name = strings.TrimSpace(payload.Name)
	payload.Sku = strings.TrimSpace(payload.Sku)
	if !domain.ProductType(payload.Type).Valid() {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Type must be 'downloadable' or 'deliverable'", map[string]string{"type": "oneof"})
	}
	if !validPrice(payload.Price) {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Price must be a positive amount with at most 6 integer and 2 fractional digits",
			map[string]string{"price": "format"})
	}
	return nil
}

func parsePublishedAt(c echo.Context, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Unable to parse published_at", map[string]string{"published_at": "date"})
	}
	return &t, nil
}

func loadCategories(c echo.Context, ids []int64) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var cats []domain.Category
	if err := GetDB(c).Where("id IN ?", ids).Find(&cats).Error; err != nil {
		return nil, fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	if len(cats) != len(ids) {
		return nil, fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"One or more categories do not exist", map[string]string{"category_ids": "exists"})
	}
	return cats, nil
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// whitelist allowed sort columns to avoid SQL injection
	allowed := map[string]string{
		"id":           "id",
		"name":         "name",
		"price":        "price",
		"quantity":     "quantity",
		"published_at": "published_at",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
	}
	sortCol, okSort := allowed[strings.TrimSpace(c.QueryParam("sort"))]
	if !okSort {
		sortCol = "id"
	}
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR slug ILIKE ? OR sku ILIKE ?", "%"+q+"%", "%"+q+"%", "%"+q+"%")
		} else {
			lq := "%" + strings.ToLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(slug) LIKE ? OR LOWER(sku) LIKE ?", lq, lq, lq)
		}
	}
	// ternary visibility filter: visible=true|false, absent means both
	if v := strings.TrimSpace(c.QueryParam("visible")); v != "" {
		db = db.Where("is_visible = ?", v == "true" || v == "1")
	}
	if brand := strings.TrimSpace(c.QueryParam("brand_id")); brand != "" {
		db = db.Where("brand_id = ?", brand)
	}
	if ptype := strings.TrimSpace(c.QueryParam("type")); ptype != "" {
		db = db.Where("type = ?", ptype)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Preload("Brand").
		Order(sortCol + " " + order).
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	err = GetDB(c).Preload("Brand").Preload("Categories").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, p)
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := validateProductPayload(c, &payload); err != nil {
		return err
	}

	// slug is derived from the name exactly once, here
	slug := common.Slugify(payload.Name)
	if slug == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST",
			"Name does not yield a usable slug", map[string]string{"name": "slug"})
	}

	var exists int64
	GetDB(c).Model(&domain.Product{}).Where("slug = ? OR sku = ?", slug, payload.Sku).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_EXISTS", "Product slug or SKU already exists", nil)
	}

	publishedAt, err := parsePublishedAt(c, payload.PublishedAt)
	if err != nil {
		return err
	}
	cats, err := loadCategories(c, payload.CategoryIds)
	if err != nil {
		return err
	}

	visible := true
	if payload.IsVisible != nil {
		visible = *payload.IsVisible
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		BrandId:     payload.BrandId,
		Name:        payload.Name,
		Slug:        slug,
		Description: payload.Description,
		Sku:         payload.Sku,
		Price:       payload.Price,
		Quantity:    payload.Quantity,
		Type:        domain.ProductType(payload.Type),
		IsVisible:   visible,
		IsFeatured:  payload.IsFeatured,
		PublishedAt: publishedAt,
		Image:       strings.TrimSpace(payload.Image),
		Categories:  cats,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	publishAudit(c, "product.create", fmt.Sprintf("created product %s (%s)", p.Name, p.Sku))
	return ok(c, p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	err = GetDB(c).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if err := validateProductPayload(c, &payload); err != nil {
		return err
	}

	if payload.Sku != p.Sku {
		var exists int64
		GetDB(c).Model(&domain.Product{}).Where("sku = ? AND id != ?", payload.Sku, id).Count(&exists)
		if exists > 0 {
			return fail(c, http.StatusConflict, "PRODUCT_EXISTS", "Product SKU already exists", nil)
		}
	}

	publishedAt, err := parsePublishedAt(c, payload.PublishedAt)
	if err != nil {
		return err
	}
	cats, err := loadCategories(c, payload.CategoryIds)
	if err != nil {
		return err
	}

	// the slug stays as derived at creation; edits never rewrite it
	p.BrandId = payload.BrandId
	p.Name = payload.Name
	p.Description = payload.Description
	p.Sku = payload.Sku
	p.Price = payload.Price
	p.Quantity = payload.Quantity
	p.Type = domain.ProductType(payload.Type)
	if payload.IsVisible != nil {
		p.IsVisible = *payload.IsVisible
	}
	p.IsFeatured = payload.IsFeatured
	if publishedAt != nil {
		p.PublishedAt = publishedAt
	}
	p.Image = strings.TrimSpace(payload.Image)
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Omit("Categories").Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	if payload.CategoryIds != nil {
		if err := GetDB(c).Model(&p).Association("Categories").Replace(cats); err != nil {
			return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product categories", err.Error())
		}
	}

	publishAudit(c, "product.update", fmt.Sprintf("updated product %d", id))
	return ok(c, p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}

	// block deletion while order items still reference the product
	var refs int64
	GetDB(c).Model(&domain.OrderItem{}).Where("product_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_IN_USE",
			"Product is referenced by order items and cannot be deleted",
			map[string]interface{}{"order_item_count": refs})
	}

	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}

	publishAudit(c, "product.delete", fmt.Sprintf("deleted product %d", id))
	return ok(c, map[string]interface{}{"id": id})
}

type batchDeletePayload struct {
	Ids []int64 `json:"ids" validate:"required,min=1"`
}

func batchDeleteProducts(c echo.Context) error {
	var payload batchDeletePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	var refs int64
	GetDB(c).Model(&domain.OrderItem{}).Where("product_id IN ?", payload.Ids).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "PRODUCT_IN_USE",
			"One or more products are referenced by order items",
			map[string]interface{}{"order_item_count": refs})
	}

	res := GetDB(c).Where("id IN ?", payload.Ids).Delete(&domain.Product{})
	if res.Error != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete products", res.Error.Error())
	}

	publishAudit(c, "product.batch_delete", fmt.Sprintf("deleted %d products", res.RowsAffected))
	return ok(c, map[string]interface{}{"deleted": res.RowsAffected})
}

type productExportRow struct {
	Sku       string  `csv:"sku"`
	Name      string  `csv:"name"`
	Slug      string  `csv:"slug"`
	Price     float64 `csv:"price"`
	Quantity  int     `csv:"quantity"`
	Type      string  `csv:"type"`
	IsVisible bool    `csv:"is_visible"`
	CreatedAt string  `csv:"created_at"`
}

func exportProducts(c echo.Context) error {
	var rows []domain.Product
	if err := GetDB(c).Order("id ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	out := make([]productExportRow, 0, len(rows))
	for _, p := range rows {
		out = append(out, productExportRow{
			Sku:       p.Sku,
			Name:      p.Name,
			Slug:      p.Slug,
			Price:     p.Price,
			Quantity:  p.Quantity,
			Type:      string(p.Type),
			IsVisible: p.IsVisible,
			CreatedAt: p.CreatedAt.Format(time.RFC3339),
		})
	}

	data, err := gocsv.MarshalString(&out)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to render CSV", err.Error())
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	return c.Blob(http.StatusOK, "text/csv", []byte(data))
}
