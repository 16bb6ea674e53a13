package shop

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
)

// SearchResultLimit caps the number of hits returned per entity.
const SearchResultLimit = 20

// Searchable columns per entity. Matching and ranking are delegated to the
// store; these declarations only scope what is eligible for matching.
var (
	ProductSearchFields = []string{"name", "slug", "description"}
	OrderSearchFields   = []string{"number", "status"}
)

// SearchResult is a single global search hit.
type SearchResult struct {
	Entity string `json:"entity"`
	ID     int64  `json:"id,string"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ProductSearchDetail renders the detail line from the eager-loaded brand.
func ProductSearchDetail(p *domain.Product) string {
	if p.Brand == nil {
		return ""
	}
	return "Brand: " + p.Brand.Name
}

// OrderSearchDetail renders the detail line from the eager-loaded customer.
func OrderSearchDetail(o *domain.Order) string {
	if o.Customer == nil {
		return ""
	}
	return "Customer: " + o.Customer.Name
}

// SearchService fans a query out over the searchable entities. Each entity
// issues one batch query with its relation preloaded, so the detail
// formatters never trigger per-row fetches.
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// likeFilter builds a case-insensitive OR filter over the given columns.
func likeFilter(db *gorm.DB, fields []string, q string) *gorm.DB {
	if strings.EqualFold(db.Name(), "postgres") {
		conds := make([]string, len(fields))
		args := make([]interface{}, len(fields))
		for i, f := range fields {
			conds[i] = f + " ILIKE ?"
			args[i] = "%" + q + "%"
		}
		return db.Where(strings.Join(conds, " OR "), args...)
	}
	conds := make([]string, len(fields))
	args := make([]interface{}, len(fields))
	for i, f := range fields {
		conds[i] = "LOWER(" + f + ") LIKE ?"
		args[i] = "%" + strings.ToLower(q) + "%"
	}
	return db.Where(strings.Join(conds, " OR "), args...)
}

// SearchProducts matches products on the declared columns, preloading the
// brand relation for the detail line.
func (s *SearchService) SearchProducts(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > SearchResultLimit {
		limit = SearchResultLimit
	}
	db := s.db.WithContext(ctx).Model(&domain.Product{}).Preload("Brand")
	var products []domain.Product
	if err := likeFilter(db, ProductSearchFields, q).Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(products))
	for i := range products {
		results = append(results, SearchResult{
			Entity: "product",
			ID:     products[i].ID,
			Title:  products[i].Name,
			Detail: ProductSearchDetail(&products[i]),
		})
	}
	return results, nil
}

// SearchOrders matches orders on the declared columns, preloading the
// customer relation for the detail line.
func (s *SearchService) SearchOrders(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	if limit <= 0 || limit > SearchResultLimit {
		limit = SearchResultLimit
	}
	db := s.db.WithContext(ctx).Model(&domain.Order{}).Preload("Customer")
	var orders []domain.Order
	if err := likeFilter(db, OrderSearchFields, q).Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(orders))
	for i := range orders {
		results = append(results, SearchResult{
			Entity: "order",
			ID:     orders[i].ID,
			Title:  orders[i].Number,
			Detail: OrderSearchDetail(&orders[i]),
		})
	}
	return results, nil
}

// Search runs the query against every registered entity.
func (s *SearchService) Search(ctx context.Context, q string, limit int) ([]SearchResult, error) {
	products, err := s.SearchProducts(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	orders, err := s.SearchOrders(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	return append(products, orders...), nil
}
