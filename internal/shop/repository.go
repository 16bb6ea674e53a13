package shop

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
)

// ProductRepository handles database operations for catalog products
type ProductRepository interface {
	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Count returns the total number of products
	Count(ctx context.Context) (int64, error)

	// CountCreatedBetween counts products created in [from, to)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)

	// CreatedPerDay returns daily creation counts for the last `days` days,
	// oldest bucket first
	CreatedPerDay(ctx context.Context, days int) ([]float64, error)
}

// CustomerRepository handles database operations for customers
type CustomerRepository interface {
	Count(ctx context.Context) (int64, error)
	CreatedPerDay(ctx context.Context, days int) ([]float64, error)
}

// OrderRepository handles database operations for orders and their items
type OrderRepository interface {
	// Create inserts an order together with its item set
	Create(ctx context.Context, order *domain.Order) error

	// Update persists order header fields
	Update(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order with its items preloaded
	GetByID(ctx context.Context, id int64) (*domain.Order, error)

	// ReplaceItems deletes the order's current item set and inserts the
	// given one
	ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) error

	// SumItems computes Σ(quantity × unit_price) over the order's items
	SumItems(ctx context.Context, orderID int64) (float64, error)

	// UpdateTotalPrice persists the derived order total
	UpdateTotalPrice(ctx context.Context, orderID int64, total float64) error

	// CountByStatus counts orders in the given status
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)

	// CreatedPerDay returns daily creation counts for the last `days` days
	CreatedPerDay(ctx context.Context, days int) ([]float64, error)
}

// GormProductRepository is the GORM implementation of ProductRepository
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&total).Error
	return total, err
}

func (r *GormProductRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&total).Error
	return total, err
}

func (r *GormProductRepository) CreatedPerDay(ctx context.Context, days int) ([]float64, error) {
	return createdPerDay(r.db.WithContext(ctx), &domain.Product{}, days)
}

// GormCustomerRepository is the GORM implementation of CustomerRepository
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Customer{}).Count(&total).Error
	return total, err
}

func (r *GormCustomerRepository) CreatedPerDay(ctx context.Context, days int) ([]float64, error) {
	return createdPerDay(r.db.WithContext(ctx), &domain.Customer{}, days)
}

// GormOrderRepository is the GORM implementation of OrderRepository
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *GormOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Omit("Items", "Customer").Save(order).Error
}

func (r *GormOrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) ReplaceItems(ctx context.Context, orderID int64, items []domain.OrderItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].OrderId = orderID
		}
		return tx.Create(&items).Error
	})
}

func (r *GormOrderRepository) SumItems(ctx context.Context, orderID int64) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.OrderItem{}).
		Select("COALESCE(SUM(quantity * unit_price), 0)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	return total, err
}

func (r *GormOrderRepository) UpdateTotalPrice(ctx context.Context, orderID int64, total float64) error {
	return r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("id = ?", orderID).
		Update("total_price", total).Error
}

func (r *GormOrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}

func (r *GormOrderRepository) CreatedPerDay(ctx context.Context, days int) ([]float64, error) {
	return createdPerDay(r.db.WithContext(ctx), &domain.Order{}, days)
}

type dayCount struct {
	Day   time.Time
	Total int64
}

// createdPerDay buckets creation timestamps of the given model into one
// count per calendar day, oldest first, zero-filling empty days.
func createdPerDay(db *gorm.DB, model interface{}, days int) ([]float64, error) {
	if days <= 0 {
		return nil, nil
	}
	start := time.Now().AddDate(0, 0, -(days - 1))
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	var rows []dayCount
	err := db.Model(model).
		Select("DATE(created_at) AS day, COUNT(*) AS total").
		Where("created_at >= ?", start).
		Group("DATE(created_at)").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int64, len(rows))
	for _, row := range rows {
		byDay[row.Day.Format("2006-01-02")] = row.Total
	}

	out := make([]float64, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		out[i] = float64(byDay[day])
	}
	return out, nil
}
