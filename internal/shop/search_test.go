package shop_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bjo163/shopadmin/internal/domain"
	"github.com/bjo163/shopadmin/internal/shop"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	assert.NoError(t, err)
	return gdb, mock
}

func TestSearchOrdersEagerLoadsCustomersInOneBatch(t *testing.T) {
	gdb, mock := newMockGorm(t)

	// one batch over orders, then exactly one batch over customers
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number", "status", "customer_id"}).
			AddRow(1, "OR-100001", "pending", 10).
			AddRow(2, "OR-100002", "processing", 11))
	mock.ExpectQuery(`SELECT \* FROM "customers"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(10, "Ada Lovelace").
			AddRow(11, "Alan Turing"))

	svc := shop.NewSearchService(gdb)
	results, err := svc.SearchOrders(context.Background(), "OR-", 20)
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "OR-100001", results[0].Title)
	assert.Equal(t, "Customer: Ada Lovelace", results[0].Detail)
	assert.Equal(t, "Customer: Alan Turing", results[1].Detail)

	assert.NoError(t, mock.ExpectationsWereMet(), "detail lines must not issue per-row queries")
}

func TestSearchProductsDetailUsesBrand(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug", "brand_id"}).
			AddRow(5, "Widget", "widget", 3))
	mock.ExpectQuery(`SELECT \* FROM "brands"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(3, "Acme"))

	svc := shop.NewSearchService(gdb)
	results, err := svc.SearchProducts(context.Background(), "wid", 20)
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "product", results[0].Entity)
	assert.Equal(t, "Widget", results[0].Title)
	assert.Equal(t, "Brand: Acme", results[0].Detail)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchNoHits(t *testing.T) {
	gdb, mock := newMockGorm(t)

	mock.ExpectQuery(`SELECT \* FROM "products"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))
	mock.ExpectQuery(`SELECT \* FROM "orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "number"}))

	svc := shop.NewSearchService(gdb)
	results, err := svc.Search(context.Background(), "nothing", 20)
	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchDetailWithoutRelation(t *testing.T) {
	assert.Equal(t, "", shop.OrderSearchDetail(&domain.Order{Number: "OR-1"}))
	assert.Equal(t, "", shop.ProductSearchDetail(&domain.Product{Name: "X"}))
	assert.Equal(t, "Customer: Jo",
		shop.OrderSearchDetail(&domain.Order{Customer: &domain.Customer{Name: "Jo"}}))
}
