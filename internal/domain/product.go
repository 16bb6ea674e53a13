package domain

import "time"

// ProductType distinguishes goods that are shipped from goods that are
// delivered as downloads.
type ProductType string

const (
	ProductTypeDownloadable ProductType = "downloadable"
	ProductTypeDeliverable  ProductType = "deliverable"
)

func (t ProductType) Valid() bool {
	switch t {
	case ProductTypeDownloadable, ProductTypeDeliverable:
		return true
	}
	return false
}

// Product is a catalog item. Slug is derived from the name exactly once at
// creation and never rewritten through the API afterwards.
type Product struct {
	ID          int64       `gorm:"primaryKey" json:"id,string"`
	BrandId     int64       `gorm:"index" json:"brand_id,string"`
	Name        string      `gorm:"size:255;index" json:"name"`
	Slug        string      `gorm:"size:255;uniqueIndex" json:"slug"`
	Description string      `gorm:"type:text" json:"description"`
	Sku         string      `gorm:"size:100;uniqueIndex" json:"sku"`
	Price       float64     `gorm:"type:decimal(8,2)" json:"price"`
	Quantity    int         `json:"quantity"`
	Type        ProductType `gorm:"size:32" json:"type"`
	IsVisible   bool        `gorm:"default:true" json:"is_visible"`
	IsFeatured  bool        `gorm:"default:false" json:"is_featured"`
	PublishedAt *time.Time  `json:"published_at"`
	Image       string      `gorm:"size:1024" json:"image"` // reference path into the file store
	Brand       *Brand      `gorm:"foreignKey:BrandId" json:"brand,omitempty"`
	Categories  []Category  `gorm:"many2many:product_categories" json:"categories,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

type Brand struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:255;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Brand) TableName() string {
	return "brands"
}

type Category struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:255;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Category) TableName() string {
	return "categories"
}
