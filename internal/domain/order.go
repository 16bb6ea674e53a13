package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusDeclined   OrderStatus = "declined"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusCompleted, OrderStatusDeclined:
		return true
	}
	return false
}

// Order aggregates line items for a customer. Number is generated at
// creation and immutable; TotalPrice is derived from the item set and
// recomputed after every item write.
type Order struct {
	ID            int64       `gorm:"primaryKey" json:"id,string"`
	Number        string      `gorm:"size:32;uniqueIndex" json:"number"`
	CustomerId    int64       `gorm:"index" json:"customer_id,string"`
	ShippingPrice float64     `gorm:"type:decimal(8,2)" json:"shipping_price"`
	Status        OrderStatus `gorm:"size:20;index" json:"status"`
	Notes         string      `gorm:"type:text" json:"notes"`
	TotalPrice    float64     `gorm:"type:decimal(10,2)" json:"total_price"`
	Customer      *Customer   `gorm:"foreignKey:CustomerId" json:"customer,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderId" json:"items,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem carries a unit price snapshotted from the product at selection
// time; later product price changes do not touch existing items.
type OrderItem struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	OrderId   int64     `gorm:"index" json:"order_id,string"`
	ProductId int64     `gorm:"index" json:"product_id,string"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `gorm:"type:decimal(8,2)" json:"unit_price"`
	Product   *Product  `gorm:"foreignKey:ProductId" json:"product,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
