package domain

import "time"

type Customer struct {
	ID        int64     `gorm:"primaryKey" json:"id,string"`
	Name      string    `gorm:"size:255;index" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex" json:"email"`
	Phone     string    `gorm:"size:64" json:"phone"`
	Address   string    `gorm:"size:512" json:"address"`
	City      string    `gorm:"size:128" json:"city"`
	Country   string    `gorm:"size:128" json:"country"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}
