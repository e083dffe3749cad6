package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	TableID       uint            `gorm:"index;not null" json:"table_id"`
	Table         Table           `gorm:"foreignKey:TableID" json:"table"`
	WaitressID    *uint           `json:"waitress_id"`
	Waitress      *User           `gorm:"foreignKey:WaitressID" json:"waitress,omitempty"`
	IsPaid        bool            `gorm:"default:false;index" json:"is_paid"`
	IsArchived    bool            `gorm:"default:false;index" json:"is_archived"`
	IsMain        bool            `gorm:"default:false" json:"is_main"`
	CustomerCount int             `gorm:"default:1" json:"customer_count"`
	TotalPrice    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

type OrderItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderID        uint            `gorm:"index;not null" json:"order_id"`
	MealID         uint            `gorm:"index;not null" json:"meal_id"`
	Meal           Meal            `gorm:"foreignKey:MealID" json:"meal"`
	Quantity       int             `gorm:"default:1" json:"quantity"`
	Price          decimal.Decimal `gorm:"type:decimal(9,2);not null;default:0" json:"price"`
	Confirmed      bool            `gorm:"default:false" json:"confirmed"`
	CustomerNumber int             `gorm:"default:1" json:"customer_number"`
	Comment        string          `gorm:"type:text" json:"comment"`
	ItemAddedAt    time.Time       `json:"item_added_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
