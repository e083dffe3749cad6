package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DeletionReasonReturn = "return"
	DeletionReasonWaste  = "waste"
)

// OrderItemDeletionLog is the audit row written whenever a confirmed order
// item is removed. Rows are never mutated.
type OrderItemDeletionLog struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderID        uint            `gorm:"not null" json:"order_id"`
	OrderItemID    uint            `gorm:"not null" json:"order_item_id"`
	TableID        uint            `gorm:"not null" json:"table_id"`
	WaitressName   string          `gorm:"size:150" json:"waitress_name"`
	MealName       string          `gorm:"size:255;not null" json:"meal_name"`
	Quantity       decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CustomerNumber int             `json:"customer_number"`
	Reason         string          `gorm:"size:20;not null;index:idx_reason_deleted" json:"reason"` // return | waste
	Comment        string          `gorm:"type:text" json:"comment"`
	DeletedByID    *uint           `json:"deleted_by_id"`
	DeletedBy      *User           `gorm:"foreignKey:DeletedByID" json:"deleted_by,omitempty"`
	DeletedAt      time.Time       `gorm:"index:idx_reason_deleted" json:"deleted_at"`
}
