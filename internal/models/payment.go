package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentTypeCash  = "cash"
	PaymentTypeCard  = "card"
	PaymentTypeOther = "other"
)

// Payment is one settlement event for a table. Created exactly once per
// settlement and immutable after that.
type Payment struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	ReceiptNo       string          `gorm:"size:36;unique;not null" json:"receipt_no"`
	TableID         uint            `gorm:"index;not null" json:"table_id"`
	Table           Table           `gorm:"foreignKey:TableID" json:"table"`
	Orders          []Order         `gorm:"many2many:payment_orders" json:"orders,omitempty"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_price"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount_amount"`
	DiscountComment string          `gorm:"size:255" json:"discount_comment"`
	FinalPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"final_price"`
	PaidAmount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"paid_amount"`
	Change          decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"change"`
	PaidByID        *uint           `json:"paid_by_id"`
	PaidBy          *User           `gorm:"foreignKey:PaidByID" json:"paid_by,omitempty"`
	PaidAt          time.Time       `json:"paid_at"`
	Methods         []PaymentMethod `gorm:"foreignKey:PaymentID" json:"methods"`
}

// PaymentMethod is one instrument line of a payment. The sum of a payment's
// method amounts always equals its paid amount.
type PaymentMethod struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	PaymentID   uint            `gorm:"index;not null" json:"payment_id"`
	PaymentType string          `gorm:"size:20;not null" json:"payment_type"` // cash | card | other
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
