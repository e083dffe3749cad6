package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type InventoryItem struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	Name              string          `gorm:"size:150;not null" json:"name"`
	Unit              string          `gorm:"size:20;not null" json:"unit"` // kg, l, pcs
	LowStockThreshold decimal.Decimal `gorm:"type:decimal(10,3);default:0" json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

const (
	MovementAdd    = "add"
	MovementRemove = "remove"
)

const (
	ReasonPurchase   = "purchase"
	ReasonSold       = "sold"
	ReasonReturn     = "return"
	ReasonWaste      = "waste"
	ReasonAdjustment = "adjustment"
)

// InventoryMovement is one row of the append-only stock ledger. Movements are
// never updated or deleted; corrections are new movements with
// reason=adjustment. Current stock is always a fold over this table.
type InventoryMovement struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	InventoryItemID uint            `gorm:"index;not null" json:"inventory_item_id"`
	InventoryItem   InventoryItem   `gorm:"foreignKey:InventoryItemID" json:"inventory_item"`
	Direction       string          `gorm:"size:10;not null" json:"direction"` // add | remove
	Quantity        decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Reason          string          `gorm:"size:20;not null;index" json:"reason"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);default:0" json:"price"`
	CreatedAt       time.Time       `json:"created_at"`
}
