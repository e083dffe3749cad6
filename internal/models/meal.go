package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MealCategory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Meals       []Meal    `gorm:"foreignKey:CategoryID" json:"-"`
}

type Meal struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	CategoryID  *uint           `json:"category_id"`
	Category    *MealCategory   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	IsActive    bool            `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Ingredients []MealIngredient `gorm:"foreignKey:MealID" json:"ingredients,omitempty"`
}

// MealIngredient maps one meal to the inventory items consumed per prepared
// unit. Quantity is the amount of the item used for a single unit of the meal
// (e.g. 0.200 kg), Price is the unit price of the item at mapping time.
type MealIngredient struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MealID          uint            `gorm:"not null;uniqueIndex:idx_meal_item" json:"meal_id"`
	InventoryItemID uint            `gorm:"not null;uniqueIndex:idx_meal_item" json:"inventory_item_id"`
	InventoryItem   InventoryItem   `gorm:"foreignKey:InventoryItemID" json:"inventory_item"`
	Quantity        decimal.Decimal `gorm:"type:decimal(10,3);not null" json:"quantity"`
	Price           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
}
