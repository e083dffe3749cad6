package service

import (
	"fmt"

	"restaurant-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// InventoryService owns the append-only stock ledger. There is no update or
// delete path for movements; corrections are new movements with
// reason=adjustment.
type InventoryService struct {
	db *gorm.DB
}

func NewInventoryService(db *gorm.DB) *InventoryService {
	return &InventoryService{db: db}
}

// Record appends one movement inside the caller's transaction.
func (s *InventoryService) Record(tx *gorm.DB, itemID uint, direction string, quantity, price decimal.Decimal, reason string) error {
	if direction != models.MovementAdd && direction != models.MovementRemove {
		return fmt.Errorf("invalid movement direction %q", direction)
	}
	if !quantity.IsPositive() {
		return fmt.Errorf("movement quantity must be positive, got %s", quantity)
	}

	movement := models.InventoryMovement{
		InventoryItemID: itemID,
		Direction:       direction,
		Quantity:        quantity,
		Reason:          reason,
		Price:           price.Round(2),
	}
	return tx.Create(&movement).Error
}

// RecordMealMovements appends one movement per ingredient of the meal,
// scaled by the number of meal units. A meal with no ingredient mapping is a
// no-op: not every meal is tracked in inventory.
func (s *InventoryService) RecordMealMovements(tx *gorm.DB, mealID uint, units int, direction, reason string) error {
	if units <= 0 {
		return nil
	}

	var mappings []models.MealIngredient
	if err := tx.Where("meal_id = ?", mealID).Find(&mappings).Error; err != nil {
		return err
	}

	unitCount := decimal.NewFromInt(int64(units))
	for _, m := range mappings {
		quantity := m.Quantity.Mul(unitCount)
		price := m.Price.Mul(quantity)
		if err := s.Record(tx, m.InventoryItemID, direction, quantity, price, reason); err != nil {
			return err
		}
	}
	return nil
}

// CurrentStock folds the ledger for one item: sum of adds minus sum of
// removes.
func (s *InventoryService) CurrentStock(itemID uint) (decimal.Decimal, error) {
	var item models.InventoryItem
	if err := s.db.First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return decimal.Zero, fmt.Errorf("inventory item %d: %w", itemID, ErrNotFound)
		}
		return decimal.Zero, err
	}

	var movements []models.InventoryMovement
	if err := s.db.Where("inventory_item_id = ?", itemID).Find(&movements).Error; err != nil {
		return decimal.Zero, err
	}

	stock := decimal.Zero
	for _, m := range movements {
		if m.Direction == models.MovementAdd {
			stock = stock.Add(m.Quantity)
		} else {
			stock = stock.Sub(m.Quantity)
		}
	}
	return stock, nil
}

// Purchase restocks an item.
func (s *InventoryService) Purchase(itemID uint, quantity, price decimal.Decimal) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("inventory item %d: %w", itemID, ErrNotFound)
			}
			return err
		}
		return s.Record(tx, itemID, models.MovementAdd, quantity, price, models.ReasonPurchase)
	})
}

// Adjust writes a manual correction after a physical count. Direction says
// which way the book stock was off.
func (s *InventoryService) Adjust(itemID uint, direction string, quantity decimal.Decimal) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("inventory item %d: %w", itemID, ErrNotFound)
			}
			return err
		}
		return s.Record(tx, itemID, direction, quantity, decimal.Zero, models.ReasonAdjustment)
	})
}

// Movements lists the ledger for one item, oldest first.
func (s *InventoryService) Movements(itemID uint) ([]models.InventoryMovement, error) {
	var movements []models.InventoryMovement
	err := s.db.Where("inventory_item_id = ?", itemID).Order("id asc").Find(&movements).Error
	return movements, err
}

// ItemStock pairs an item with its folded stock.
type ItemStock struct {
	Item  models.InventoryItem `json:"item"`
	Stock decimal.Decimal      `json:"stock"`
}

// LowStock returns every item whose folded stock is at or below its
// threshold.
func (s *InventoryService) LowStock() ([]ItemStock, error) {
	var items []models.InventoryItem
	if err := s.db.Find(&items).Error; err != nil {
		return nil, err
	}

	var low []ItemStock
	for _, item := range items {
		stock, err := s.CurrentStock(item.ID)
		if err != nil {
			return nil, err
		}
		if stock.LessThanOrEqual(item.LowStockThreshold) {
			low = append(low, ItemStock{Item: item, Stock: stock})
		}
	}
	return low, nil
}
