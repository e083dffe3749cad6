package service

import (
	"fmt"
	"time"

	"restaurant-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService owns the order/order-item lifecycle. Every mutation runs
// under a row lock on the order and recomputes the order total from the
// persisted item rows before committing.
type OrderService struct {
	db        *gorm.DB
	inventory *InventoryService
}

func NewOrderService(db *gorm.DB, inventory *InventoryService) *OrderService {
	return &OrderService{db: db, inventory: inventory}
}

// CreateOrder opens a tab on a table. The first open order on a table
// becomes the main order.
func (s *OrderService) CreateOrder(tableID uint, waitressID *uint, customerCount int) (*models.Order, error) {
	if customerCount < 1 {
		customerCount = 1
	}

	var order *models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("table %d: %w", tableID, ErrNotFound)
			}
			return err
		}

		var openCount int64
		if err := forUpdate(tx.Model(&models.Order{})).
			Where("table_id = ? AND is_paid = ? AND is_archived = ?", tableID, false, false).
			Count(&openCount).Error; err != nil {
			return asConflict(err)
		}

		order = &models.Order{
			TableID:       tableID,
			WaitressID:    waitressID,
			IsMain:        openCount == 0,
			CustomerCount: customerCount,
			TotalPrice:    decimal.Zero,
		}
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddOrInc adds a meal to an open order, or bumps the quantity of the
// existing unconfirmed line for that meal and customer slot. Runs under an
// order-level lock so two terminals adding the same meal cannot lose an
// update.
func (s *OrderService) AddOrInc(tableID, orderID, mealID uint, qty, customerNumber int) (*models.OrderItem, error) {
	if qty < 1 {
		qty = 1
	}
	if customerNumber < 1 {
		customerNumber = 1
	}

	var item *models.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOpenOrder(tx, tableID, orderID)
		if err != nil {
			return err
		}

		var meal models.Meal
		if err := tx.First(&meal, mealID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
			}
			return err
		}

		var existing models.OrderItem
		err = tx.Where("order_id = ? AND meal_id = ? AND confirmed = ? AND customer_number = ?",
			order.ID, mealID, false, customerNumber).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			existing = models.OrderItem{
				OrderID:        order.ID,
				MealID:         mealID,
				Quantity:       0,
				Price:          decimal.Zero,
				CustomerNumber: customerNumber,
			}
		case err != nil:
			return err
		}

		existing.Quantity += qty
		existing.Price = existing.Price.Add(meal.Price.Mul(decimal.NewFromInt(int64(qty)))).Round(2)
		existing.ItemAddedAt = time.Now()
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		item = &existing
		return s.recalcTotal(tx, order.ID)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Decrement lowers the quantity of an unconfirmed line. When the quantity
// reaches zero the line is deleted silently; unconfirmed lines never touched
// the ledger.
func (s *OrderService) Decrement(tableID, orderID, mealID uint, qty, customerNumber int) error {
	if qty < 1 {
		qty = 1
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOpenOrder(tx, tableID, orderID)
		if err != nil {
			return err
		}

		var meal models.Meal
		if err := tx.First(&meal, mealID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("meal %d: %w", mealID, ErrNotFound)
			}
			return err
		}

		query := tx.Where("order_id = ? AND meal_id = ? AND confirmed = ?", order.ID, mealID, false)
		if customerNumber > 0 {
			query = query.Where("customer_number = ?", customerNumber)
		}
		var item models.OrderItem
		if err := query.First(&item).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("order item for meal %d: %w", mealID, ErrNotFound)
			}
			return err
		}

		item.Quantity -= qty
		if item.Quantity <= 0 {
			if err := tx.Delete(&item).Error; err != nil {
				return err
			}
		} else {
			item.Price = item.Price.Sub(meal.Price.Mul(decimal.NewFromInt(int64(qty)))).Round(2)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		if err := s.recalcTotal(tx, order.ID); err != nil {
			return err
		}
		return s.archiveIfEmpty(tx, order.ID)
	})
}

// Confirm flips the given unconfirmed items to confirmed and deducts their
// ingredients from inventory. Ledger writes happen in the same transaction
// as the flag flip.
func (s *OrderService) Confirm(itemIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range itemIDs {
			item, err := s.lockItemWithOrder(tx, id)
			if err != nil {
				return err
			}
			if item.Confirmed {
				continue
			}
			if err := tx.Model(item).Update("confirmed", true).Error; err != nil {
				return err
			}
			if err := s.inventory.RecordMealMovements(tx, item.MealID, item.Quantity,
				models.MovementRemove, models.ReasonSold); err != nil {
				return err
			}
		}
		return nil
	})
}

// ConfirmOrder confirms every unconfirmed line of an order, returning the
// confirmed items for receipt rendering.
func (s *OrderService) ConfirmOrder(tableID, orderID uint) ([]models.OrderItem, error) {
	var confirmed []models.OrderItem
	err := s.db.Transaction(func(tx *gorm.DB) error {
		order, err := s.lockOpenOrder(tx, tableID, orderID)
		if err != nil {
			return err
		}

		var items []models.OrderItem
		if err := tx.Preload("Meal").
			Where("order_id = ? AND confirmed = ?", order.ID, false).
			Find(&items).Error; err != nil {
			return err
		}

		for i := range items {
			if err := tx.Model(&items[i]).Update("confirmed", true).Error; err != nil {
				return err
			}
			if err := s.inventory.RecordMealMovements(tx, items[i].MealID, items[i].Quantity,
				models.MovementRemove, models.ReasonSold); err != nil {
				return err
			}
			items[i].Confirmed = true
		}
		confirmed = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return confirmed, nil
}

// Unconfirm flips confirmed items back and returns their ingredients to
// stock, the exact mirror of Confirm.
func (s *OrderService) Unconfirm(itemIDs []uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range itemIDs {
			item, err := s.lockItemWithOrder(tx, id)
			if err != nil {
				return err
			}
			if !item.Confirmed {
				continue
			}
			if err := tx.Model(item).Update("confirmed", false).Error; err != nil {
				return err
			}
			if err := s.inventory.RecordMealMovements(tx, item.MealID, item.Quantity,
				models.MovementAdd, models.ReasonReturn); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetQuantity moves a line to an absolute quantity. For confirmed lines the
// ledger gets movements for the delta only; re-deriving from the absolute
// quantity would double-count what was already deducted.
func (s *OrderService) SetQuantity(itemID uint, newQty int) error {
	if newQty < 1 {
		return fmt.Errorf("quantity must be at least 1, got %d", newQty)
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.lockItemWithOrder(tx, itemID)
		if err != nil {
			return err
		}

		var meal models.Meal
		if err := tx.First(&meal, item.MealID).Error; err != nil {
			return err
		}

		diff := newQty - item.Quantity
		if diff == 0 {
			return nil
		}

		item.Quantity = newQty
		item.Price = meal.Price.Mul(decimal.NewFromInt(int64(newQty))).Round(2)
		if err := tx.Save(item).Error; err != nil {
			return err
		}

		if item.Confirmed {
			if diff > 0 {
				if err := s.inventory.RecordMealMovements(tx, item.MealID, diff,
					models.MovementRemove, models.ReasonSold); err != nil {
					return err
				}
			} else {
				if err := s.inventory.RecordMealMovements(tx, item.MealID, -diff,
					models.MovementAdd, models.ReasonReturn); err != nil {
					return err
				}
			}
		}

		return s.recalcTotal(tx, item.OrderID)
	})
}

// Delete removes a line. Unconfirmed lines vanish silently. Confirmed lines
// require a reason (return or waste), always leave a deletion log entry, and
// only reason=return puts the ingredients back on the ledger — waste is
// consumed stock, not returned stock. Log entry, ledger movements and the
// row deletion are one atomic unit.
func (s *OrderService) Delete(itemID uint, reason string, actedByID *uint, comment string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.lockItemWithOrder(tx, itemID)
		if err != nil {
			return err
		}

		if !item.Confirmed {
			if err := tx.Delete(item).Error; err != nil {
				return err
			}
			if err := s.recalcTotal(tx, item.OrderID); err != nil {
				return err
			}
			return s.archiveIfEmpty(tx, item.OrderID)
		}

		if reason != models.DeletionReasonReturn && reason != models.DeletionReasonWaste {
			return fmt.Errorf("reason %q: %w", reason, ErrInvalidDeletionReason)
		}

		var order models.Order
		if err := tx.Preload("Waitress").First(&order, item.OrderID).Error; err != nil {
			return err
		}
		var meal models.Meal
		if err := tx.First(&meal, item.MealID).Error; err != nil {
			return err
		}

		waitressName := ""
		if order.Waitress != nil {
			waitressName = order.Waitress.FullName()
		}

		entry := models.OrderItemDeletionLog{
			OrderID:        order.ID,
			OrderItemID:    item.ID,
			TableID:        order.TableID,
			WaitressName:   waitressName,
			MealName:       meal.Name,
			Quantity:       decimal.NewFromInt(int64(item.Quantity)),
			Price:          item.Price,
			CustomerNumber: item.CustomerNumber,
			Reason:         reason,
			Comment:        comment,
			DeletedByID:    actedByID,
			DeletedAt:      time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		if reason == models.DeletionReasonReturn {
			if err := s.inventory.RecordMealMovements(tx, item.MealID, item.Quantity,
				models.MovementAdd, models.ReasonReturn); err != nil {
				return err
			}
		}

		if err := tx.Delete(item).Error; err != nil {
			return err
		}
		if err := s.recalcTotal(tx, item.OrderID); err != nil {
			return err
		}
		return s.archiveIfEmpty(tx, item.OrderID)
	})
}

// SetItemComment attaches kitchen notes to a line.
func (s *OrderService) SetItemComment(itemID uint, comment string) error {
	res := s.db.Model(&models.OrderItem{}).Where("id = ?", itemID).Update("comment", comment)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
	}
	return nil
}

// TransferItem moves a line to another open order, for table changes and
// bill splits. Both order totals are recomputed.
func (s *OrderService) TransferItem(itemID, targetOrderID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		item, err := s.lockItemWithOrder(tx, itemID)
		if err != nil {
			return err
		}
		if item.OrderID == targetOrderID {
			return nil
		}

		var target models.Order
		if err := forUpdate(tx).
			Where("id = ? AND is_paid = ? AND is_archived = ?", targetOrderID, false, false).
			First(&target).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("order %d: %w", targetOrderID, ErrNotFound)
			}
			return asConflict(err)
		}

		sourceID := item.OrderID
		if err := tx.Model(item).Update("order_id", target.ID).Error; err != nil {
			return err
		}
		if err := s.recalcTotal(tx, sourceID); err != nil {
			return err
		}
		if err := s.recalcTotal(tx, target.ID); err != nil {
			return err
		}
		return s.archiveIfEmpty(tx, sourceID)
	})
}

// ChangeWaitress reassigns an open order.
func (s *OrderService) ChangeWaitress(orderID, waitressID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var waitress models.User
		if err := tx.First(&waitress, waitressID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("user %d: %w", waitressID, ErrNotFound)
			}
			return err
		}

		res := forUpdate(tx.Model(&models.Order{})).
			Where("id = ? AND is_paid = ? AND is_archived = ?", orderID, false, false).
			Update("waitress_id", waitressID)
		if res.Error != nil {
			return asConflict(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil
	})
}

// GetOrder loads one order with its items.
func (s *OrderService) GetOrder(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Items").Preload("Items.Meal").Preload("Table").First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order %d: %w", orderID, ErrNotFound)
		}
		return nil, err
	}
	return &order, nil
}

// ListOrders returns orders, optionally including archived history. Reports
// pass includeArchived=true; the floor view never does.
func (s *OrderService) ListOrders(includeArchived bool) ([]models.Order, error) {
	query := s.db.Preload("Items").Preload("Table").Order("id desc")
	if !includeArchived {
		query = query.Where("is_archived = ?", false)
	}
	var orders []models.Order
	err := query.Find(&orders).Error
	return orders, err
}

// TableOrders returns the open orders on a table.
func (s *OrderService) TableOrders(tableID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Preload("Items").Preload("Items.Meal").
		Where("table_id = ? AND is_paid = ? AND is_archived = ?", tableID, false, false).
		Order("id asc").Find(&orders).Error
	return orders, err
}

// lockOpenOrder locks the target open order of a table: the given order if
// orderID is set, otherwise the table's main order.
func (s *OrderService) lockOpenOrder(tx *gorm.DB, tableID, orderID uint) (*models.Order, error) {
	query := forUpdate(tx).Where("table_id = ? AND is_paid = ? AND is_archived = ?", tableID, false, false)
	if orderID != 0 {
		query = query.Where("id = ?", orderID)
	} else {
		query = query.Where("is_main = ?", true)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("open order on table %d: %w", tableID, ErrNotFound)
		}
		return nil, asConflict(err)
	}
	return &order, nil
}

// lockItemWithOrder loads an item after locking its order row, so every item
// mutation serializes on the owning order.
func (s *OrderService) lockItemWithOrder(tx *gorm.DB, itemID uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := tx.First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	var order models.Order
	if err := forUpdate(tx).First(&order, item.OrderID).Error; err != nil {
		return nil, asConflict(err)
	}

	// Re-read under the lock; the row may have changed while we waited.
	if err := tx.First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}
	return &item, nil
}

// recalcTotal re-derives the order total from the persisted item rows,
// never from caller-held arithmetic.
func (s *OrderService) recalcTotal(tx *gorm.DB, orderID uint) error {
	var items []models.OrderItem
	if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return err
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).
		Update("total_price", total.Round(2)).Error
}

// archiveIfEmpty archives an order once its last line is gone.
func (s *OrderService) archiveIfEmpty(tx *gorm.DB, orderID uint) error {
	var count int64
	if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Model(&models.Order{}).Where("id = ?", orderID).Update("is_archived", true).Error
}
