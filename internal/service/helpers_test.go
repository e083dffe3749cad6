package service

import (
	"testing"

	"restaurant-pos/internal/models"
	"restaurant-pos/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.ConnectTest()
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Room{},
		&models.Table{},
		&models.MealCategory{},
		&models.Meal{},
		&models.InventoryItem{},
		&models.MealIngredient{},
		&models.InventoryMovement{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemDeletionLog{},
		&models.Payment{},
		&models.PaymentMethod{},
		&models.Shift{},
		&models.Report{},
	)
	require.NoError(t, err)
	return db
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func seedUser(t *testing.T, db *gorm.DB, employeeID, username string) *models.User {
	t.Helper()

	role := models.Role{Name: "waitress-" + employeeID}
	require.NoError(t, db.Create(&role).Error)

	user := models.User{
		EmployeeID:   employeeID,
		Username:     username,
		PasswordHash: "x",
		RoleID:       role.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func seedTable(t *testing.T, db *gorm.DB, number string) *models.Table {
	t.Helper()

	table := models.Table{Number: number, Capacity: 4}
	require.NoError(t, db.Create(&table).Error)
	return &table
}

func seedMeal(t *testing.T, db *gorm.DB, name, price string) *models.Meal {
	t.Helper()

	meal := models.Meal{Name: name, Price: dec(price), IsActive: true}
	require.NoError(t, db.Create(&meal).Error)
	return &meal
}

func seedInventoryItem(t *testing.T, db *gorm.DB, name, unit string) *models.InventoryItem {
	t.Helper()

	item := models.InventoryItem{Name: name, Unit: unit}
	require.NoError(t, db.Create(&item).Error)
	return &item
}

func mapIngredient(t *testing.T, db *gorm.DB, mealID, itemID uint, qty, price string) {
	t.Helper()

	mapping := models.MealIngredient{
		MealID:          mealID,
		InventoryItemID: itemID,
		Quantity:        dec(qty),
		Price:           dec(price),
	}
	require.NoError(t, db.Create(&mapping).Error)
}

func itemMovements(t *testing.T, db *gorm.DB, itemID uint) []models.InventoryMovement {
	t.Helper()

	var movements []models.InventoryMovement
	require.NoError(t, db.Where("inventory_item_id = ?", itemID).Order("id asc").Find(&movements).Error)
	return movements
}
