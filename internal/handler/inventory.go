package handler

import (
	"net/http"

	"restaurant-pos/internal/models"
	"restaurant-pos/internal/service"
	"restaurant-pos/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type InventoryHandler struct {
	Inventory *service.InventoryService
}

func (h *InventoryHandler) ListItems(c *gin.Context) {
	var items []models.InventoryItem
	if err := database.DB.Find(&items).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

type CreateItemRequest struct {
	Name              string          `json:"name" binding:"required"`
	Unit              string          `json:"unit" binding:"required"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	OpeningStock      decimal.Decimal `json:"opening_stock"`
	OpeningPrice      decimal.Decimal `json:"opening_price"`
}

func (h *InventoryHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item := models.InventoryItem{
		Name:              req.Name,
		Unit:              req.Unit,
		LowStockThreshold: req.LowStockThreshold,
	}
	if err := database.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create inventory item"})
		return
	}

	if req.OpeningStock.IsPositive() {
		if err := h.Inventory.Purchase(item.ID, req.OpeningStock, req.OpeningPrice); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record opening stock"})
			return
		}
	}

	c.JSON(http.StatusCreated, item)
}

func (h *InventoryHandler) Stock(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	stock, err := h.Inventory.CurrentStock(itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "stock": stock})
}

type PurchaseRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	Price    decimal.Decimal `json:"price"`
}

func (h *InventoryHandler) Purchase(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Inventory.Purchase(itemID, req.Quantity, req.Price); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock added successfully"})
}

type AdjustRequest struct {
	Direction string          `json:"direction" binding:"required"` // add | remove
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req AdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Inventory.Adjust(itemID, req.Direction, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Adjustment recorded"})
}

func (h *InventoryHandler) Movements(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	movements, err := h.Inventory.Movements(itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, movements)
}

func (h *InventoryHandler) LowStockAlerts(c *gin.Context) {
	low, err := h.Inventory.LowStock()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, low)
}

type MappingRequest struct {
	InventoryItemID uint            `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	Price           decimal.Decimal `json:"price"`
}

func (h *InventoryHandler) SetMealMapping(c *gin.Context) {
	mealID, ok := pathID(c, "meal_id")
	if !ok {
		return
	}

	var req []MappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for _, m := range req {
		if !m.Quantity.IsPositive() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mapping quantity must be positive"})
			return
		}
		if m.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mapping price cannot be negative"})
			return
		}
	}

	tx := database.DB.Begin()
	if err := tx.Where("meal_id = ?", mealID).Delete(&models.MealIngredient{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to replace mapping"})
		return
	}
	for _, m := range req {
		mapping := models.MealIngredient{
			MealID:          mealID,
			InventoryItemID: m.InventoryItemID,
			Quantity:        m.Quantity,
			Price:           m.Price,
		}
		if err := tx.Create(&mapping).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save mapping"})
			return
		}
	}
	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Mapping saved"})
}

func (h *InventoryHandler) MealMapping(c *gin.Context) {
	mealID, ok := pathID(c, "meal_id")
	if !ok {
		return
	}

	var mappings []models.MealIngredient
	if err := database.DB.Preload("InventoryItem").Where("meal_id = ?", mealID).Find(&mappings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch mapping"})
		return
	}
	c.JSON(http.StatusOK, mappings)
}
