package handler

import (
	"net/http"
	"strconv"

	"restaurant-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	Orders *service.OrderService
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

type CreateOrderRequest struct {
	WaitressID    *uint `json:"waitress_id"`
	CustomerCount int   `json:"customer_count"`
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.CreateOrder(tableID, req.WaitressID, req.CustomerCount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) TableOrders(c *gin.Context) {
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return
	}

	orders, err := h.Orders.TableOrders(tableID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"
	orders, err := h.Orders.ListOrders(includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

type AddItemRequest struct {
	OrderID        uint `json:"order_id"`
	MealID         uint `json:"meal_id" binding:"required"`
	Quantity       int  `json:"quantity"`
	CustomerNumber int  `json:"customer_number"`
}

func (h *OrderHandler) AddItem(c *gin.Context) {
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Orders.AddOrInc(tableID, req.OrderID, req.MealID, req.Quantity, req.CustomerNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *OrderHandler) DecrementItem(c *gin.Context) {
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.Decrement(tableID, req.OrderID, req.MealID, req.Quantity, req.CustomerNumber); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) ConfirmOrder(c *gin.Context) {
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return
	}

	var req struct {
		OrderID uint `json:"order_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.Orders.ConfirmOrder(tableID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"confirmed": len(items), "items": items})
}

type DeleteItemRequest struct {
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

func (h *OrderHandler) DeleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req DeleteItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetUint("userID")
	var actedBy *uint
	if userID != 0 {
		actedBy = &userID
	}

	if err := h.Orders.Delete(itemID, req.Reason, actedBy, req.Comment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) SetQuantity(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.SetQuantity(itemID, req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) SetItemComment(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.SetItemComment(itemID, req.Comment); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) TransferItem(c *gin.Context) {
	itemID, ok := pathID(c, "item_id")
	if !ok {
		return
	}

	var req struct {
		TargetOrderID uint `json:"target_order_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.TransferItem(itemID, req.TargetOrderID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) ChangeWaitress(c *gin.Context) {
	orderID, ok := pathID(c, "order_id")
	if !ok {
		return
	}

	var req struct {
		WaitressID uint `json:"waitress_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Orders.ChangeWaitress(orderID, req.WaitressID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
