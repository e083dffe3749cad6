package handler

import (
	"net/http"
	"time"

	"restaurant-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	Payments *service.PaymentService
}

type InstrumentRequest struct {
	Type   string          `json:"type" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type SettleRequest struct {
	Instruments     []InstrumentRequest `json:"instruments"`
	DiscountAmount  decimal.Decimal     `json:"discount_amount"`
	DiscountComment string              `json:"discount_comment"`
	PaidAmount      decimal.Decimal     `json:"paid_amount" binding:"required"`
}

func (h *PaymentHandler) Settle(c *gin.Context) {
	tableID, ok := pathID(c, "table_id")
	if !ok {
		return
	}

	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	instruments := make([]service.Instrument, 0, len(req.Instruments))
	for _, ins := range req.Instruments {
		instruments = append(instruments, service.Instrument{Type: ins.Type, Amount: ins.Amount})
	}

	userID := c.GetUint("userID")
	var operator *uint
	if userID != 0 {
		operator = &userID
	}

	payment, err := h.Payments.Settle(tableID, instruments, req.DiscountAmount, req.DiscountComment, req.PaidAmount, operator)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"details": gin.H{
			"payment_id":  payment.ID,
			"receipt_no":  payment.ReceiptNo,
			"total_price": payment.TotalPrice,
			"discount":    payment.DiscountAmount,
			"final_price": payment.FinalPrice,
			"paid_amount": payment.PaidAmount,
			"change":      payment.Change,
		},
	})
}

func (h *PaymentHandler) ListPayments(c *gin.Context) {
	start, end, ok := windowQuery(c)
	if !ok {
		return
	}

	payments, err := h.Payments.ListPayments(start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// windowQuery parses start_date/end_date (YYYY-MM-DD, end exclusive,
// defaulting to today).
func windowQuery(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	if s := c.Query("start_date"); s != "" {
		parsed, err := time.ParseInLocation("2006-01-02", s, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return start, end, false
		}
		start = parsed
	}
	if e := c.Query("end_date"); e != "" {
		parsed, err := time.ParseInLocation("2006-01-02", e, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return start, end, false
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, true
}
