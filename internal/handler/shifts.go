package handler

import (
	"net/http"
	"time"

	"restaurant-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ShiftHandler struct {
	Shifts *service.ShiftService
}

func (h *ShiftHandler) StartShift(c *gin.Context) {
	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.Shifts.Start(c.GetUint("userID"), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shift)
}

func (h *ShiftHandler) CurrentShift(c *gin.Context) {
	shift, err := h.Shifts.Current()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) RecomputeShift(c *gin.Context) {
	shiftID, ok := pathID(c, "shift_id")
	if !ok {
		return
	}

	shift, err := h.Shifts.Recompute(shiftID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

type CloseShiftRequest struct {
	WithdrawnAmount decimal.Decimal `json:"withdrawn_amount"`
	Notes           string          `json:"notes"`
}

func (h *ShiftHandler) CloseShift(c *gin.Context) {
	shiftID, ok := pathID(c, "shift_id")
	if !ok {
		return
	}

	var req CloseShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shift, err := h.Shifts.Close(shiftID, c.GetUint("userID"), req.WithdrawnAmount, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, shift)
}

func (h *ShiftHandler) WindowReport(c *gin.Context) {
	start, end, ok := windowQuery(c)
	if !ok {
		return
	}

	report, err := h.Shifts.BuildReport(start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ShiftHandler) DailyReport(c *gin.Context) {
	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, day.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}

	report, err := h.Shifts.DailyReport(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ShiftHandler) MonthlyReport(c *gin.Context) {
	day := time.Now()
	if d := c.Query("month"); d != "" {
		parsed, err := time.ParseInLocation("2006-01", d, day.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		day = parsed
	}

	report, err := h.Shifts.MonthlyReport(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ShiftHandler) YearlyReport(c *gin.Context) {
	day := time.Now()
	if d := c.Query("year"); d != "" {
		parsed, err := time.ParseInLocation("2006", d, day.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		day = parsed
	}

	report, err := h.Shifts.YearlyReport(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ShiftHandler) PerWaitressSales(c *gin.Context) {
	day := time.Now()
	if d := c.Query("date"); d != "" {
		parsed, err := time.ParseInLocation("2006-01-02", d, day.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
			return
		}
		day = parsed
	}

	sales, err := h.Shifts.PerWaitressSales(day)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sales)
}
