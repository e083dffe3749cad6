package handler

import (
	"errors"
	"net/http"

	"restaurant-pos/internal/service"

	"github.com/gin-gonic/gin"
)

// respondError maps the core error taxonomy onto HTTP status codes. The
// wrapped detail goes to the client unchanged.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidDeletionReason),
		errors.Is(err, service.ErrNoOpenOrder),
		errors.Is(err, service.ErrInstrumentMismatch),
		errors.Is(err, service.ErrInsufficientPayment),
		errors.Is(err, service.ErrWithdrawalExceedsCash):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrNotShiftOwner):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrShiftAlreadyOpen),
		errors.Is(err, service.ErrShiftClosed),
		errors.Is(err, service.ErrConcurrencyConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
