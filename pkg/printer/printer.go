package printer

import (
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// Line is one receipt row.
type Line struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// MethodLine is one payment instrument row on the receipt.
type MethodLine struct {
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

// Receipt is the plain payload handed to the printing collaborator. The core
// never depends on printer hardware details.
type Receipt struct {
	RestaurantName string          `json:"restaurant_name"`
	ReceiptNo      string          `json:"receipt_no"`
	TableNumber    string          `json:"table_number"`
	Lines          []Line          `json:"lines"`
	Total          decimal.Decimal `json:"total"`
	Discount       decimal.Decimal `json:"discount"`
	Final          decimal.Decimal `json:"final"`
	Paid           decimal.Decimal `json:"paid"`
	Change         decimal.Decimal `json:"change"`
	Methods        []MethodLine    `json:"methods"`
	PaidAt         time.Time       `json:"paid_at"`
}

// Printer renders a receipt somewhere. Failures are reported back but the
// caller treats them as non-fatal: printing sits outside the consistency
// boundary.
type Printer interface {
	Print(r Receipt) error
}

// LogPrinter writes receipts to the application log. Stands in for the
// network printer service in development and tests.
type LogPrinter struct{}

func (LogPrinter) Print(r Receipt) error {
	log.Printf("receipt %s | table %s | total %s discount %s final %s paid %s change %s",
		r.ReceiptNo, r.TableNumber, r.Total, r.Discount, r.Final, r.Paid, r.Change)
	return nil
}
