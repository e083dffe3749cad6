package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Shift is one cash-drawer accounting period. At most one shift is open
// system-wide at any time; a closed shift is immutable.
type Shift struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OpenedByID      uint            `gorm:"not null" json:"opened_by_id"`
	OpenedBy        User            `gorm:"foreignKey:OpenedByID" json:"opened_by"`
	StartTime       time.Time       `gorm:"not null" json:"start_time"`
	InitialCash     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"initial_cash"`
	Notes           string          `gorm:"type:text" json:"notes"`
	CashTotal       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"cash_total"`
	CardTotal       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"card_total"`
	OtherTotal      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"other_total"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	WithdrawnAmount decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"withdrawn_amount"`
	RemainingCash   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"remaining_cash"`
	IsClosed        bool            `gorm:"default:false;index" json:"is_closed"`
	ClosedByID      *uint           `json:"closed_by_id"`
	ClosedBy        *User           `gorm:"foreignKey:ClosedByID" json:"closed_by,omitempty"`
	EndTime         *time.Time      `json:"end_time"`
	ClosingNotes    string          `gorm:"type:text" json:"closing_notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Orders          []Order         `gorm:"many2many:shift_orders" json:"-"`
}

// Report is a time-window snapshot over settled and unsettled orders.
// Recomputing the same window overwrites the same row.
type Report struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StartDatetime time.Time       `gorm:"not null;uniqueIndex:idx_report_window" json:"start_datetime"`
	EndDatetime   time.Time       `gorm:"not null;uniqueIndex:idx_report_window" json:"end_datetime"`
	CashTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"cash_total"`
	CardTotal     decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"card_total"`
	OtherTotal    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"other_total"`
	UnpaidTotal   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"unpaid_total"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
