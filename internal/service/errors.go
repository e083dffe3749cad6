package service

import "errors"

// Error kinds surfaced by the core. Handlers translate these to transport
// codes with errors.Is; none of them are swallowed inside the services.
var (
	ErrNotFound              = errors.New("record not found")
	ErrInvalidDeletionReason = errors.New("confirmed items require reason 'return' or 'waste'")
	ErrNoOpenOrder           = errors.New("table has no open order")
	ErrInstrumentMismatch    = errors.New("payment method amounts do not match paid amount")
	ErrInsufficientPayment   = errors.New("paid amount is less than the amount due")
	ErrShiftAlreadyOpen      = errors.New("a shift is already open")
	ErrShiftClosed           = errors.New("shift is closed")
	ErrNotShiftOwner         = errors.New("only the user who opened the shift can close it")
	ErrWithdrawalExceedsCash = errors.New("withdrawal exceeds cash in drawer")
	ErrConcurrencyConflict   = errors.New("conflicting concurrent update")
)
