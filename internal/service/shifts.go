package service

import (
	"fmt"
	"time"

	"restaurant-pos/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ShiftService owns cash-drawer shifts and the window reports derived from
// the same payment fold. At most one shift is open at any time.
type ShiftService struct {
	db *gorm.DB
}

func NewShiftService(db *gorm.DB) *ShiftService {
	return &ShiftService{db: db}
}

// Start opens a new shift. The open-shift check runs under a row lock so two
// concurrent opens serialize; the initial cash float carries over from the
// previous closed shift.
func (s *ShiftService) Start(userID uint, notes string) (*models.Shift, error) {
	var shift *models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return err
		}

		var open models.Shift
		err := forUpdate(tx).Where("is_closed = ?", false).First(&open).Error
		switch {
		case err == nil:
			return fmt.Errorf("shift %d: %w", open.ID, ErrShiftAlreadyOpen)
		case err != gorm.ErrRecordNotFound:
			return asConflict(err)
		}

		initialCash := decimal.Zero
		var last models.Shift
		err = tx.Where("is_closed = ?", true).Order("end_time desc").First(&last).Error
		switch {
		case err == nil:
			initialCash = last.RemainingCash
		case err != gorm.ErrRecordNotFound:
			return err
		}

		shift = &models.Shift{
			OpenedByID:  userID,
			StartTime:   time.Now(),
			InitialCash: initialCash,
			Notes:       notes,
		}
		return tx.Create(shift).Error
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// Current returns the open shift.
func (s *ShiftService) Current() (*models.Shift, error) {
	var shift models.Shift
	if err := s.db.Preload("OpenedBy").Where("is_closed = ?", false).First(&shift).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("open shift: %w", ErrNotFound)
		}
		return nil, err
	}
	return &shift, nil
}

// Recompute re-derives the open shift's totals from the currently paid
// payments. Idempotent: running it twice with no new payments yields the
// same totals.
func (s *ShiftService) Recompute(shiftID uint) (*models.Shift, error) {
	var shift *models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.lockShift(tx, shiftID)
		if err != nil {
			return err
		}
		if locked.IsClosed {
			return fmt.Errorf("shift %d: %w", shiftID, ErrShiftClosed)
		}
		if err := s.recomputeLocked(tx, locked); err != nil {
			return err
		}
		shift = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// Close ends a shift: recomputes a final time, checks the withdrawal against
// the drawer, archives every order folded into the shift, and freezes the
// record.
func (s *ShiftService) Close(shiftID, userID uint, withdrawn decimal.Decimal, notes string) (*models.Shift, error) {
	var shift *models.Shift
	err := s.db.Transaction(func(tx *gorm.DB) error {
		locked, err := s.lockShift(tx, shiftID)
		if err != nil {
			return err
		}
		if locked.IsClosed {
			return fmt.Errorf("shift %d: %w", shiftID, ErrShiftClosed)
		}
		if locked.OpenedByID != userID {
			return fmt.Errorf("user %d: %w", userID, ErrNotShiftOwner)
		}

		if err := s.recomputeLocked(tx, locked); err != nil {
			return err
		}

		withdrawn = withdrawn.Round(2)
		drawer := locked.CashTotal.Add(locked.InitialCash)
		if withdrawn.GreaterThan(drawer) {
			return fmt.Errorf("withdrawing %s from %s: %w", withdrawn, drawer, ErrWithdrawalExceedsCash)
		}

		// Orders reconciled into this shift drop out of future open views.
		var folded []models.Order
		if err := tx.Model(locked).Association("Orders").Find(&folded); err != nil {
			return err
		}
		if len(folded) > 0 {
			ids := make([]uint, 0, len(folded))
			for _, o := range folded {
				ids = append(ids, o.ID)
			}
			if err := tx.Model(&models.Order{}).Where("id IN ?", ids).
				Update("is_archived", true).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		locked.WithdrawnAmount = withdrawn
		locked.RemainingCash = locked.InitialCash.Add(locked.CashTotal).Sub(withdrawn)
		locked.IsClosed = true
		locked.ClosedByID = &userID
		locked.EndTime = &now
		locked.ClosingNotes = notes
		if err := tx.Save(locked).Error; err != nil {
			return err
		}

		shift = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shift, nil
}

// BuildReport folds the window [start, end): payment instrument totals with
// the change-netting rule plus the unpaid total of open orders. Archived
// orders are included — the window report sees history the per-shift view
// deliberately excludes. Re-running the same window overwrites the same row.
func (s *ShiftService) BuildReport(start, end time.Time) (*models.Report, error) {
	var report *models.Report
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var payments []models.Payment
		if err := tx.Preload("Methods").
			Where("paid_at >= ? AND paid_at < ?", start, end).
			Find(&payments).Error; err != nil {
			return err
		}

		cash, card, other := foldMethods(payments)

		var unpaidOrders []models.Order
		if err := tx.Where("is_paid = ? AND created_at >= ? AND created_at < ?", false, start, end).
			Find(&unpaidOrders).Error; err != nil {
			return err
		}
		unpaid := decimal.Zero
		for _, o := range unpaidOrders {
			unpaid = unpaid.Add(o.TotalPrice)
		}

		var existing models.Report
		err := tx.Where("start_datetime = ? AND end_datetime = ?", start, end).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		existing.StartDatetime = start
		existing.EndDatetime = end
		existing.CashTotal = cash
		existing.CardTotal = card
		existing.OtherTotal = other
		existing.UnpaidTotal = unpaid
		existing.TotalAmount = cash.Add(card).Add(other).Add(unpaid)
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		report = &existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// DailyReport builds the report for one calendar day.
func (s *ShiftService) DailyReport(day time.Time) (*models.Report, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.BuildReport(start, start.AddDate(0, 0, 1))
}

// MonthlyReport builds the report for one calendar month.
func (s *ShiftService) MonthlyReport(day time.Time) (*models.Report, error) {
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	return s.BuildReport(start, start.AddDate(0, 1, 0))
}

// YearlyReport builds the report for one calendar year.
func (s *ShiftService) YearlyReport(day time.Time) (*models.Report, error) {
	start := time.Date(day.Year(), 1, 1, 0, 0, 0, 0, day.Location())
	return s.BuildReport(start, start.AddDate(1, 0, 0))
}

// WaitressSales is one waitress's paid-order total for a day.
type WaitressSales struct {
	WaitressID uint            `json:"waitress_id"`
	Name       string          `json:"name"`
	Total      decimal.Decimal `json:"total"`
}

// PerWaitressSales aggregates paid orders by waitress for one calendar day,
// archived orders included.
func (s *ShiftService) PerWaitressSales(day time.Time) ([]WaitressSales, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var orders []models.Order
	if err := s.db.Preload("Waitress").
		Where("is_paid = ? AND waitress_id IS NOT NULL AND created_at >= ? AND created_at < ?", true, start, end).
		Find(&orders).Error; err != nil {
		return nil, err
	}

	byWaitress := map[uint]*WaitressSales{}
	var seen []uint
	for _, o := range orders {
		id := *o.WaitressID
		entry, ok := byWaitress[id]
		if !ok {
			name := ""
			if o.Waitress != nil {
				name = o.Waitress.FullName()
			}
			entry = &WaitressSales{WaitressID: id, Name: name, Total: decimal.Zero}
			byWaitress[id] = entry
			seen = append(seen, id)
		}
		entry.Total = entry.Total.Add(o.TotalPrice)
	}

	sales := make([]WaitressSales, 0, len(seen))
	for _, id := range seen {
		sales = append(sales, *byWaitress[id])
	}
	return sales, nil
}

// lockShift loads a shift under an exclusive row lock.
func (s *ShiftService) lockShift(tx *gorm.DB, shiftID uint) (*models.Shift, error) {
	var shift models.Shift
	if err := forUpdate(tx).First(&shift, shiftID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("shift %d: %w", shiftID, ErrNotFound)
		}
		return nil, asConflict(err)
	}
	return &shift, nil
}

// recomputeLocked folds every payment whose orders are currently paid and
// not yet archived into the shift totals, and links those orders to the
// shift so Close can archive exactly what was counted.
func (s *ShiftService) recomputeLocked(tx *gorm.DB, shift *models.Shift) error {
	var payments []models.Payment
	if err := tx.Preload("Methods").Preload("Orders").Find(&payments).Error; err != nil {
		return err
	}

	var counted []models.Payment
	var foldedOrders []models.Order
	for _, p := range payments {
		live := false
		for _, o := range p.Orders {
			if o.IsPaid && !o.IsArchived {
				live = true
				foldedOrders = append(foldedOrders, o)
			}
		}
		if live {
			counted = append(counted, p)
		}
	}

	cash, card, other := foldMethods(counted)

	shift.CashTotal = cash
	shift.CardTotal = card
	shift.OtherTotal = other
	shift.Total = cash.Add(card).Add(other).Add(shift.InitialCash)
	if err := tx.Save(shift).Error; err != nil {
		return err
	}
	return tx.Model(shift).Association("Orders").Replace(&foldedOrders)
}

// foldMethods sums instrument lines per kind with the first-cash change
// netting applied per payment.
func foldMethods(payments []models.Payment) (cash, card, other decimal.Decimal) {
	cash, card, other = decimal.Zero, decimal.Zero, decimal.Zero
	for i := range payments {
		p := &payments[i]
		net := NetMethodAmounts(p)
		for j, m := range p.Methods {
			switch m.PaymentType {
			case models.PaymentTypeCash:
				cash = cash.Add(net[j])
			case models.PaymentTypeCard:
				card = card.Add(net[j])
			case models.PaymentTypeOther:
				other = other.Add(net[j])
			}
		}
	}
	return cash, card, other
}
