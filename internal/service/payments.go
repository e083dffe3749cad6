package service

import (
	"fmt"
	"log"
	"time"

	"restaurant-pos/internal/models"
	"restaurant-pos/pkg/printer"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Instrument is one payment instrument offered at settlement time.
type Instrument struct {
	Type   string          `json:"type"` // cash | card | other
	Amount decimal.Decimal `json:"amount"`
}

// PaymentService settles tables: it folds the table's open orders into one
// Payment with an instrument breakdown and flips the orders to paid, all in
// one transaction.
type PaymentService struct {
	db             *gorm.DB
	printer        printer.Printer
	restaurantName string
}

func NewPaymentService(db *gorm.DB, p printer.Printer, restaurantName string) *PaymentService {
	return &PaymentService{db: db, printer: p, restaurantName: restaurantName}
}

// Settle finalizes payment for every open order on the table.
//
// The change is netted against the FIRST cash instrument only: the drawer
// physically keeps the recorded amount, the rest went back to the customer.
func (s *PaymentService) Settle(tableID uint, instruments []Instrument, discountAmount decimal.Decimal, discountComment string, paidAmount decimal.Decimal, operatorID *uint) (*models.Payment, error) {
	var payment *models.Payment
	var receipt printer.Receipt

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table models.Table
		if err := tx.First(&table, tableID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("table %d: %w", tableID, ErrNotFound)
			}
			return err
		}

		var orders []models.Order
		if err := forUpdate(tx).
			Where("table_id = ? AND is_paid = ? AND is_archived = ?", tableID, false, false).
			Find(&orders).Error; err != nil {
			return asConflict(err)
		}
		if len(orders) == 0 {
			return fmt.Errorf("table %d: %w", tableID, ErrNoOpenOrder)
		}

		total := decimal.Zero
		for _, o := range orders {
			total = total.Add(o.TotalPrice)
		}
		total = total.Round(2)

		discount := discountAmount.Round(2)
		if discount.IsNegative() {
			discount = decimal.Zero
		}
		final := total.Sub(discount)
		if final.IsNegative() {
			final = decimal.Zero
		}

		paid := paidAmount.Round(2)
		if len(instruments) > 0 {
			sum := decimal.Zero
			for _, ins := range instruments {
				if ins.Type != models.PaymentTypeCash && ins.Type != models.PaymentTypeCard && ins.Type != models.PaymentTypeOther {
					return fmt.Errorf("payment type %q: %w", ins.Type, ErrInstrumentMismatch)
				}
				sum = sum.Add(ins.Amount)
			}
			if !sum.Round(2).Equal(paid) {
				return fmt.Errorf("methods sum %s, paid %s: %w", sum, paid, ErrInstrumentMismatch)
			}
		}

		if paid.LessThan(final) {
			return fmt.Errorf("paid %s, due %s: %w", paid, final, ErrInsufficientPayment)
		}
		change := paid.Sub(final)

		// No breakdown supplied: the whole amount is treated as cash.
		if len(instruments) == 0 {
			instruments = []Instrument{{Type: models.PaymentTypeCash, Amount: paid}}
		}

		// Method rows record the tendered amounts, so their sum always
		// equals paid_amount. The drawer keeps tendered minus change; that
		// netting is applied by NetMethodAmounts wherever cash is counted.
		methods := make([]models.PaymentMethod, 0, len(instruments))
		for _, ins := range instruments {
			methods = append(methods, models.PaymentMethod{
				PaymentType: ins.Type,
				Amount:      ins.Amount.Round(2),
			})
		}

		payment = &models.Payment{
			ReceiptNo:       uuid.NewString(),
			TableID:         tableID,
			TotalPrice:      total,
			DiscountAmount:  discount,
			DiscountComment: discountComment,
			FinalPrice:      final,
			PaidAmount:      paid,
			Change:          change,
			PaidByID:        operatorID,
			PaidAt:          time.Now(),
			Methods:         methods,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if err := tx.Model(payment).Association("Orders").Append(&orders); err != nil {
			return err
		}

		orderIDs := make([]uint, 0, len(orders))
		for _, o := range orders {
			orderIDs = append(orderIDs, o.ID)
		}
		if err := tx.Model(&models.Order{}).Where("id IN ?", orderIDs).
			Update("is_paid", true).Error; err != nil {
			return err
		}

		receipt = s.buildReceipt(tx, table, orders, payment)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort side effect, never rolls back the settlement.
	if err := s.printer.Print(receipt); err != nil {
		log.Printf("Warning: receipt print failed for payment %s: %v", payment.ReceiptNo, err)
	}

	return payment, nil
}

// NetMethodAmounts returns the amounts the house actually kept per method:
// the change is subtracted from the FIRST cash method only, once. Every fold
// that counts drawer cash goes through this.
func NetMethodAmounts(p *models.Payment) []decimal.Decimal {
	amounts := make([]decimal.Decimal, len(p.Methods))
	changeLeft := p.Change
	for i, m := range p.Methods {
		amount := m.Amount
		if m.PaymentType == models.PaymentTypeCash && changeLeft.IsPositive() {
			amount = amount.Sub(changeLeft)
			changeLeft = decimal.Zero
		}
		amounts[i] = amount
	}
	return amounts
}

// DiscountShare prorates the payment-level discount onto one instrument by
// its share of the final price. A zero final price short-circuits to zero.
func DiscountShare(p *models.Payment, m models.PaymentMethod) decimal.Decimal {
	if p.FinalPrice.IsZero() {
		return decimal.Zero
	}
	return p.DiscountAmount.Mul(m.Amount).Div(p.FinalPrice).Round(2)
}

// ListPayments returns payments in [start, end), newest first.
func (s *PaymentService) ListPayments(start, end time.Time) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.Preload("Methods").Preload("Table").
		Where("paid_at >= ? AND paid_at < ?", start, end).
		Order("paid_at desc").Find(&payments).Error
	return payments, err
}

func (s *PaymentService) buildReceipt(tx *gorm.DB, table models.Table, orders []models.Order, p *models.Payment) printer.Receipt {
	var lines []printer.Line
	for _, o := range orders {
		var items []models.OrderItem
		if err := tx.Preload("Meal").Where("order_id = ?", o.ID).Find(&items).Error; err != nil {
			log.Printf("Warning: receipt lines for order %d unavailable: %v", o.ID, err)
			continue
		}
		for _, item := range items {
			lines = append(lines, printer.Line{
				Name:      item.Meal.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.Meal.Price,
				LineTotal: item.Price,
			})
		}
	}

	methods := make([]printer.MethodLine, 0, len(p.Methods))
	for _, m := range p.Methods {
		methods = append(methods, printer.MethodLine{Type: m.PaymentType, Amount: m.Amount})
	}

	return printer.Receipt{
		RestaurantName: s.restaurantName,
		ReceiptNo:      p.ReceiptNo,
		TableNumber:    table.Number,
		Lines:          lines,
		Total:          p.TotalPrice,
		Discount:       p.DiscountAmount,
		Final:          p.FinalPrice,
		Paid:           p.PaidAmount,
		Change:         p.Change,
		Methods:        methods,
		PaidAt:         p.PaidAt,
	}
}
