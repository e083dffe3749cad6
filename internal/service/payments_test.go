package service

import (
	"testing"
	"time"

	"restaurant-pos/internal/models"
	"restaurant-pos/pkg/printer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type paymentFixture struct {
	db       *gorm.DB
	orders   *OrderService
	payments *PaymentService
	table    *models.Table
	meal     *models.Meal
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()

	db := newTestDB(t)
	inv := NewInventoryService(db)
	return &paymentFixture{
		db:       db,
		orders:   NewOrderService(db, inv),
		payments: NewPaymentService(db, printer.LogPrinter{}, "Test Restaurant"),
		table:    seedTable(t, db, "T1"),
		meal:     seedMeal(t, db, "Feast", "50.00"),
	}
}

// openOrderWorth opens an order on the fixture table totalling the given
// number of meal units at 50 each.
func (f *paymentFixture) openOrderWorth(t *testing.T, units int) *models.Order {
	t.Helper()

	order, err := f.orders.CreateOrder(f.table.ID, nil, 1)
	require.NoError(t, err)
	_, err = f.orders.AddOrInc(f.table.ID, order.ID, f.meal.ID, units, 1)
	require.NoError(t, err)
	return order
}

func TestSettleWithDiscountAndChange(t *testing.T) {
	f := newPaymentFixture(t)
	order := f.openOrderWorth(t, 2) // 100.00

	payment, err := f.payments.Settle(f.table.ID,
		[]Instrument{{Type: models.PaymentTypeCash, Amount: dec("100")}},
		dec("10"), "regular", dec("100"), nil)
	require.NoError(t, err)

	assert.True(t, payment.TotalPrice.Equal(dec("100.00")), "got %s", payment.TotalPrice)
	assert.True(t, payment.DiscountAmount.Equal(dec("10.00")))
	assert.True(t, payment.FinalPrice.Equal(dec("90.00")))
	assert.True(t, payment.PaidAmount.Equal(dec("100.00")))
	assert.True(t, payment.Change.Equal(dec("10.00")))
	assert.NotEmpty(t, payment.ReceiptNo)

	// Method rows hold the tendered amount; their sum equals paid_amount.
	require.Len(t, payment.Methods, 1)
	assert.True(t, payment.Methods[0].Amount.Equal(dec("100.00")))

	// The drawer kept tendered minus change.
	net := NetMethodAmounts(payment)
	require.Len(t, net, 1)
	assert.True(t, net[0].Equal(dec("90.00")), "got %s", net[0])

	var paid models.Order
	require.NoError(t, f.db.First(&paid, order.ID).Error)
	assert.True(t, paid.IsPaid)
}

func TestSettleFoldsAllOpenOrders(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 1) // 50.00
	f.openOrderWorth(t, 2) // 100.00

	payment, err := f.payments.Settle(f.table.ID, nil, dec("0"), "", dec("150"), nil)
	require.NoError(t, err)

	assert.True(t, payment.TotalPrice.Equal(dec("150.00")), "got %s", payment.TotalPrice)
	assert.Len(t, payment.Methods, 1)
	assert.Equal(t, models.PaymentTypeCash, payment.Methods[0].PaymentType)

	var open int64
	require.NoError(t, f.db.Model(&models.Order{}).
		Where("table_id = ? AND is_paid = ?", f.table.ID, false).Count(&open).Error)
	assert.Zero(t, open)
}

func TestSettleMixedInstruments(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 2) // 100.00

	payment, err := f.payments.Settle(f.table.ID,
		[]Instrument{
			{Type: models.PaymentTypeCash, Amount: dec("60")},
			{Type: models.PaymentTypeCard, Amount: dec("50")},
		},
		dec("10"), "", dec("110"), nil)
	require.NoError(t, err)

	assert.True(t, payment.Change.Equal(dec("20.00")), "got %s", payment.Change)

	// Change comes out of the first cash instrument only.
	net := NetMethodAmounts(payment)
	require.Len(t, net, 2)
	assert.True(t, net[0].Equal(dec("40.00")), "cash got %s", net[0])
	assert.True(t, net[1].Equal(dec("50.00")), "card got %s", net[1])
}

func TestSettleInstrumentSumMismatch(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 2)

	_, err := f.payments.Settle(f.table.ID,
		[]Instrument{
			{Type: models.PaymentTypeCash, Amount: dec("50")},
			{Type: models.PaymentTypeCard, Amount: dec("40")},
		},
		dec("0"), "", dec("100"), nil)
	assert.ErrorIs(t, err, ErrInstrumentMismatch)
}

func TestSettleUnknownInstrumentType(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 2)

	_, err := f.payments.Settle(f.table.ID,
		[]Instrument{{Type: "crypto", Amount: dec("100")}},
		dec("0"), "", dec("100"), nil)
	assert.ErrorIs(t, err, ErrInstrumentMismatch)
}

func TestSettleInsufficientPayment(t *testing.T) {
	f := newPaymentFixture(t)
	order := f.openOrderWorth(t, 2)

	_, err := f.payments.Settle(f.table.ID, nil, dec("0"), "", dec("80"), nil)
	assert.ErrorIs(t, err, ErrInsufficientPayment)

	// Failed settlement leaves the order open and writes nothing.
	var reloaded models.Order
	require.NoError(t, f.db.First(&reloaded, order.ID).Error)
	assert.False(t, reloaded.IsPaid)
	var count int64
	require.NoError(t, f.db.Model(&models.Payment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSettleNoOpenOrder(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 1)

	_, err := f.payments.Settle(f.table.ID, nil, dec("0"), "", dec("50"), nil)
	require.NoError(t, err)

	// The table is clear now; settling again has nothing to fold.
	_, err = f.payments.Settle(f.table.ID, nil, dec("0"), "", dec("50"), nil)
	assert.ErrorIs(t, err, ErrNoOpenOrder)
}

func TestSettleDiscountBeyondTotal(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 1) // 50.00

	payment, err := f.payments.Settle(f.table.ID, nil, dec("80"), "comp", dec("0"), nil)
	require.NoError(t, err)

	assert.True(t, payment.FinalPrice.IsZero())
	assert.True(t, payment.Change.IsZero())
}

func TestDiscountShare(t *testing.T) {
	p := &models.Payment{
		DiscountAmount: dec("10"),
		FinalPrice:     dec("90"),
	}
	share := DiscountShare(p, models.PaymentMethod{Amount: dec("45")})
	assert.True(t, share.Equal(dec("5.00")), "got %s", share)

	comped := &models.Payment{DiscountAmount: dec("50"), FinalPrice: dec("0")}
	assert.True(t, DiscountShare(comped, models.PaymentMethod{Amount: dec("50")}).IsZero())
}

func TestListPaymentsWindow(t *testing.T) {
	f := newPaymentFixture(t)
	f.openOrderWorth(t, 1)
	_, err := f.payments.Settle(f.table.ID, nil, dec("0"), "", dec("50"), nil)
	require.NoError(t, err)

	now := time.Now()
	inWindow, err := f.payments.ListPayments(now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, inWindow, 1)

	outside, err := f.payments.ListPayments(now.Add(-2*time.Hour), now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, outside)
}
