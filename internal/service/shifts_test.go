package service

import (
	"testing"
	"time"

	"restaurant-pos/internal/models"
	"restaurant-pos/pkg/printer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type shiftFixture struct {
	db       *gorm.DB
	orders   *OrderService
	payments *PaymentService
	shifts   *ShiftService
	manager  *models.User
	table    *models.Table
	meal     *models.Meal
}

func newShiftFixture(t *testing.T) *shiftFixture {
	t.Helper()

	db := newTestDB(t)
	inv := NewInventoryService(db)
	return &shiftFixture{
		db:       db,
		orders:   NewOrderService(db, inv),
		payments: NewPaymentService(db, printer.LogPrinter{}, "Test Restaurant"),
		shifts:   NewShiftService(db),
		manager:  seedUser(t, db, "MGR1", "manager"),
		table:    seedTable(t, db, "T1"),
		meal:     seedMeal(t, db, "Feast", "50.00"),
	}
}

// settleCash opens an order for the given number of meal units and pays it
// in exact cash.
func (f *shiftFixture) settleCash(t *testing.T, units int) *models.Payment {
	t.Helper()

	order, err := f.orders.CreateOrder(f.table.ID, nil, 1)
	require.NoError(t, err)
	_, err = f.orders.AddOrInc(f.table.ID, order.ID, f.meal.ID, units, 1)
	require.NoError(t, err)

	amount := dec("50").Mul(decimal.NewFromInt(int64(units)))
	payment, err := f.payments.Settle(f.table.ID,
		[]Instrument{{Type: models.PaymentTypeCash, Amount: amount}},
		dec("0"), "", amount, nil)
	require.NoError(t, err)
	return payment
}

func TestStartShiftCarriesOverRemainingCash(t *testing.T) {
	f := newShiftFixture(t)

	past := time.Now().Add(-24 * time.Hour)
	closed := models.Shift{
		OpenedByID:    f.manager.ID,
		StartTime:     past,
		IsClosed:      true,
		RemainingCash: dec("50"),
		EndTime:       &past,
	}
	require.NoError(t, f.db.Create(&closed).Error)

	shift, err := f.shifts.Start(f.manager.ID, "morning")
	require.NoError(t, err)
	assert.True(t, shift.InitialCash.Equal(dec("50")), "got %s", shift.InitialCash)
	assert.False(t, shift.IsClosed)
}

func TestStartShiftFirstEverStartsAtZero(t *testing.T) {
	f := newShiftFixture(t)

	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)
	assert.True(t, shift.InitialCash.IsZero())
}

func TestStartShiftRejectsSecondOpen(t *testing.T) {
	f := newShiftFixture(t)

	_, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)

	_, err = f.shifts.Start(f.manager.ID, "")
	assert.ErrorIs(t, err, ErrShiftAlreadyOpen)
}

func TestRecomputeFoldsCashWithNetting(t *testing.T) {
	f := newShiftFixture(t)
	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)

	// 100 due, 120 tendered in cash: the drawer keeps 100.
	order, err := f.orders.CreateOrder(f.table.ID, nil, 1)
	require.NoError(t, err)
	_, err = f.orders.AddOrInc(f.table.ID, order.ID, f.meal.ID, 2, 1)
	require.NoError(t, err)
	_, err = f.payments.Settle(f.table.ID,
		[]Instrument{{Type: models.PaymentTypeCash, Amount: dec("120")}},
		dec("0"), "", dec("120"), nil)
	require.NoError(t, err)

	recomputed, err := f.shifts.Recompute(shift.ID)
	require.NoError(t, err)
	assert.True(t, recomputed.CashTotal.Equal(dec("100.00")), "got %s", recomputed.CashTotal)
	assert.True(t, recomputed.CardTotal.IsZero())
	assert.True(t, recomputed.Total.Equal(dec("100.00")), "got %s", recomputed.Total)

	// Idempotent with no new payments.
	again, err := f.shifts.Recompute(shift.ID)
	require.NoError(t, err)
	assert.True(t, again.CashTotal.Equal(recomputed.CashTotal))
	assert.True(t, again.Total.Equal(recomputed.Total))
}

func TestCloseShiftReconciliation(t *testing.T) {
	f := newShiftFixture(t)

	past := time.Now().Add(-24 * time.Hour)
	prior := models.Shift{
		OpenedByID:    f.manager.ID,
		StartTime:     past,
		IsClosed:      true,
		RemainingCash: dec("50"),
		EndTime:       &past,
	}
	require.NoError(t, f.db.Create(&prior).Error)

	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)
	payment := f.settleCash(t, 2) // 100 in the drawer

	closed, err := f.shifts.Close(shift.ID, f.manager.ID, dec("30"), "end of day")
	require.NoError(t, err)

	assert.True(t, closed.IsClosed)
	assert.True(t, closed.CashTotal.Equal(dec("100.00")), "got %s", closed.CashTotal)
	assert.True(t, closed.WithdrawnAmount.Equal(dec("30.00")))
	// remaining = initial 50 + cash 100 - withdrawn 30
	assert.True(t, closed.RemainingCash.Equal(dec("120.00")), "got %s", closed.RemainingCash)
	require.NotNil(t, closed.EndTime)
	require.NotNil(t, closed.ClosedByID)
	assert.Equal(t, f.manager.ID, *closed.ClosedByID)

	// The reconciled orders are archived out of the open views.
	var orders []models.Order
	require.NoError(t, f.db.Model(&models.Payment{ID: payment.ID}).Association("Orders").Find(&orders))
	require.NotEmpty(t, orders)
	for _, o := range orders {
		assert.True(t, o.IsArchived)
	}

	// The next shift starts with what was left in the drawer.
	next, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)
	assert.True(t, next.InitialCash.Equal(dec("120.00")), "got %s", next.InitialCash)
}

func TestCloseShiftWithdrawalExceedsDrawer(t *testing.T) {
	f := newShiftFixture(t)
	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)
	f.settleCash(t, 2) // drawer holds 100

	_, err = f.shifts.Close(shift.ID, f.manager.ID, dec("200"), "")
	assert.ErrorIs(t, err, ErrWithdrawalExceedsCash)

	// The failed close leaves the shift open.
	current, err := f.shifts.Current()
	require.NoError(t, err)
	assert.Equal(t, shift.ID, current.ID)
}

func TestCloseShiftWrongUser(t *testing.T) {
	f := newShiftFixture(t)
	other := seedUser(t, f.db, "MGR2", "other")
	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)

	_, err = f.shifts.Close(shift.ID, other.ID, dec("0"), "")
	assert.ErrorIs(t, err, ErrNotShiftOwner)
}

func TestRecomputeClosedShift(t *testing.T) {
	f := newShiftFixture(t)
	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)
	_, err = f.shifts.Close(shift.ID, f.manager.ID, dec("0"), "")
	require.NoError(t, err)

	_, err = f.shifts.Recompute(shift.ID)
	assert.ErrorIs(t, err, ErrShiftClosed)
}

func TestCurrentShiftNoneOpen(t *testing.T) {
	f := newShiftFixture(t)

	_, err := f.shifts.Current()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuildReportIncludesArchivedAndUnpaid(t *testing.T) {
	f := newShiftFixture(t)
	shift, err := f.shifts.Start(f.manager.ID, "")
	require.NoError(t, err)
	f.settleCash(t, 2) // 100 cash

	// Closing archives the settled orders; the window report still sees them.
	_, err = f.shifts.Close(shift.ID, f.manager.ID, dec("0"), "")
	require.NoError(t, err)

	// One order left unpaid in the window.
	order, err := f.orders.CreateOrder(f.table.ID, nil, 1)
	require.NoError(t, err)
	_, err = f.orders.AddOrInc(f.table.ID, order.ID, f.meal.ID, 1, 1)
	require.NoError(t, err)

	now := time.Now()
	report, err := f.shifts.BuildReport(now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.True(t, report.CashTotal.Equal(dec("100.00")), "got %s", report.CashTotal)
	assert.True(t, report.UnpaidTotal.Equal(dec("50.00")), "got %s", report.UnpaidTotal)
	assert.True(t, report.TotalAmount.Equal(dec("150.00")), "got %s", report.TotalAmount)
}

func TestBuildReportSameWindowOverwrites(t *testing.T) {
	f := newShiftFixture(t)
	f.settleCash(t, 1)

	start := time.Now().Add(-time.Hour).Truncate(time.Second)
	end := start.Add(2 * time.Hour)

	first, err := f.shifts.BuildReport(start, end)
	require.NoError(t, err)
	second, err := f.shifts.BuildReport(start, end)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	var count int64
	require.NoError(t, f.db.Model(&models.Report{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMonthlyReportCoversCalendarMonth(t *testing.T) {
	f := newShiftFixture(t)
	f.settleCash(t, 2) // 100 cash today

	report, err := f.shifts.MonthlyReport(time.Now())
	require.NoError(t, err)

	assert.True(t, report.CashTotal.Equal(dec("100.00")), "got %s", report.CashTotal)

	now := time.Now()
	wantStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	assert.True(t, report.StartDatetime.Equal(wantStart))
	assert.True(t, report.EndDatetime.Equal(wantStart.AddDate(0, 1, 0)))

	// A window with no activity folds to zero.
	empty, err := f.shifts.YearlyReport(now.AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.True(t, empty.TotalAmount.IsZero())
}

func TestPerWaitressSales(t *testing.T) {
	f := newShiftFixture(t)
	leyla := seedUser(t, f.db, "W1", "leyla")
	nigar := seedUser(t, f.db, "W2", "nigar")

	for _, w := range []*models.User{leyla, leyla, nigar} {
		order, err := f.orders.CreateOrder(f.table.ID, &w.ID, 1)
		require.NoError(t, err)
		_, err = f.orders.AddOrInc(f.table.ID, order.ID, f.meal.ID, 1, 1)
		require.NoError(t, err)
		_, err = f.payments.Settle(f.table.ID, nil, dec("0"), "", dec("50"), nil)
		require.NoError(t, err)
	}

	sales, err := f.shifts.PerWaitressSales(time.Now())
	require.NoError(t, err)
	require.Len(t, sales, 2)

	byID := map[uint]WaitressSales{}
	for _, s := range sales {
		byID[s.WaitressID] = s
	}
	assert.True(t, byID[leyla.ID].Total.Equal(dec("100.00")), "got %s", byID[leyla.ID].Total)
	assert.True(t, byID[nigar.ID].Total.Equal(dec("50.00")), "got %s", byID[nigar.ID].Total)
}
