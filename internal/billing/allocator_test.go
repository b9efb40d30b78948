package billing

import (
	"errors"
	"testing"
	"time"

	"spareparts-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 11, 30, 0, 0, time.UTC)

func TestAllocateNoPaymentsStaysUnpaid(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 500,
		Now:            testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, alloc.Current.AmountPaid)
	assert.Equal(t, 500.0, alloc.Current.PendingAmount)
	assert.Equal(t, models.PaymentStatusUnpaid, alloc.Current.Status)
	assert.Empty(t, alloc.Current.NewPayments)
	assert.Empty(t, alloc.Settled)
	assert.Empty(t, alloc.Clearances)
}

func TestAllocateExactPaymentFullyPaid(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 500,
		Payments: []models.PaymentInput{
			{Amount: 500, Source: models.SourceCash},
		},
		Now: testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, 500.0, alloc.Current.AmountPaid)
	assert.Equal(t, 0.0, alloc.Current.PendingAmount)
	assert.Equal(t, models.PaymentStatusFullyPaid, alloc.Current.Status)
	require.Len(t, alloc.Current.NewPayments, 1)
	assert.Equal(t, models.PaymentKindDirect, alloc.Current.NewPayments[0].Kind)
	assert.Equal(t, models.SourceCash, alloc.Current.NewPayments[0].Source)
}

func TestAllocatePartialPayment(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 500,
		Payments: []models.PaymentInput{
			{Amount: 200, Source: models.SourceUPI},
		},
		Now: testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, 200.0, alloc.Current.AmountPaid)
	assert.Equal(t, 300.0, alloc.Current.PendingAmount)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, alloc.Current.Status)
}

// An old bill owing 100, a new bill of 200, and a 250 payment: the old bill
// clears first, then 150 lands on the new bill leaving 50 pending.
func TestAllocateSettlesOldBillFirst(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "10",
		CurrentPending: 200,
		Payments: []models.PaymentInput{
			{Amount: 250, Source: models.SourceCash},
		},
		OtherBills: []TargetBill{
			{BillID: "7", AmountPaid: 50, PendingAmount: 100},
		},
		Now: testNow,
	})
	require.NoError(t, err)

	require.Len(t, alloc.Settled, 1)
	old := alloc.Settled[0]
	assert.Equal(t, "7", old.BillID)
	assert.Equal(t, 150.0, old.AmountPaid)
	assert.Equal(t, 0.0, old.PendingAmount)
	assert.Equal(t, models.PaymentStatusFullyPaid, old.Status)
	require.Len(t, old.NewPayments, 1)
	assert.Equal(t, models.PaymentKindSettlementInflow, old.NewPayments[0].Kind)
	assert.Equal(t, models.SourceSettlementInflow, old.NewPayments[0].Source)
	assert.Equal(t, []string{"10"}, old.NewPayments[0].SourceBillIDs)

	assert.Equal(t, 150.0, alloc.Current.AmountPaid)
	assert.Equal(t, 50.0, alloc.Current.PendingAmount)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, alloc.Current.Status)

	// Timeline: 150 direct + 100 routed to the old bill
	require.Len(t, alloc.Current.NewPayments, 2)
	assert.Equal(t, 150.0, alloc.Current.NewPayments[0].Amount)
	assert.Equal(t, models.PaymentKindDirect, alloc.Current.NewPayments[0].Kind)
	outflow := alloc.Current.NewPayments[1]
	assert.Equal(t, 100.0, outflow.Amount)
	assert.Equal(t, models.PaymentKindSettlementOutflow, outflow.Kind)
	assert.Equal(t, models.SourceSettlementOutflow, outflow.Source)
	assert.Equal(t, []string{"7"}, outflow.SourceBillIDs)

	require.Len(t, alloc.Clearances, 1)
	assert.Equal(t, "7", alloc.Clearances[0].BillID)
	assert.Equal(t, 100.0, alloc.Clearances[0].AmountCleared)
	assert.Equal(t, 0.0, alloc.Clearances[0].NewPendingAmount)
}

// Pool runs short across three old bills: clears them in order until exhausted.
func TestAllocateOldestFirstWhenPoolRunsShort(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "20",
		CurrentPending: 400,
		Payments: []models.PaymentInput{
			{Amount: 50, Source: models.SourceCash},
		},
		OtherBills: []TargetBill{
			{BillID: "1", PendingAmount: 30},
			{BillID: "2", PendingAmount: 80},
			{BillID: "3", PendingAmount: 60},
		},
		Now: testNow,
	})
	require.NoError(t, err)

	require.Len(t, alloc.Settled, 2)
	assert.Equal(t, "1", alloc.Settled[0].BillID)
	assert.Equal(t, 0.0, alloc.Settled[0].PendingAmount)
	assert.Equal(t, models.PaymentStatusFullyPaid, alloc.Settled[0].Status)

	assert.Equal(t, "2", alloc.Settled[1].BillID)
	assert.Equal(t, 60.0, alloc.Settled[1].PendingAmount)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, alloc.Settled[1].Status)

	// Bill 3 untouched, nothing left for the current bill
	assert.Equal(t, 0.0, alloc.Current.AmountPaid)
	assert.Equal(t, 400.0, alloc.Current.PendingAmount)
	assert.Equal(t, models.PaymentStatusUnpaid, alloc.Current.Status)

	require.Len(t, alloc.Current.NewPayments, 1)
	assert.Equal(t, models.PaymentKindSettlementOutflow, alloc.Current.NewPayments[0].Kind)
	assert.Equal(t, 50.0, alloc.Current.NewPayments[0].Amount)
	assert.Equal(t, []string{"1", "2"}, alloc.Current.NewPayments[0].SourceBillIDs)
}

func TestAllocateRejectsOverpayment(t *testing.T) {
	_, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 100,
		Payments: []models.PaymentInput{
			{Amount: 150, Source: models.SourceCash},
		},
		Now: testNow,
	})

	var exceedsErr *ExceedsPendingError
	require.True(t, errors.As(err, &exceedsErr))
	assert.Equal(t, 150.0, exceedsErr.Amount)
	assert.Equal(t, 100.0, exceedsErr.Pending)
}

func TestAllocateRejectsRemainderOverpaymentAfterSettlement(t *testing.T) {
	_, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 100,
		Payments: []models.PaymentInput{
			{Amount: 300, Source: models.SourceCash},
		},
		OtherBills: []TargetBill{
			{BillID: "9", PendingAmount: 50},
		},
		Now: testNow,
	})

	var exceedsErr *ExceedsPendingError
	require.True(t, errors.As(err, &exceedsErr))
	assert.Equal(t, 250.0, exceedsErr.Amount)
}

// Sub-paisa float residue still counts as fully paid and is clamped to zero.
func TestAllocateClampsFloatResidue(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 0.1 + 0.2, // 0.30000000000000004
		Payments: []models.PaymentInput{
			{Amount: 0.3, Source: models.SourceCash},
		},
		Now: testNow,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusFullyPaid, alloc.Current.Status)
	assert.Equal(t, 0.0, alloc.Current.PendingAmount)
}

// Multiple sources split the current share in submission order; a source
// fully consumed by settlement produces no zero-amount entry.
func TestAllocateSplitsShareAcrossSources(t *testing.T) {
	alloc, err := Allocate(Input{
		CurrentBillID:  "42",
		CurrentPending: 100,
		Payments: []models.PaymentInput{
			{Amount: 120, Source: models.SourceCash},
			{Amount: 60, Source: models.SourceUPI},
		},
		OtherBills: []TargetBill{
			{BillID: "5", PendingAmount: 130},
		},
		Now: testNow,
	})
	require.NoError(t, err)

	// 180 pool, 130 to the old bill, 50 stays
	assert.Equal(t, 50.0, alloc.Current.AmountPaid)

	require.Len(t, alloc.Current.NewPayments, 2)
	assert.Equal(t, 50.0, alloc.Current.NewPayments[0].Amount)
	assert.Equal(t, models.SourceCash, alloc.Current.NewPayments[0].Source)
	assert.Equal(t, models.PaymentKindSettlementOutflow, alloc.Current.NewPayments[1].Kind)
	assert.Equal(t, 130.0, alloc.Current.NewPayments[1].Amount)
}
