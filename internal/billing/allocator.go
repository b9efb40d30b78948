// Package billing holds the pure payment-allocation logic shared by the bill
// creation and bill payment workflows. Nothing in here touches the database;
// the caller loads balances, runs Allocate, and persists the result inside
// its own transaction.
package billing

import (
	"fmt"
	"time"

	"spareparts-backend/internal/models"
)

// TargetBill is a bill balance the allocator may settle against. The caller
// is responsible for only passing bills with a positive pending amount,
// ordered oldest-created-first. That ordering decides which debts get cleared
// first when the pool runs short, so it must not be disturbed.
type TargetBill struct {
	BillID        string
	AmountPaid    float64
	PendingAmount float64
}

// Input is one allocation request: the payment pool (as the submitted direct
// entries), the current bill's balance, and the old bills to settle first.
type Input struct {
	CurrentBillID  string
	CurrentPaid    float64
	CurrentPending float64
	Payments       []models.PaymentInput
	OtherBills     []TargetBill
	Now            time.Time
}

// BillUpdate is the new balance, status and appended payment entries for one
// touched bill.
type BillUpdate struct {
	BillID        string
	AmountPaid    float64
	PendingAmount float64
	Status        models.PaymentStatus
	NewPayments   []models.Payment
}

// Allocation is the full plan: the current bill's update, one update per
// settled old bill, and the clearance summary for the receipt.
type Allocation struct {
	Current    BillUpdate
	Settled    []BillUpdate
	Clearances []models.PendingClearance
}

// ExceedsPendingError signals that the share of the pool left for the current
// bill is larger than its outstanding balance. The caller must discard the
// whole allocation; nothing may be applied partially.
type ExceedsPendingError struct {
	Amount  float64
	Pending float64
}

func (e *ExceedsPendingError) Error() string {
	return fmt.Sprintf("payment amount (₹%.2f) exceeds the pending balance (₹%.2f)", e.Amount, e.Pending)
}

// Allocate distributes the payment pool deterministically, in one pass:
// old bills first, oldest first, each cleared up to min(pending, remaining);
// whatever is left belongs to the current bill. A remainder larger than the
// current bill's pending amount fails the whole allocation rather than
// silently overpaying.
func Allocate(in Input) (*Allocation, error) {
	var pool float64
	for _, p := range in.Payments {
		pool += p.Amount
	}

	remaining := pool
	var usedForOldBills float64
	var settled []BillUpdate
	var clearances []models.PendingClearance
	var settledBillIDs []string

	for _, old := range in.OtherBills {
		if remaining <= 0 {
			break
		}
		amountToClear := min(old.PendingAmount, remaining)

		newPaid := old.AmountPaid + amountToClear
		newPending, status := SettleBalance(newPaid, old.PendingAmount-amountToClear)

		settled = append(settled, BillUpdate{
			BillID:        old.BillID,
			AmountPaid:    newPaid,
			PendingAmount: newPending,
			Status:        status,
			NewPayments: []models.Payment{{
				Amount:        amountToClear,
				Kind:          models.PaymentKindSettlementInflow,
				Source:        models.SourceSettlementInflow,
				SourceBillIDs: []string{in.CurrentBillID},
				PaidAt:        in.Now,
			}},
		})
		clearances = append(clearances, models.PendingClearance{
			BillID:           old.BillID,
			AmountCleared:    amountToClear,
			NewPendingAmount: newPending,
		})
		settledBillIDs = append(settledBillIDs, old.BillID)

		remaining -= amountToClear
		usedForOldBills += amountToClear
	}

	currentShare := pool - usedForOldBills
	if currentShare > in.CurrentPending {
		return nil, &ExceedsPendingError{Amount: currentShare, Pending: in.CurrentPending}
	}

	newPaid := in.CurrentPaid + currentShare
	newPending, status := SettleBalance(newPaid, in.CurrentPending-currentShare)

	// Split the current bill's share back across the submitted entries so the
	// timeline shows each source (Cash/UPI/Card) with the amount that actually
	// stayed on this bill. Zero-amount entries are never produced.
	var entries []models.Payment
	toAssign := currentShare
	for _, p := range in.Payments {
		if toAssign <= 0 {
			break
		}
		amount := min(p.Amount, toAssign)
		entries = append(entries, models.Payment{
			Amount: amount,
			Kind:   models.PaymentKindDirect,
			Source: p.Source,
			PaidAt: in.Now,
		})
		toAssign -= amount
	}

	if usedForOldBills > 0 {
		entries = append(entries, models.Payment{
			Amount:        usedForOldBills,
			Kind:          models.PaymentKindSettlementOutflow,
			Source:        models.SourceSettlementOutflow,
			SourceBillIDs: settledBillIDs,
			PaidAt:        in.Now,
		})
	}

	return &Allocation{
		Current: BillUpdate{
			BillID:        in.CurrentBillID,
			AmountPaid:    newPaid,
			PendingAmount: newPending,
			Status:        status,
			NewPayments:   entries,
		},
		Settled:    settled,
		Clearances: clearances,
	}, nil
}
