package billing

import "spareparts-backend/internal/models"

// FullyPaidEpsilon is the tolerance under which a pending balance counts as
// cleared. Currency math on float64 leaves sub-paisa residue; anything at or
// below this is treated as zero and the stored pending amount is clamped.
const FullyPaidEpsilon = 0.01

// DeriveStatus is the single status-derivation rule used everywhere a bill
// balance changes. Callers must never set a payment status any other way.
func DeriveStatus(amountPaid, pendingAmount float64) models.PaymentStatus {
	switch {
	case pendingAmount <= FullyPaidEpsilon:
		return models.PaymentStatusFullyPaid
	case amountPaid > 0:
		return models.PaymentStatusPartiallyPaid
	default:
		return models.PaymentStatusUnpaid
	}
}

// SettleBalance derives the status for a paid/pending pair and clamps the
// pending amount to exactly zero when the bill counts as fully paid.
func SettleBalance(amountPaid, pendingAmount float64) (float64, models.PaymentStatus) {
	status := DeriveStatus(amountPaid, pendingAmount)
	if status == models.PaymentStatusFullyPaid {
		pendingAmount = 0
	}
	return pendingAmount, status
}
