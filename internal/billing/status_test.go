package billing

import (
	"testing"

	"spareparts-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name    string
		paid    float64
		pending float64
		want    models.PaymentStatus
	}{
		{"unpaid", 0, 500, models.PaymentStatusUnpaid},
		{"partially paid", 200, 300, models.PaymentStatusPartiallyPaid},
		{"fully paid", 500, 0, models.PaymentStatusFullyPaid},
		{"residue below epsilon is fully paid", 499.995, 0.005, models.PaymentStatusFullyPaid},
		{"exactly epsilon is fully paid", 499.99, 0.01, models.PaymentStatusFullyPaid},
		{"just above epsilon stays partial", 499.98, 0.02, models.PaymentStatusPartiallyPaid},
		{"zero total bill is fully paid", 0, 0, models.PaymentStatusFullyPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.paid, tt.pending))
		})
	}
}

func TestSettleBalanceClampsPending(t *testing.T) {
	pending, status := SettleBalance(499.995, 0.005)
	assert.Equal(t, models.PaymentStatusFullyPaid, status)
	assert.Equal(t, 0.0, pending)

	pending, status = SettleBalance(100, 400)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, status)
	assert.Equal(t, 400.0, pending)
}
