package services

import (
	"testing"

	"spareparts-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() *models.CreateBillRequest {
	return &models.CreateBillRequest{
		CustomerName:  "Ravi Kumar",
		CustomerPhone: "9876543210",
		Items: []models.BillItemInput{
			{SparePartID: 1, Quantity: 2, UnitPrice: 150},
		},
		Payments: []models.PaymentInput{
			{Amount: 300, Source: models.SourceCash},
		},
	}
}

func TestValidateCreateBill(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		assert.NoError(t, validateCreateBill(validRequest()))
	})

	t.Run("existing customer id needs no name or phone", func(t *testing.T) {
		req := validRequest()
		req.CustomerID = 5
		req.CustomerName = ""
		req.CustomerPhone = ""
		assert.NoError(t, validateCreateBill(req))
	})

	t.Run("walk-in customer needs name and phone", func(t *testing.T) {
		req := validRequest()
		req.CustomerPhone = ""
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("empty cart rejected", func(t *testing.T) {
		req := validRequest()
		req.Items = nil
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		req := validRequest()
		req.Items[0].Quantity = 0
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("negative unit price rejected", func(t *testing.T) {
		req := validRequest()
		req.Items[0].UnitPrice = -1
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("negative discount rejected", func(t *testing.T) {
		req := validRequest()
		req.DiscountAmount = -10
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("non-positive payment rejected", func(t *testing.T) {
		req := validRequest()
		req.Payments[0].Amount = 0
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("unknown payment source rejected", func(t *testing.T) {
		req := validRequest()
		req.Payments[0].Source = "Cheque"
		assertValidationError(t, validateCreateBill(req))
	})

	t.Run("settlement outflow label is not a direct source on creation", func(t *testing.T) {
		req := validRequest()
		req.Payments[0].Source = models.SourceSettlementOutflow
		assertValidationError(t, validateCreateBill(req))
	})
}

func TestPartitionPayments(t *testing.T) {
	t.Run("splits direct entries from the settlement pool", func(t *testing.T) {
		direct, pool, err := partitionPayments([]models.PaymentInput{
			{Amount: 100, Source: models.SourceCash},
			{Amount: 250, Source: models.SourceSettlementOutflow},
			{Amount: 50, Source: models.SourceUPI},
		})
		require.NoError(t, err)
		require.Len(t, direct, 2)
		assert.Equal(t, models.SourceCash, direct[0].Source)
		assert.Equal(t, models.SourceUPI, direct[1].Source)
		assert.Equal(t, 250.0, pool)
	})

	t.Run("all direct", func(t *testing.T) {
		direct, pool, err := partitionPayments([]models.PaymentInput{
			{Amount: 100, Source: models.SourceCard},
		})
		require.NoError(t, err)
		assert.Len(t, direct, 1)
		assert.Equal(t, 0.0, pool)
	})

	t.Run("unknown source rejected", func(t *testing.T) {
		_, _, err := partitionPayments([]models.PaymentInput{
			{Amount: 100, Source: "Barter"},
		})
		assertValidationError(t, err)
	})

	t.Run("inflow label is reserved for the system", func(t *testing.T) {
		_, _, err := partitionPayments([]models.PaymentInput{
			{Amount: 100, Source: models.SourceSettlementInflow},
		})
		assertValidationError(t, err)
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		_, _, err := partitionPayments([]models.PaymentInput{
			{Amount: -5, Source: models.SourceCash},
		})
		assertValidationError(t, err)
	})
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}
