package handlers

import (
	"testing"

	"spareparts-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBillFilterDefaults(t *testing.T) {
	f, err := parseBillFilter("", "", "", "", "", "", "", "")
	require.NoError(t, err)

	assert.Equal(t, 0, f.CustomerID)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Nil(t, f.StartDate)
	assert.Nil(t, f.EndDate)
}

func TestParseBillFilterFull(t *testing.T) {
	f, err := parseBillFilter("12", "Partially Paid", "104", "ravi", "2025-06-01", "2025-06-30", "2", "50")
	require.NoError(t, err)

	assert.Equal(t, 12, f.CustomerID)
	assert.Equal(t, models.PaymentStatusPartiallyPaid, f.PaymentStatus)
	assert.Equal(t, "104", f.BillID)
	assert.Equal(t, "ravi", f.CustomerSearch)
	assert.Equal(t, 2, f.Page)
	assert.Equal(t, 50, f.Limit)

	require.NotNil(t, f.StartDate)
	require.NotNil(t, f.EndDate)
	assert.Equal(t, 1, f.StartDate.Day())
	assert.Equal(t, 0, f.StartDate.Hour())
	assert.Equal(t, 30, f.EndDate.Day())
	assert.Equal(t, 23, f.EndDate.Hour())
	assert.True(t, f.StartDate.Before(*f.EndDate))
}

func TestParseBillFilterRejectsBadInput(t *testing.T) {
	cases := []struct {
		name string
		call func() error
	}{
		{"bad customer id", func() error {
			_, err := parseBillFilter("abc", "", "", "", "", "", "", "")
			return err
		}},
		{"unknown status", func() error {
			_, err := parseBillFilter("", "Overdue", "", "", "", "", "", "")
			return err
		}},
		{"bad start date", func() error {
			_, err := parseBillFilter("", "", "", "", "01-06-2025", "", "", "")
			return err
		}},
		{"zero page", func() error {
			_, err := parseBillFilter("", "", "", "", "", "", "0", "")
			return err
		}},
		{"oversized limit", func() error {
			_, err := parseBillFilter("", "", "", "", "", "", "", "500")
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.call())
		})
	}
}
