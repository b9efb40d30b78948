package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockStatusDerivedFromQuantity(t *testing.T) {
	assert.Equal(t, "in-stock", StockStatus(1))
	assert.Equal(t, "in-stock", StockStatus(40))
	assert.Equal(t, "out-of-stock", StockStatus(0))
}

func TestValidDirectSource(t *testing.T) {
	assert.True(t, ValidDirectSource(SourceCash))
	assert.True(t, ValidDirectSource(SourceUPI))
	assert.True(t, ValidDirectSource(SourceCard))

	assert.False(t, ValidDirectSource("cash"))
	assert.False(t, ValidDirectSource(SourceSettlementOutflow))
	assert.False(t, ValidDirectSource(SourceSettlementInflow))
	assert.False(t, ValidDirectSource(""))
}
