package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

func TestGenerateLedgerReport(t *testing.T) {
	g := NewLedgerReportGenerator()
	product := &entity.Product{ID: "p1", Model: "LVDT-100", Type: "lineal", Quantity: 7, UnitCost: decimal.NewFromInt(1500)}
	entries := []*entity.StockEntry{
		{ID: "e2", ProductID: "p1", StockType: entity.StockTypeOut, Quantity: 3, UnitCost: decimal.NewFromInt(1500), Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "e1", ProductID: "p1", StockType: entity.StockTypeIn, Quantity: 10, UnitCost: decimal.NewFromInt(1500), Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Description: "compra inicial"},
	}

	out, err := g.GenerateLedgerReport(product, entries)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	empty, err := g.GenerateLedgerReport(product, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, empty)

	_, err = g.GenerateLedgerReport(nil, nil)
	assert.Error(t, err)
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "0,00", formatMoney(decimal.Zero))
	assert.Equal(t, "999,50", formatMoney(decimal.RequireFromString("999.5")))
	assert.Equal(t, "1.234.567,89", formatMoney(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-1.000,00", formatMoney(decimal.NewFromInt(-1000)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "corto", truncate("corto", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
