package stock_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/stock"
)

func TestSignedQuantity_EntradaSumaSalidaResta(t *testing.T) {
	assert.Equal(t, int64(7), stock.SignedQuantity(entity.StockTypeIn, 7))
	assert.Equal(t, int64(-7), stock.SignedQuantity(entity.StockTypeOut, 7))
}

func TestAmendDelta(t *testing.T) {
	// Entrada 10 → 3: el producto pierde 7.
	assert.Equal(t, int64(-7), stock.AmendDelta(entity.StockTypeIn, 10, 3))
	// Salida 4 → 6: el producto pierde 2 más.
	assert.Equal(t, int64(-2), stock.AmendDelta(entity.StockTypeOut, 4, 6))
	// Salida 6 → 4: el producto recupera 2.
	assert.Equal(t, int64(2), stock.AmendDelta(entity.StockTypeOut, 6, 4))
	assert.Equal(t, int64(0), stock.AmendDelta(entity.StockTypeIn, 5, 5))
}

func TestReversalDelta(t *testing.T) {
	assert.Equal(t, int64(-5), stock.ReversalDelta(entity.StockTypeIn, 5))
	assert.Equal(t, int64(5), stock.ReversalDelta(entity.StockTypeOut, 5))
}

func TestApply_CeroEsValido(t *testing.T) {
	got, err := stock.Apply(5, -5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestApply_NegativoFalla(t *testing.T) {
	got, err := stock.Apply(10, -15)
	require.ErrorIs(t, err, domain.ErrNegativeStock)
	assert.Equal(t, int64(10), got, "el valor original no cambia")
}

func TestLedgerSum(t *testing.T) {
	entries := []*entity.StockEntry{
		{StockType: entity.StockTypeIn, Quantity: 10},
		{StockType: entity.StockTypeOut, Quantity: 4},
		{StockType: entity.StockTypeIn, Quantity: 1},
	}
	assert.Equal(t, int64(7), stock.LedgerSum(entries))
	assert.Equal(t, int64(0), stock.LedgerSum(nil))
}

func TestValidateAmounts(t *testing.T) {
	assert.NoError(t, stock.ValidateAmounts(1, decimal.NewFromFloat(0.01)))
	assert.ErrorIs(t, stock.ValidateAmounts(0, decimal.NewFromInt(1)), domain.ErrValidation)
	assert.ErrorIs(t, stock.ValidateAmounts(-3, decimal.NewFromInt(1)), domain.ErrValidation)
	assert.ErrorIs(t, stock.ValidateAmounts(3, decimal.Zero), domain.ErrValidation)
	assert.ErrorIs(t, stock.ValidateAmounts(3, decimal.NewFromInt(-2)), domain.ErrValidation)
}
