package stock_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/stock"
)

func day(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }

func TestAverageCost(t *testing.T) {
	got := stock.AverageCost(decimal.NewFromInt(10), decimal.NewFromInt(100), decimal.NewFromInt(10), decimal.NewFromInt(200))
	assert.True(t, decimal.NewFromInt(150).Equal(got))

	assert.True(t, decimal.Zero.Equal(stock.AverageCost(decimal.Zero, decimal.Zero, decimal.Zero, decimal.NewFromInt(5))))
}

func TestValuate_OrdenCronologico(t *testing.T) {
	entries := []*entity.StockEntry{
		{StockType: entity.StockTypeOut, Quantity: 5, UnitCost: decimal.NewFromInt(999), Date: day(3)},
		{StockType: entity.StockTypeIn, Quantity: 10, UnitCost: decimal.NewFromInt(200), Date: day(2)},
		{StockType: entity.StockTypeIn, Quantity: 10, UnitCost: decimal.NewFromInt(100), Date: day(1)},
	}
	v := stock.Valuate(entries)
	assert.Equal(t, int64(15), v.OnHand)
	assert.Equal(t, "150", v.AverageCost.String())
	assert.Equal(t, "2250", v.Value.String())
	assert.Equal(t, entity.StockTypeOut, entries[0].StockType, "no reordena el slice recibido")
}

func TestValuate_ExistenciaAgotadaReiniciaPromedio(t *testing.T) {
	v := stock.Valuate([]*entity.StockEntry{
		{StockType: entity.StockTypeIn, Quantity: 4, UnitCost: decimal.NewFromInt(100), Date: day(1)},
		{StockType: entity.StockTypeOut, Quantity: 4, UnitCost: decimal.NewFromInt(100), Date: day(2)},
		{StockType: entity.StockTypeIn, Quantity: 2, UnitCost: decimal.NewFromInt(30), Date: day(3)},
	})
	assert.Equal(t, int64(2), v.OnHand)
	assert.Equal(t, "30", v.AverageCost.String())
	assert.Equal(t, "60", v.Value.String())
}

func TestValuate_SinMovimientos(t *testing.T) {
	v := stock.Valuate(nil)
	assert.Zero(t, v.OnHand)
	assert.True(t, v.Value.IsZero())
}
