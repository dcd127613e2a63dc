package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// AverageCost recalcula el costo promedio ponderado tras una entrada.
// nuevo = ((existencia * costoActual) + (cantEntrada * costoEntrada)) / (existencia + cantEntrada)
func AverageCost(onHand, currentCost, inQty, inCost decimal.Decimal) decimal.Decimal {
	sum := onHand.Add(inQty)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return onHand.Mul(currentCost).Add(inQty.Mul(inCost)).Div(sum)
}

// Valuation costo promedio y valor de la existencia según el ledger.
type Valuation struct {
	OnHand      int64
	AverageCost decimal.Decimal
	Value       decimal.Decimal
}

// Valuate recorre el ledger en orden cronológico. Las entradas recalculan el promedio;
// las salidas descuentan existencia al promedio vigente. No modifica entries.
func Valuate(entries []*entity.StockEntry) Valuation {
	ordered := make([]*entity.StockEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var onHand int64
	avg := decimal.Zero
	for _, e := range ordered {
		if e.StockType == entity.StockTypeOut {
			onHand -= e.Quantity
			if onHand <= 0 {
				onHand = 0
				avg = decimal.Zero
			}
			continue
		}
		avg = AverageCost(decimal.NewFromInt(onHand), avg, decimal.NewFromInt(e.Quantity), e.UnitCost)
		onHand += e.Quantity
	}
	return Valuation{
		OnHand:      onHand,
		AverageCost: avg.Round(2),
		Value:       avg.Mul(decimal.NewFromInt(onHand)).Round(2),
	}
}
