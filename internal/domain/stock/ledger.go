// Package stock contiene las reglas puras del ledger de stock: signo de cada movimiento,
// deltas de corrección y reversión, y el invariante quantity >= 0 del agregado de producto.
package stock

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// MutationState estado de una mutación del motor: Pending → Validated → Applied | Aborted.
type MutationState string

const (
	StatePending   MutationState = "pending"
	StateValidated MutationState = "validated"
	StateApplied   MutationState = "applied"
	StateAborted   MutationState = "aborted"
)

// SignedQuantity devuelve el efecto de un movimiento sobre la cantidad del producto:
// +quantity para entradas, -quantity para salidas.
func SignedQuantity(stockType string, quantity int64) int64 {
	if stockType == entity.StockTypeOut {
		return -quantity
	}
	return quantity
}

// AmendDelta es el ajuste al producto cuando una entrada pasa de oldQty a newQty.
func AmendDelta(stockType string, oldQty, newQty int64) int64 {
	return SignedQuantity(stockType, newQty-oldQty)
}

// ReversalDelta es el ajuste al producto al eliminar una entrada del ledger.
func ReversalDelta(stockType string, quantity int64) int64 {
	return -SignedQuantity(stockType, quantity)
}

// Apply aplica delta a current. Falla con domain.ErrNegativeStock si el resultado es negativo;
// 0 es un resultado válido.
func Apply(current, delta int64) (int64, error) {
	next := current + delta
	if next < 0 {
		return current, fmt.Errorf("%w: %d %+d", domain.ErrNegativeStock, current, delta)
	}
	return next, nil
}

// LedgerSum recalcula la cantidad a partir de las entradas del ledger.
func LedgerSum(entries []*entity.StockEntry) int64 {
	var sum int64
	for _, e := range entries {
		sum += SignedQuantity(e.StockType, e.Quantity)
	}
	return sum
}

// ValidateAmounts verifica quantity > 0 y unitCost > 0.
func ValidateAmounts(quantity int64, unitCost decimal.Decimal) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity debe ser mayor que 0", domain.ErrValidation)
	}
	if !unitCost.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: unit_cost debe ser mayor que 0", domain.ErrValidation)
	}
	return nil
}
