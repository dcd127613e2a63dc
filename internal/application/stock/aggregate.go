package stock

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReconcileResult diferencia entre la cantidad guardada y la suma del ledger.
type ReconcileResult struct {
	ProductID string `json:"product_id"`
	Before    int64  `json:"before"`
	After     int64  `json:"after"`
	Drift     int64  `json:"drift"`
}

// ResetQuantity fija la cantidad del producto en 0 sin tocar el ledger (override administrativo).
func (e *Engine) ResetQuantity(ctx context.Context, userID, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return fmt.Errorf("%w: product_id es requerido", domain.ErrValidation)
	}
	if err := e.productRepo.ResetQuantity(ctx, productID); err != nil {
		return err
	}
	e.log.Info().Str("product_id", productID).Str("user_id", userID).Msg("cantidad reiniciada")
	e.afterCommit(ctx, Event{Action: ActionReset, ProductID: productID, UserID: userID})
	return nil
}

// ResetAllQuantities fija en 0 la cantidad de todos los productos y devuelve cuántos cambió.
func (e *Engine) ResetAllQuantities(ctx context.Context, userID string) (int64, error) {
	n, err := e.productRepo.ResetAllQuantities(ctx)
	if err != nil {
		return 0, err
	}
	e.log.Info().Int64("products", n).Str("user_id", userID).Msg("cantidades reiniciadas")
	if e.cache != nil {
		e.cache.Invalidate(ctx)
	}
	e.afterCommit(ctx, Event{Action: ActionReset, UserID: userID})
	return n, nil
}

// Reconcile recalcula la cantidad del producto desde la suma del ledger, con el producto bloqueado.
func (e *Engine) Reconcile(ctx context.Context, userID, productID string) (*ReconcileResult, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrValidation)
	}
	var res *ReconcileResult
	err := e.runTx(ctx, "reconcile", func(entries repository.StockEntryRepository, products repository.ProductRepository) error {
		product, err := lockProduct(ctx, products, productID)
		if err != nil {
			return err
		}
		sum, err := entries.SumByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if sum < 0 {
			return fmt.Errorf("%w: la suma del ledger es %d", domain.ErrNegativeStock, sum)
		}
		if sum != product.Quantity {
			if err := products.SetQuantity(ctx, productID, sum); err != nil {
				return err
			}
		}
		res = &ReconcileResult{ProductID: productID, Before: product.Quantity, After: sum, Drift: sum - product.Quantity}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if res.Drift != 0 {
		e.log.Warn().Str("product_id", productID).Int64("drift", res.Drift).Msg("cantidad corregida desde el ledger")
	}
	e.afterCommit(ctx, Event{Action: ActionReconciled, ProductID: productID, Quantity: res.After, Delta: res.Drift, UserID: userID})
	return res, nil
}

// LedgerReport genera el PDF con el producto y sus movimientos.
func (e *Engine) LedgerReport(ctx context.Context, gen ReportGenerator, productID string) ([]byte, error) {
	if gen == nil {
		return nil, fmt.Errorf("%w: generador de reportes no configurado", domain.ErrExternalService)
	}
	entries, err := e.ListMovements(ctx, productID)
	if err != nil {
		return nil, err
	}
	product, err := e.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return gen.GenerateLedgerReport(product, entries)
}
