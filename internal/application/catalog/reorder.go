package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ReorderUseCase reordena productos dentro de su categoría y categorías entre sí.
// El orden es único por lista, así que la escritura se hace en dos fases dentro de una transacción:
// primero valores centinela negativos y luego los definitivos 1..n.
type ReorderUseCase struct {
	txRunner TxRunner
	cache    ProductCache
}

// NewReorderUseCase construye el caso de uso. cache puede ser nil.
func NewReorderUseCase(txRunner TxRunner, cache ProductCache) *ReorderUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	return &ReorderUseCase{txRunner: txRunner, cache: cache}
}

// ReorderProducts fija el orden de los productos indicados (1..n). Todos deben pertenecer a la misma
// categoría; los productos de esa categoría que no se listan conservan su orden relativo a continuación.
func (uc *ReorderUseCase) ReorderProducts(ctx context.Context, ids []string) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	err := uc.txRunner.RunCatalog(ctx, func(_ repository.CategoryRepository, products repository.ProductRepository, _ repository.StockEntryRepository) error {
		var categoryID string
		for _, id := range ids {
			p, err := products.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
			}
			if categoryID == "" {
				categoryID = p.CategoryID
			} else if p.CategoryID != categoryID {
				return fmt.Errorf("%w: los productos deben pertenecer a la misma categoría", domain.ErrValidation)
			}
		}
		siblings, err := products.ListByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		rest := make([]string, 0, len(siblings))
		for _, p := range siblings {
			rest = append(rest, p.ID)
		}
		return twoPhase(ctx, mergeOrder(ids, rest), products.SetOrders)
	})
	if err != nil {
		return err
	}
	uc.cache.Invalidate(ctx, ids...)
	return nil
}

// ReorderCategories fija el orden de las categorías indicadas (1..n); las no listadas van después.
func (uc *ReorderUseCase) ReorderCategories(ctx context.Context, ids []string) error {
	if err := validateIDs(ids); err != nil {
		return err
	}
	return uc.txRunner.RunCatalog(ctx, func(categories repository.CategoryRepository, _ repository.ProductRepository, _ repository.StockEntryRepository) error {
		for _, id := range ids {
			c, err := categories.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
			}
		}
		all, err := categories.List(ctx)
		if err != nil {
			return err
		}
		rest := make([]string, 0, len(all))
		for _, c := range all {
			rest = append(rest, c.ID)
		}
		return twoPhase(ctx, mergeOrder(ids, rest), categories.SetOrders)
	})
}

func validateIDs(ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: la lista de ids no puede estar vacía", domain.ErrValidation)
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: id vacío en la lista", domain.ErrValidation)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: id duplicado %s", domain.ErrValidation, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// mergeOrder devuelve ids seguido de los elementos de rest que no aparecen en ids, en su orden actual.
func mergeOrder(ids, rest []string) []string {
	listed := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		listed[id] = struct{}{}
	}
	out := append([]string(nil), ids...)
	for _, id := range rest {
		if _, ok := listed[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func twoPhase(ctx context.Context, ordered []string, set func(context.Context, []repository.OrderAssignment) error) error {
	sentinel := make([]repository.OrderAssignment, len(ordered))
	final := make([]repository.OrderAssignment, len(ordered))
	for i, id := range ordered {
		sentinel[i] = repository.OrderAssignment{ID: id, Order: -(i + 1)}
		final[i] = repository.OrderAssignment{ID: id, Order: i + 1}
	}
	if err := set(ctx, sentinel); err != nil {
		return err
	}
	return set(ctx, final)
}
