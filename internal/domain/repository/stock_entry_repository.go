package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// StockEntryRepository define el puerto de persistencia del ledger de movimientos.
// Update y Delete sólo se invocan dentro de la transacción del motor, junto al ajuste del producto.
type StockEntryRepository interface {
	Create(ctx context.Context, entry *entity.StockEntry) error
	GetByID(ctx context.Context, id string) (*entity.StockEntry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error)
	Update(ctx context.Context, entry *entity.StockEntry) error
	Delete(ctx context.Context, id string) error
	// ListByProduct devuelve los movimientos del producto ordenados por fecha descendente.
	ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error)
	SumByProduct(ctx context.Context, productID string) (int64, error)
	DeleteByProduct(ctx context.Context, productID string) (int64, error)
}
