package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Quantity sólo se modifica vía AdjustQuantity/SetQuantity/Reset*, nunca con Update.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListAll(ctx context.Context) ([]*entity.Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error)
	LastOrderInCategory(ctx context.Context, categoryID string) (int, error)
	// AdjustQuantity aplica delta en forma atómica y devuelve la cantidad resultante.
	// Devuelve domain.ErrNegativeStock (sin cambios) si el resultado sería negativo.
	AdjustQuantity(ctx context.Context, id string, delta int64) (int64, error)
	SetQuantity(ctx context.Context, id string, quantity int64) error
	ResetQuantity(ctx context.Context, id string) error
	ResetAllQuantities(ctx context.Context) (int64, error)
	SetOrders(ctx context.Context, orders []OrderAssignment) error
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) (int64, error)
}
