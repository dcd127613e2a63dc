package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context) ([]*entity.Category, error)
	LastOrder(ctx context.Context) (int, error)
	// AppendProduct agrega productID al final de la lista de la categoría; domain.ErrNotFound si no existe.
	AppendProduct(ctx context.Context, categoryID, productID string) error
	RemoveProduct(ctx context.Context, categoryID, productID string) error
	SetOrders(ctx context.Context, orders []OrderAssignment) error
	Delete(ctx context.Context, id string) error
}
