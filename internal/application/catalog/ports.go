package catalog

import (
	"context"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función en una transacción con los repositorios del catálogo atados a ella.
type TxRunner interface {
	RunCatalog(ctx context.Context, fn func(
		categories repository.CategoryRepository,
		products repository.ProductRepository,
		entries repository.StockEntryRepository,
	) error) error
}

// AssetPurger elimina assets en modo best-effort y devuelve las fallas.
type AssetPurger interface {
	Purge(ctx context.Context, refs []string) []assets.Failure
}

// ProductCache caché de lectura de productos. Sin ids, Invalidate vacía toda la caché.
// Generation se toma antes de leer la BD; Set descarta el producto si hubo una invalidación
// posterior a esa generación.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, bool)
	Generation(ctx context.Context, id string) (string, bool)
	Set(ctx context.Context, product *entity.Product, generation string)
	Invalidate(ctx context.Context, productIDs ...string)
}

// noopCache se usa cuando no hay Redis configurado.
type noopCache struct{}

func (noopCache) Get(context.Context, string) (*entity.Product, bool) { return nil, false }
func (noopCache) Generation(context.Context, string) (string, bool)   { return "", false }
func (noopCache) Set(context.Context, *entity.Product, string)        {}
func (noopCache) Invalidate(context.Context, ...string)               {}
