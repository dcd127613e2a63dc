package catalog

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// ProductDeletion resultado del borrado en cascada de un producto.
type ProductDeletion struct {
	ProductID      string           `json:"product_id"`
	DeletedEntries int64            `json:"deleted_entries"`
	AssetFailures  []assets.Failure `json:"asset_failures"`
}

// CategoryDeletion resultado del borrado en cascada de una categoría.
type CategoryDeletion struct {
	CategoryID      string           `json:"category_id"`
	DeletedProducts int64            `json:"deleted_products"`
	DeletedEntries  int64            `json:"deleted_entries"`
	AssetFailures   []assets.Failure `json:"asset_failures"`
}

// CascadeCoordinator borra productos y categorías junto con todo lo que poseen.
// Primero intenta purgar todos los assets; luego borra los datos en una única transacción.
type CascadeCoordinator struct {
	txRunner     TxRunner
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
	entryRepo    repository.StockEntryRepository
	purger       AssetPurger
	cache        ProductCache
	log          *logger.Logger
}

// NewCascadeCoordinator construye el coordinador. cache y log pueden ser nil.
func NewCascadeCoordinator(
	txRunner TxRunner,
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
	entryRepo repository.StockEntryRepository,
	purger AssetPurger,
	cache ProductCache,
	log *logger.Logger,
) *CascadeCoordinator {
	if cache == nil {
		cache = noopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CascadeCoordinator{
		txRunner:     txRunner,
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
		entryRepo:    entryRepo,
		purger:       purger,
		cache:        cache,
		log:          log,
	}
}

// DeleteProduct elimina el producto, sus movimientos y su referencia en la categoría.
func (c *CascadeCoordinator) DeleteProduct(ctx context.Context, productID string) (*ProductDeletion, error) {
	product, err := c.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	refs, err := c.productAssetRefs(ctx, product)
	if err != nil {
		return nil, err
	}
	failures := c.purge(ctx, refs)

	res := &ProductDeletion{ProductID: productID, AssetFailures: failures}
	err = c.txRunner.RunCatalog(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository, entries repository.StockEntryRepository) error {
		locked, err := products.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		n, err := entries.DeleteByProduct(ctx, productID)
		if err != nil {
			return err
		}
		if err := categories.RemoveProduct(ctx, locked.CategoryID, productID); err != nil {
			return err
		}
		if err := products.Delete(ctx, productID); err != nil {
			return err
		}
		res.DeletedEntries = n
		return nil
	})
	if err != nil {
		return nil, err
	}
	c.cache.Invalidate(ctx, productID)
	c.log.Info().
		Str("product_id", productID).
		Int64("deleted_entries", res.DeletedEntries).
		Int("asset_failures", len(failures)).
		Msg("producto eliminado en cascada")
	return res, nil
}

// DeleteCategory elimina la categoría, sus productos y los movimientos de éstos.
func (c *CascadeCoordinator) DeleteCategory(ctx context.Context, categoryID string) (*CategoryDeletion, error) {
	category, err := c.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	owned, err := c.productRepo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	var refs []string
	if category.ImageRef != "" {
		refs = append(refs, category.ImageRef)
	}
	for _, p := range owned {
		pRefs, err := c.productAssetRefs(ctx, p)
		if err != nil {
			return nil, err
		}
		refs = append(refs, pRefs...)
	}
	failures := c.purge(ctx, refs)

	res := &CategoryDeletion{CategoryID: categoryID, AssetFailures: failures}
	ids := make([]string, 0, len(owned))
	err = c.txRunner.RunCatalog(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository, entries repository.StockEntryRepository) error {
		// Los productos se bloquean antes que sus entradas, igual que en el motor de stock.
		current, err := products.ListByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		ids = ids[:0]
		res.DeletedEntries = 0
		for _, p := range current {
			if _, err := products.GetForUpdate(ctx, p.ID); err != nil {
				return err
			}
			n, err := entries.DeleteByProduct(ctx, p.ID)
			if err != nil {
				return err
			}
			res.DeletedEntries += n
			ids = append(ids, p.ID)
		}
		n, err := products.DeleteByCategory(ctx, categoryID)
		if err != nil {
			return err
		}
		res.DeletedProducts = n
		return categories.Delete(ctx, categoryID)
	})
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		c.cache.Invalidate(ctx, ids...)
	}
	c.log.Info().
		Str("category_id", categoryID).
		Int64("deleted_products", res.DeletedProducts).
		Int64("deleted_entries", res.DeletedEntries).
		Int("asset_failures", len(failures)).
		Msg("categoría eliminada en cascada")
	return res, nil
}

func (c *CascadeCoordinator) productAssetRefs(ctx context.Context, p *entity.Product) ([]string, error) {
	refs := p.AssetRefs()
	entries, err := c.entryRepo.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		refs = append(refs, e.Attachments...)
	}
	return refs, nil
}

func (c *CascadeCoordinator) purge(ctx context.Context, refs []string) []assets.Failure {
	failures := []assets.Failure{}
	if c.purger == nil || len(refs) == 0 {
		return failures
	}
	return append(failures, c.purger.Purge(ctx, refs)...)
}
