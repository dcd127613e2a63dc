package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// ProductUseCase casos de uso de productos. La cantidad nunca se edita aquí: sólo el motor de stock la mueve.
type ProductUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	cache       ProductCache
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(txRunner TxRunner, productRepo repository.ProductRepository, cache ProductCache) *ProductUseCase {
	if cache == nil {
		cache = noopCache{}
	}
	return &ProductUseCase{txRunner: txRunner, productRepo: productRepo, cache: cache}
}

// CreateProductInput datos de alta de un producto.
type CreateProductInput struct {
	Model      string
	ImageRef   string
	Type       string
	Deflection string
	Supplier   string
	UnitCost   decimal.Decimal
	Comment    string
	CategoryID string
}

// UpdateProductInput campos editables; nil conserva el valor actual.
type UpdateProductInput struct {
	Model      *string
	ImageRef   *string
	Type       *string
	Deflection *string
	Supplier   *string
	UnitCost   *decimal.Decimal
	Comment    *string
}

// Create da de alta el producto con cantidad 0, al final de su categoría, y lo agrega a la lista
// de la categoría en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in CreateProductInput) (*entity.Product, error) {
	if err := validateProduct(in); err != nil {
		return nil, err
	}
	now := time.Now()
	p := &entity.Product{
		ID:         uuid.New().String(),
		Model:      strings.TrimSpace(in.Model),
		Type:       strings.TrimSpace(in.Type),
		Deflection: in.Deflection,
		Supplier:   in.Supplier,
		UnitCost:   in.UnitCost,
		Comment:    in.Comment,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if ref := strings.TrimSpace(in.ImageRef); ref != "" {
		p.ImageRef = &ref
	}

	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		err = uc.txRunner.RunCatalog(ctx, func(categories repository.CategoryRepository, products repository.ProductRepository, _ repository.StockEntryRepository) error {
			c, err := categories.GetByID(ctx, in.CategoryID)
			if err != nil {
				return err
			}
			if c == nil {
				return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, in.CategoryID)
			}
			last, err := products.LastOrderInCategory(ctx, in.CategoryID)
			if err != nil {
				return err
			}
			p.Order = last + 1
			if err := products.Create(ctx, p); err != nil {
				return err
			}
			return categories.AppendProduct(ctx, in.CategoryID, p.ID)
		})
		if !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get devuelve el producto, desde caché si está disponible.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*entity.Product, error) {
	if p, ok := uc.cache.Get(ctx, id); ok {
		return p, nil
	}
	generation, cacheable := uc.cache.Generation(ctx, id)
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if cacheable {
		uc.cache.Set(ctx, p, generation)
	}
	return p, nil
}

// List devuelve los productos de una categoría ordenados, o todos si categoryID es vacío.
func (uc *ProductUseCase) List(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	if categoryID == "" {
		return uc.productRepo.ListAll(ctx)
	}
	return uc.productRepo.ListByCategory(ctx, categoryID)
}

// Update aplica los campos presentes. Cantidad, categoría y orden no se editan por esta vía.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in UpdateProductInput) (*entity.Product, error) {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	if in.Model != nil {
		if strings.TrimSpace(*in.Model) == "" {
			return nil, fmt.Errorf("%w: model no puede quedar vacío", domain.ErrValidation)
		}
		p.Model = strings.TrimSpace(*in.Model)
	}
	if in.Type != nil {
		if strings.TrimSpace(*in.Type) == "" {
			return nil, fmt.Errorf("%w: type no puede quedar vacío", domain.ErrValidation)
		}
		p.Type = strings.TrimSpace(*in.Type)
	}
	if in.ImageRef != nil {
		if ref := strings.TrimSpace(*in.ImageRef); ref != "" {
			p.ImageRef = &ref
		} else {
			p.ImageRef = nil
		}
	}
	if in.Deflection != nil {
		p.Deflection = *in.Deflection
	}
	if in.Supplier != nil {
		p.Supplier = *in.Supplier
	}
	if in.UnitCost != nil {
		if in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrValidation)
		}
		p.UnitCost = *in.UnitCost
	}
	if in.Comment != nil {
		p.Comment = *in.Comment
	}
	p.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.cache.Invalidate(ctx, p.ID)
	return p, nil
}

func validateProduct(in CreateProductInput) error {
	switch {
	case strings.TrimSpace(in.Model) == "":
		return fmt.Errorf("%w: model es requerido", domain.ErrValidation)
	case strings.TrimSpace(in.Type) == "":
		return fmt.Errorf("%w: type es requerido", domain.ErrValidation)
	case strings.TrimSpace(in.CategoryID) == "":
		return fmt.Errorf("%w: category_id es requerido", domain.ErrValidation)
	case in.UnitCost.IsNegative():
		return fmt.Errorf("%w: unit_cost no puede ser negativo", domain.ErrValidation)
	}
	return nil
}
