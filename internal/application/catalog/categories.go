package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// createAttempts intentos ante choque de orden por altas concurrentes.
const createAttempts = 3

// CategoryUseCase casos de uso de categorías.
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(categoryRepo repository.CategoryRepository, productRepo repository.ProductRepository) *CategoryUseCase {
	return &CategoryUseCase{categoryRepo: categoryRepo, productRepo: productRepo}
}

// CreateCategoryInput datos de alta de una categoría.
type CreateCategoryInput struct {
	Name     string
	ImageRef string
	Comment  string
}

// UpdateCategoryInput campos editables; vacío conserva el valor actual.
type UpdateCategoryInput struct {
	Name     string
	ImageRef string
	Comment  string
}

// CategoryWithProducts categoría con sus productos ordenados.
type CategoryWithProducts struct {
	Category *entity.Category
	Products []*entity.Product
}

// Create da de alta la categoría al final del orden.
func (uc *CategoryUseCase) Create(ctx context.Context, in CreateCategoryInput) (*entity.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name es requerido", domain.ErrValidation)
	}
	now := time.Now()
	c := &entity.Category{
		ID:         uuid.New().String(),
		Name:       name,
		ImageRef:   strings.TrimSpace(in.ImageRef),
		Comment:    in.Comment,
		ProductIDs: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	var err error
	for attempt := 0; attempt < createAttempts; attempt++ {
		var last int
		if last, err = uc.categoryRepo.LastOrder(ctx); err != nil {
			return nil, err
		}
		c.Order = last + 1
		if err = uc.categoryRepo.Create(ctx, c); !errors.Is(err, domain.ErrDuplicate) {
			break
		}
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Get devuelve la categoría con sus productos.
func (uc *CategoryUseCase) Get(ctx context.Context, id string) (*CategoryWithProducts, error) {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	products, err := uc.productRepo.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CategoryWithProducts{Category: c, Products: products}, nil
}

// List devuelve todas las categorías ordenadas, cada una con sus productos ordenados.
func (uc *CategoryUseCase) List(ctx context.Context) ([]CategoryWithProducts, error) {
	categories, err := uc.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	all, err := uc.productRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[string][]*entity.Product, len(categories))
	for _, p := range all {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	out := make([]CategoryWithProducts, 0, len(categories))
	for _, c := range categories {
		products := byCategory[c.ID]
		if products == nil {
			products = []*entity.Product{}
		}
		out = append(out, CategoryWithProducts{Category: c, Products: products})
	}
	return out, nil
}

// Update modifica nombre, comentario e imagen.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in UpdateCategoryInput) (*entity.Category, error) {
	c, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: categoría %s", domain.ErrNotFound, id)
	}
	if v := strings.TrimSpace(in.Name); v != "" {
		c.Name = v
	}
	if v := strings.TrimSpace(in.ImageRef); v != "" {
		c.ImageRef = v
	}
	if in.Comment != "" {
		c.Comment = in.Comment
	}
	c.UpdatedAt = time.Now()
	if err := uc.categoryRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
