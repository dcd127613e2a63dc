package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
)

// SeedCategory entrada del catálogo a sembrar.
type SeedCategory struct {
	Name      string        `json:"category_name"`
	ImagePath string        `json:"category_image_path"`
	Comment   string        `json:"comment"`
	Products  []SeedProduct `json:"products"`
}

// SeedProduct producto del catálogo a sembrar. La cantidad siempre parte de 0.
type SeedProduct struct {
	Model      string          `json:"model"`
	ImagePath  string          `json:"image_path"`
	Type       string          `json:"type"`
	Deflection string          `json:"deflection"`
	Supplier   string          `json:"supplier"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Comments   string          `json:"comments"`
}

// SeedResult conteo de lo creado y lo que ya existía.
type SeedResult struct {
	CategoriesCreated int
	CategoriesFound   int
	ProductsCreated   int
	ProductsFound     int
}

// DecodeSeed lee el catálogo en JSON.
func DecodeSeed(r io.Reader) ([]SeedCategory, error) {
	var out []SeedCategory
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: catálogo inválido: %v", domain.ErrValidation, err)
	}
	return out, nil
}

// Seeder siembra el catálogo de forma idempotente: categorías por nombre, productos por modelo.
type Seeder struct {
	categories *CategoryUseCase
	products   *ProductUseCase
}

// NewSeeder construye el seeder sobre los casos de uso del catálogo.
func NewSeeder(categories *CategoryUseCase, products *ProductUseCase) *Seeder {
	return &Seeder{categories: categories, products: products}
}

// Seed crea lo que falte. Un modelo existente en otra categoría no se mueve.
func (s *Seeder) Seed(ctx context.Context, catalog []SeedCategory) (*SeedResult, error) {
	existing, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	categoryByName := make(map[string]string, len(existing))
	for _, c := range existing {
		categoryByName[c.Category.Name] = c.Category.ID
	}
	allProducts, err := s.products.List(ctx, "")
	if err != nil {
		return nil, err
	}
	productByModel := make(map[string]struct{}, len(allProducts))
	for _, p := range allProducts {
		productByModel[p.Model] = struct{}{}
	}

	res := &SeedResult{}
	for _, sc := range catalog {
		name := strings.TrimSpace(sc.Name)
		categoryID, ok := categoryByName[name]
		if ok {
			res.CategoriesFound++
		} else {
			c, err := s.categories.Create(ctx, CreateCategoryInput{Name: name, ImageRef: sc.ImagePath, Comment: sc.Comment})
			if err != nil {
				return res, fmt.Errorf("categoría %q: %w", name, err)
			}
			categoryID = c.ID
			categoryByName[name] = categoryID
			res.CategoriesCreated++
		}

		for _, sp := range sc.Products {
			model := strings.TrimSpace(sp.Model)
			if _, ok := productByModel[model]; ok {
				res.ProductsFound++
				continue
			}
			deflection := sp.Deflection
			if deflection == "" {
				deflection = "-"
			}
			_, err := s.products.Create(ctx, CreateProductInput{
				Model:      model,
				ImageRef:   sp.ImagePath,
				Type:       sp.Type,
				Deflection: deflection,
				Supplier:   sp.Supplier,
				UnitCost:   sp.UnitCost,
				Comment:    sp.Comments,
				CategoryID: categoryID,
			})
			if err != nil {
				return res, fmt.Errorf("producto %q: %w", model, err)
			}
			productByModel[model] = struct{}{}
			res.ProductsCreated++
		}
	}
	return res, nil
}
