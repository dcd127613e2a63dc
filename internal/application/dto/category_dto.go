package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	ImageRef string `json:"image_ref" validate:"omitempty,url"`
	Comment  string `json:"comment"`
}

// UpdateCategoryRequest campos editables; vacío conserva el valor actual.
type UpdateCategoryRequest struct {
	Name     string `json:"name" validate:"omitempty,max=200"`
	ImageRef string `json:"image_ref" validate:"omitempty,url"`
	Comment  string `json:"comment"`
}

// CategoryResponse salida de una categoría con sus productos ordenados.
type CategoryResponse struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	ImageRef   string            `json:"image_ref"`
	Comment    string            `json:"comment"`
	ProductIDs []string          `json:"product_ids"`
	Order      int               `json:"order"`
	Products   []ProductResponse `json:"products,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// FromCategory convierte la entidad; products puede ser nil.
func FromCategory(c *entity.Category, products []*entity.Product) *CategoryResponse {
	if c == nil {
		return nil
	}
	ids := c.ProductIDs
	if ids == nil {
		ids = []string{}
	}
	resp := &CategoryResponse{
		ID:         c.ID,
		Name:       c.Name,
		ImageRef:   c.ImageRef,
		Comment:    c.Comment,
		ProductIDs: ids,
		Order:      c.Order,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if products != nil {
		resp.Products = FromProducts(products)
	}
	return resp
}
