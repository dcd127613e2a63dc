package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. La cantidad inicial siempre es 0.
type CreateProductRequest struct {
	Model      string          `json:"model" validate:"required,max=200"`
	ImageRef   string          `json:"image_ref" validate:"omitempty,url"`
	Type       string          `json:"type" validate:"required,max=100"`
	Deflection string          `json:"deflection"`
	Supplier   string          `json:"supplier"`
	UnitCost   decimal.Decimal `json:"unit_cost" validate:"gte=0"`
	Comment    string          `json:"comment"`
	CategoryID string          `json:"category_id" validate:"required"`
}

// UpdateProductRequest campos editables de un producto (sin quantity ni category_id).
type UpdateProductRequest struct {
	Model      *string          `json:"model" validate:"omitempty,max=200"`
	ImageRef   *string          `json:"image_ref"`
	Type       *string          `json:"type" validate:"omitempty,max=100"`
	Deflection *string          `json:"deflection"`
	Supplier   *string          `json:"supplier"`
	UnitCost   *decimal.Decimal `json:"unit_cost" validate:"omitempty,gte=0"`
	Comment    *string          `json:"comment"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	Model      string          `json:"model"`
	ImageRef   *string         `json:"image_ref"`
	Type       string          `json:"type"`
	Deflection string          `json:"deflection"`
	Quantity   int64           `json:"quantity"`
	Supplier   string          `json:"supplier"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Comment    string          `json:"comment"`
	CategoryID string          `json:"category_id"`
	Order      int             `json:"order"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// FromProduct convierte la entidad a su representación pública.
func FromProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:         p.ID,
		Model:      p.Model,
		ImageRef:   p.ImageRef,
		Type:       p.Type,
		Deflection: p.Deflection,
		Quantity:   p.Quantity,
		Supplier:   p.Supplier,
		UnitCost:   p.UnitCost,
		Comment:    p.Comment,
		CategoryID: p.CategoryID,
		Order:      p.Order,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

// FromProducts convierte una lista; nunca devuelve nil.
func FromProducts(list []*entity.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, *FromProduct(p))
	}
	return out
}
