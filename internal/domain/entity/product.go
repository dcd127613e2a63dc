package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un modelo del inventario.
// Quantity es una caché derivada del ledger: Σ entradas − Σ salidas; nunca negativa.
type Product struct {
	ID         string
	Model      string
	ImageRef   *string // nil si no tiene imagen
	Type       string
	Deflection string
	Quantity   int64
	Supplier   string
	UnitCost   decimal.Decimal // >= 0
	Comment    string
	CategoryID string
	Order      int // secuencia dentro de la categoría
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssetRefs devuelve las referencias a assets externos propios del producto (no incluye adjuntos del ledger).
func (p *Product) AssetRefs() []string {
	if p.ImageRef == nil || *p.ImageRef == "" {
		return nil
	}
	return []string{*p.ImageRef}
}
