package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
)

// CreateStockEntryRequest body para POST /api/stock.
type CreateStockEntryRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	StockType   string          `json:"stock_type" validate:"required,oneof='Stock In' 'Stock Out'"`
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"gt=0"`
	Date        *time.Time      `json:"date"`
	Description string          `json:"description" validate:"max=1000"`
	Attachments []string        `json:"attachments" validate:"omitempty,dive,url"`
}

// AmendStockEntryRequest body para PUT /api/stock/:stockId. stock_type no es editable.
type AmendStockEntryRequest struct {
	Quantity    int64           `json:"quantity" validate:"gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost" validate:"gt=0"`
	Date        *time.Time      `json:"date"`
	Description string          `json:"description" validate:"max=1000"`
	Attachments []string        `json:"attachments" validate:"omitempty,dive,url"`
}

// StockEntryResponse salida de un movimiento del ledger.
type StockEntryResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	StockType   string          `json:"stock_type"`
	Quantity    int64           `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Attachments []string        `json:"attachments"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// MovementResponse resultado de crear o corregir un movimiento.
type MovementResponse struct {
	State   string              `json:"state"`
	Entry   *StockEntryResponse `json:"entry"`
	Product *ProductResponse    `json:"product"`
}

// DeleteMovementResponse resultado de eliminar un movimiento. AssetFailures es informativo.
type DeleteMovementResponse struct {
	State         string           `json:"state"`
	EntryID       string           `json:"entry_id"`
	Delta         int64            `json:"delta"`
	Product       *ProductResponse `json:"product"`
	AssetFailures []assets.Failure `json:"asset_failures"`
}

// FromStockEntry convierte la entidad a su representación pública.
func FromStockEntry(e *entity.StockEntry) *StockEntryResponse {
	if e == nil {
		return nil
	}
	attachments := e.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &StockEntryResponse{
		ID:          e.ID,
		ProductID:   e.ProductID,
		StockType:   e.StockType,
		Quantity:    e.Quantity,
		UnitCost:    e.UnitCost,
		Date:        e.Date,
		Description: e.Description,
		Attachments: attachments,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// FromStockEntries convierte una lista; nunca devuelve nil.
func FromStockEntries(list []*entity.StockEntry) []StockEntryResponse {
	out := make([]StockEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *FromStockEntry(e))
	}
	return out
}
