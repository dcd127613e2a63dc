package stock

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace rollback y no queda ningún efecto persistido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		entries repository.StockEntryRepository,
		products repository.ProductRepository,
	) error) error
}

// ProductCache caché de lectura de productos; el motor sólo la invalida tras un commit.
type ProductCache interface {
	Invalidate(ctx context.Context, productIDs ...string)
}

// EventPublisher difunde eventos de stock a clientes conectados. Publish no debe bloquear.
type EventPublisher interface {
	Publish(ev Event)
}

// AttachmentPurger elimina adjuntos en modo best-effort.
type AttachmentPurger interface {
	Purge(ctx context.Context, refs []string) []assets.Failure
}

// ReportGenerator genera el PDF de movimientos de un producto.
type ReportGenerator interface {
	GenerateLedgerReport(product *entity.Product, entries []*entity.StockEntry) ([]byte, error)
}

// Acciones publicadas en los eventos stock_update.
const (
	ActionCreated    = "movement_created"
	ActionAmended    = "movement_amended"
	ActionDeleted    = "movement_deleted"
	ActionReset      = "quantity_reset"
	ActionReconciled = "quantity_reconciled"
)

// Event notificación de cambio de cantidad de un producto.
type Event struct {
	Type      string    `json:"type"`
	Action    string    `json:"action"`
	ProductID string    `json:"product_id,omitempty"`
	EntryID   string    `json:"entry_id,omitempty"`
	Quantity  int64     `json:"quantity"`
	Delta     int64     `json:"delta"`
	UserID    string    `json:"user_id,omitempty"`
	At        time.Time `json:"at"`
}

// EventTypeStockUpdate tipo de mensaje que recibe el frontend.
const EventTypeStockUpdate = "stock_update"
