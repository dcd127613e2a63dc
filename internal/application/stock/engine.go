package stock

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	ledger "github.com/jhoicas/stock-ledger-api/internal/domain/stock"
	"github.com/jhoicas/stock-ledger-api/pkg/logger"
)

// DefaultMaxAttempts intentos por mutación ante ErrConflict.
const DefaultMaxAttempts = 3

// EngineDeps colaboradores opcionales del motor. Los nil se reemplazan por no-ops.
type EngineDeps struct {
	Purger      AttachmentPurger
	Cache       ProductCache
	Events      EventPublisher
	Logger      *logger.Logger
	MaxAttempts int
	Now         func() time.Time
}

// Engine motor de mutaciones de stock: mantiene el ledger y la cantidad del producto
// en la misma transacción, con bloqueo producto → entrada.
type Engine struct {
	txRunner    TxRunner
	entryRepo   repository.StockEntryRepository
	productRepo repository.ProductRepository
	purger      AttachmentPurger
	cache       ProductCache
	events      EventPublisher
	log         *logger.Logger
	maxAttempts int
	now         func() time.Time
}

// NewEngine construye el motor.
func NewEngine(
	txRunner TxRunner,
	entryRepo repository.StockEntryRepository,
	productRepo repository.ProductRepository,
	deps EngineDeps,
) *Engine {
	e := &Engine{
		txRunner:    txRunner,
		entryRepo:   entryRepo,
		productRepo: productRepo,
		purger:      deps.Purger,
		cache:       deps.Cache,
		events:      deps.Events,
		log:         deps.Logger,
		maxAttempts: deps.MaxAttempts,
		now:         deps.Now,
	}
	if e.log == nil {
		e.log = logger.Nop()
	}
	if e.maxAttempts <= 0 {
		e.maxAttempts = DefaultMaxAttempts
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// runTx ejecuta fn en una transacción y la reintenta mientras el store reporte ErrConflict.
// fn debe ser re-ejecutable: cada intento parte de cero.
func (e *Engine) runTx(ctx context.Context, op string, fn func(repository.StockEntryRepository, repository.ProductRepository) error) error {
	var err error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		err = e.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		e.log.Warn().Err(err).Str("op", op).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

// afterCommit invalida caché y publica el evento. Nunca afecta el resultado de la mutación.
func (e *Engine) afterCommit(ctx context.Context, ev Event) {
	if e.cache != nil && ev.ProductID != "" {
		e.cache.Invalidate(ctx, ev.ProductID)
	}
	if e.events != nil {
		ev.Type = EventTypeStockUpdate
		ev.At = e.now()
		e.events.Publish(ev)
	}
}

func (e *Engine) logState(state ledger.MutationState, op, productID, entryID string, delta int64, err error) {
	evt := e.log.Info()
	if err != nil {
		evt = e.log.Warn().Err(err)
	}
	evt.Str("op", op).
		Str("state", string(state)).
		Str("product_id", productID).
		Str("entry_id", entryID).
		Int64("delta", delta).
		Msg("mutación de stock")
}
