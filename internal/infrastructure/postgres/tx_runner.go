package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var (
	_ stock.TxRunner   = (*TxRunner)(nil)
	_ catalog.TxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada transacción fija lock_timeout para que una fila bloqueada no espere indefinidamente.
type TxRunner struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewTxRunner construye el runner con el pool. lockTimeout <= 0 deja el valor del servidor.
func NewTxRunner(pool *pgxpool.Pool, lockTimeout time.Duration) *TxRunner {
	return &TxRunner{pool: pool, lockTimeout: lockTimeout}
}

// Run ejecuta fn con los repositorios del motor de stock atados a la tx.
func (r *TxRunner) Run(ctx context.Context, fn func(
	entries repository.StockEntryRepository,
	products repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockEntryRepository(tx), NewProductRepository(tx))
	})
}

// RunCatalog ejecuta fn con los repositorios del catálogo atados a la tx.
func (r *TxRunner) RunCatalog(ctx context.Context, fn func(
	categories repository.CategoryRepository,
	products repository.ProductRepository,
	entries repository.StockEntryRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewCategoryRepository(tx), NewProductRepository(tx), NewStockEntryRepository(tx))
	})
}

// inTx inicia la transacción, ejecuta fn y hace Commit; ante cualquier error hace Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", mapPgError(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if r.lockTimeout > 0 {
		ms := fmt.Sprintf("%dms", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, ms); err != nil {
			return fmt.Errorf("set lock_timeout: %w", mapPgError(err))
		}
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", mapPgError(err))
	}
	return nil
}
