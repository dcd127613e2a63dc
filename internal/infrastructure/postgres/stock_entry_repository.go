package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockEntryRepository = (*StockEntryRepo)(nil)

const entryColumns = `id, product_id, stock_type, quantity, unit_cost, date, description, attachments, created_at, updated_at`

// StockEntryRepo ledger de movimientos sobre PostgreSQL.
type StockEntryRepo struct {
	q Querier
}

// NewStockEntryRepository construye el repositorio. Pasar pool o tx (Querier).
func NewStockEntryRepository(q Querier) *StockEntryRepo {
	return &StockEntryRepo{q: q}
}

// Create inserta una entrada en el ledger.
func (r *StockEntryRepo) Create(ctx context.Context, e *entity.StockEntry) error {
	query := `
		INSERT INTO stock_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.ProductID, e.StockType, e.Quantity, e.UnitCost, e.Date, e.Description,
		nonNilStrings(e.Attachments), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock entry: %w", mapPgError(err))
	}
	return nil
}

// GetByID obtiene una entrada; nil, nil si no existe.
func (r *StockEntryRepo) GetByID(ctx context.Context, id string) (*entity.StockEntry, error) {
	return r.getOne(ctx, `SELECT `+entryColumns+` FROM stock_entries WHERE id = $1`, id)
}

// GetForUpdate obtiene la entrada bloqueando su fila. Llamar después de bloquear el producto.
func (r *StockEntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	return r.getOne(ctx, `SELECT `+entryColumns+` FROM stock_entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *StockEntryRepo) getOne(ctx context.Context, query, id string) (*entity.StockEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock entry: %w", mapPgError(err))
	}
	return e, nil
}

// Update persiste la corrección de una entrada. product_id y stock_type son inmutables.
func (r *StockEntryRepo) Update(ctx context.Context, e *entity.StockEntry) error {
	query := `
		UPDATE stock_entries
		SET quantity = $2, unit_cost = $3, date = $4, description = $5, attachments = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		e.ID, e.Quantity, e.UnitCost, e.Date, e.Description, nonNilStrings(e.Attachments), e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock entry: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una entrada del ledger.
func (r *StockEntryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete stock entry: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct lista los movimientos del producto, más recientes primero.
func (r *StockEntryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.StockEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+entryColumns+` FROM stock_entries
		WHERE product_id = $1
		ORDER BY date DESC, created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock entries: %w", mapPgError(err))
	}
	defer rows.Close()
	list := []*entity.StockEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock entry: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// SumByProduct suma del ledger: entradas menos salidas.
func (r *StockEntryRepo) SumByProduct(ctx context.Context, productID string) (int64, error) {
	var sum int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN stock_type = 'Stock Out' THEN -quantity ELSE quantity END), 0)::BIGINT
		FROM stock_entries WHERE product_id = $1`, productID).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum stock entries: %w", mapPgError(err))
	}
	return sum, nil
}

// DeleteByProduct elimina todas las entradas del producto.
func (r *StockEntryRepo) DeleteByProduct(ctx context.Context, productID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_entries WHERE product_id = $1`, productID)
	if err != nil {
		return 0, fmt.Errorf("delete stock entries: %w", mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (*entity.StockEntry, error) {
	var e entity.StockEntry
	err := row.Scan(
		&e.ID, &e.ProductID, &e.StockType, &e.Quantity, &e.UnitCost, &e.Date,
		&e.Description, &e.Attachments, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func nonNilStrings(refs []string) []string {
	if refs == nil {
		return []string{}
	}
	return refs
}
