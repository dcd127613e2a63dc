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

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, model, image_ref, type, deflection, quantity, supplier, unit_cost, comment, category_id, sort_order, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.Model, p.ImageRef, p.Type, p.Deflection, p.Quantity, p.Supplier,
		p.UnitCost, p.Comment, p.CategoryID, p.Order, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert product: %w", mapPgError(err))
	}
	return nil
}

// GetByID obtiene un producto por ID; nil, nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetForUpdate obtiene el producto bloqueando su fila hasta el fin de la transacción.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProductRepo) getOne(ctx context.Context, query, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", mapPgError(err))
	}
	return p, nil
}

// Update actualiza los campos descriptivos. quantity, category_id y sort_order no se tocan.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET model = $2, image_ref = $3, type = $4, deflection = $5, supplier = $6,
		    unit_cost = $7, comment = $8, updated_at = $9
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		p.ID, p.Model, p.ImageRef, p.Type, p.Deflection, p.Supplier, p.UnitCost, p.Comment, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListAll lista todos los productos agrupados por categoría y en su orden.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products ORDER BY category_id, sort_order`)
}

// ListByCategory lista los productos de la categoría en su orden.
func (r *ProductRepo) ListByCategory(ctx context.Context, categoryID string) ([]*entity.Product, error) {
	return r.list(ctx, `SELECT `+productColumns+` FROM products WHERE category_id = $1 ORDER BY sort_order`, categoryID)
}

func (r *ProductRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", mapPgError(err))
	}
	defer rows.Close()
	list := []*entity.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// LastOrderInCategory devuelve el mayor sort_order de la categoría (0 si está vacía).
func (r *ProductRepo) LastOrderInCategory(ctx context.Context, categoryID string) (int, error) {
	var last int
	err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM products WHERE category_id = $1`, categoryID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("last product order: %w", mapPgError(err))
	}
	return last, nil
}

// AdjustQuantity suma delta sólo si el resultado no es negativo (compare-and-swap en el UPDATE).
func (r *ProductRepo) AdjustQuantity(ctx context.Context, id string, delta int64) (int64, error) {
	var qty int64
	err := r.q.QueryRow(ctx, `
		UPDATE products SET quantity = quantity + $2, updated_at = now()
		WHERE id = $1 AND quantity + $2 >= 0
		RETURNING quantity`, id, delta).Scan(&qty)
	if err == nil {
		return qty, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("adjust quantity: %w", mapPgError(err))
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, fmt.Errorf("adjust quantity: %w", mapPgError(err))
	}
	if !exists {
		return 0, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return 0, fmt.Errorf("%w: producto %s, delta %+d", domain.ErrNegativeStock, id, delta)
}

// SetQuantity fija la cantidad (reconciliación desde el ledger).
func (r *ProductRepo) SetQuantity(ctx context.Context, id string, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET quantity = $2, updated_at = now() WHERE id = $1`, id, quantity)
	if err != nil {
		return fmt.Errorf("set quantity: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	return nil
}

// ResetQuantity fija la cantidad en 0.
func (r *ProductRepo) ResetQuantity(ctx context.Context, id string) error {
	return r.SetQuantity(ctx, id, 0)
}

// ResetAllQuantities fija en 0 la cantidad de todos los productos.
func (r *ProductRepo) ResetAllQuantities(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `UPDATE products SET quantity = 0, updated_at = now()`)
	if err != nil {
		return 0, fmt.Errorf("reset quantities: %w", mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

// SetOrders escribe sort_order fila por fila en un batch; ErrNotFound si algún id no existe.
func (r *ProductRepo) SetOrders(ctx context.Context, orders []repository.OrderAssignment) error {
	return sendOrderBatch(ctx, r.q, `UPDATE products SET sort_order = $2, updated_at = now() WHERE id = $1`, orders)
}

// Delete elimina el producto. Las entradas deben haberse eliminado antes (FK).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByCategory elimina todos los productos de la categoría.
func (r *ProductRepo) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE category_id = $1`, categoryID)
	if err != nil {
		return 0, fmt.Errorf("delete products by category: %w", mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.Model, &p.ImageRef, &p.Type, &p.Deflection, &p.Quantity, &p.Supplier,
		&p.UnitCost, &p.Comment, &p.CategoryID, &p.Order, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func sendOrderBatch(ctx context.Context, q Querier, query string, orders []repository.OrderAssignment) error {
	batch := &pgx.Batch{}
	for _, o := range orders {
		batch.Queue(query, o.ID, o.Order)
	}
	br := q.SendBatch(ctx, batch)
	defer br.Close()
	for _, o := range orders {
		tag, err := br.Exec()
		if err != nil {
			return fmt.Errorf("set order %s: %w", o.ID, mapPgError(err))
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, o.ID)
		}
	}
	return br.Close()
}
