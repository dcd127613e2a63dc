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

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name, image_ref, comment, product_ids, sort_order, created_at, updated_at`

// CategoryRepo categorías sobre PostgreSQL. product_ids guarda el orden de alta de los productos.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el repositorio. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

func (r *CategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	query := `INSERT INTO categories (` + categoryColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.ImageRef, c.Comment, nonNilStrings(c.ProductIDs), c.Order, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert category: %w", mapPgError(err))
	}
	return nil
}

func (r *CategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", mapPgError(err))
	}
	return c, nil
}

// Update modifica nombre, imagen y comentario.
func (r *CategoryRepo) Update(ctx context.Context, c *entity.Category) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE categories SET name = $2, image_ref = $3, comment = $4, updated_at = $5
		WHERE id = $1`, c.ID, c.Name, c.ImageRef, c.Comment, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update category: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", mapPgError(err))
	}
	defer rows.Close()
	list := []*entity.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) LastOrder(ctx context.Context) (int, error) {
	var last int
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(sort_order), 0) FROM categories`).Scan(&last); err != nil {
		return 0, fmt.Errorf("last category order: %w", mapPgError(err))
	}
	return last, nil
}

func (r *CategoryRepo) AppendProduct(ctx context.Context, categoryID, productID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE categories SET product_ids = array_append(product_ids, $2), updated_at = now()
		WHERE id = $1`, categoryID, productID)
	if err != nil {
		return fmt.Errorf("append product: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: categoría %s", domain.ErrNotFound, categoryID)
	}
	return nil
}

func (r *CategoryRepo) RemoveProduct(ctx context.Context, categoryID, productID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE categories SET product_ids = array_remove(product_ids, $2), updated_at = now()
		WHERE id = $1`, categoryID, productID)
	if err != nil {
		return fmt.Errorf("remove product: %w", mapPgError(err))
	}
	return nil
}

func (r *CategoryRepo) SetOrders(ctx context.Context, orders []repository.OrderAssignment) error {
	return sendOrderBatch(ctx, r.q, `UPDATE categories SET sort_order = $2, updated_at = now() WHERE id = $1`, orders)
}

func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.ImageRef, &c.Comment, &c.ProductIDs, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
