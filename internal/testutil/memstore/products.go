package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type productRepo struct{ s *Store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.Create"); err != nil {
		return err
	}
	if _, ok := r.s.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	if err := r.s.checkProductOrder(p.ID, p.CategoryID, p.Order); err != nil {
		return err
	}
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.products[id]; ok {
		return cloneProduct(p), nil
	}
	return nil, nil
}

func (r *productRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.Update"); err != nil {
		return err
	}
	cur, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneProduct(p)
	next.Quantity = cur.Quantity
	r.s.products[p.ID] = next
	return nil
}

func (r *productRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedProducts(""), nil
}

func (r *productRepo) ListByCategory(_ context.Context, categoryID string) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.sortedProducts(categoryID), nil
}

func (r *productRepo) LastOrderInCategory(_ context.Context, categoryID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := 0
	for _, p := range r.s.products {
		if p.CategoryID == categoryID && p.Order > last {
			last = p.Order
		}
	}
	return last, nil
}

func (r *productRepo) AdjustQuantity(_ context.Context, id string, delta int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.AdjustQuantity"); err != nil {
		return 0, err
	}
	p, ok := r.s.products[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Quantity+delta < 0 {
		return 0, fmt.Errorf("%w: %d %+d", domain.ErrNegativeStock, p.Quantity, delta)
	}
	p.Quantity += delta
	return p.Quantity, nil
}

func (r *productRepo) SetQuantity(_ context.Context, id string, quantity int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	if quantity < 0 {
		return domain.ErrNegativeStock
	}
	p.Quantity = quantity
	return nil
}

func (r *productRepo) ResetQuantity(ctx context.Context, id string) error {
	return r.SetQuantity(ctx, id, 0)
}

func (r *productRepo) ResetAllQuantities(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.products {
		p.Quantity = 0
		n++
	}
	return n, nil
}

func (r *productRepo) SetOrders(_ context.Context, orders []repository.OrderAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.SetOrders"); err != nil {
		return err
	}
	for _, o := range orders {
		p, ok := r.s.products[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := r.s.checkProductOrder(p.ID, p.CategoryID, o.Order); err != nil {
			return err
		}
		p.Order = o.Order
	}
	return nil
}

func (r *productRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("products.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *productRepo) DeleteByCategory(_ context.Context, categoryID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, p := range r.s.products {
		if p.CategoryID == categoryID {
			delete(r.s.products, id)
			n++
		}
	}
	return n, nil
}

// checkProductOrder emula UNIQUE (category_id, sort_order).
func (s *Store) checkProductOrder(id, categoryID string, order int) error {
	for _, other := range s.products {
		if other.ID != id && other.CategoryID == categoryID && other.Order == order {
			return fmt.Errorf("%w: orden %d ocupado en la categoría", domain.ErrDuplicate, order)
		}
	}
	return nil
}

func (s *Store) sortedProducts(categoryID string) []*entity.Product {
	out := make([]*entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Order < out[j].Order
	})
	return out
}
