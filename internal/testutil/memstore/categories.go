package memstore

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

type categoryRepo struct{ s *Store }

var _ repository.CategoryRepository = (*categoryRepo)(nil)

func (r *categoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; ok {
		return domain.ErrDuplicate
	}
	if err := r.s.checkCategoryOrder(c.ID, c.Order); err != nil {
		return err
	}
	r.s.categories[c.ID] = cloneCategory(c)
	return nil
}

func (r *categoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		return cloneCategory(c), nil
	}
	return nil, nil
}

func (r *categoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.categories[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneCategory(c)
	next.ProductIDs = cur.ProductIDs
	next.Order = cur.Order
	r.s.categories[c.ID] = next
	return nil
}

func (r *categoryRepo) List(_ context.Context) ([]*entity.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, cloneCategory(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *categoryRepo) LastOrder(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	last := 0
	for _, c := range r.s.categories {
		if c.Order > last {
			last = c.Order
		}
	}
	return last, nil
}

func (r *categoryRepo) AppendProduct(_ context.Context, categoryID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("categories.AppendProduct"); err != nil {
		return err
	}
	c, ok := r.s.categories[categoryID]
	if !ok {
		return domain.ErrNotFound
	}
	c.ProductIDs = append(c.ProductIDs, productID)
	return nil
}

func (r *categoryRepo) RemoveProduct(_ context.Context, categoryID, productID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("categories.RemoveProduct"); err != nil {
		return err
	}
	c, ok := r.s.categories[categoryID]
	if !ok {
		return nil
	}
	kept := c.ProductIDs[:0]
	for _, id := range c.ProductIDs {
		if id != productID {
			kept = append(kept, id)
		}
	}
	c.ProductIDs = kept
	return nil
}

func (r *categoryRepo) SetOrders(_ context.Context, orders []repository.OrderAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range orders {
		c, ok := r.s.categories[o.ID]
		if !ok {
			return domain.ErrNotFound
		}
		if err := r.s.checkCategoryOrder(c.ID, o.Order); err != nil {
			return err
		}
		c.Order = o.Order
	}
	return nil
}

func (r *categoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("categories.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.categories, id)
	return nil
}

// checkCategoryOrder emula UNIQUE (sort_order).
func (s *Store) checkCategoryOrder(id string, order int) error {
	for _, other := range s.categories {
		if other.ID != id && other.Order == order {
			return fmt.Errorf("%w: orden %d ocupado", domain.ErrDuplicate, order)
		}
	}
	return nil
}
