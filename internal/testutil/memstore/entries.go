package memstore

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
	ledger "github.com/jhoicas/stock-ledger-api/internal/domain/stock"
)

type entryRepo struct{ s *Store }

var _ repository.StockEntryRepository = (*entryRepo)(nil)

func (r *entryRepo) Create(_ context.Context, e *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entries.Create"); err != nil {
		return err
	}
	if _, ok := r.s.products[e.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.s.entries[e.ID] = cloneEntry(e)
	return nil
}

func (r *entryRepo) GetByID(_ context.Context, id string) (*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.entries[id]; ok {
		return cloneEntry(e), nil
	}
	return nil, nil
}

func (r *entryRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *entryRepo) Update(_ context.Context, e *entity.StockEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entries.Update"); err != nil {
		return err
	}
	if _, ok := r.s.entries[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.entries[e.ID] = cloneEntry(e)
	return nil
}

func (r *entryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entries.Delete"); err != nil {
		return err
	}
	if _, ok := r.s.entries[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.entries, id)
	return nil
}

func (r *entryRepo) ListByProduct(_ context.Context, productID string) ([]*entity.StockEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := r.s.entriesOf(productID)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *entryRepo) SumByProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return ledger.LedgerSum(r.s.entriesOf(productID)), nil
}

func (r *entryRepo) DeleteByProduct(_ context.Context, productID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.fail("entries.DeleteByProduct"); err != nil {
		return 0, err
	}
	var n int64
	for id, e := range r.s.entries {
		if e.ProductID == productID {
			delete(r.s.entries, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) entriesOf(productID string) []*entity.StockEntry {
	var out []*entity.StockEntry
	for _, e := range s.entries {
		if e.ProductID == productID {
			out = append(out, cloneEntry(e))
		}
	}
	return out
}
