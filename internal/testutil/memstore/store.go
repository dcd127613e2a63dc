// Package memstore implementa los puertos de repositorio en memoria para tests de casos de uso.
// Las transacciones se serializan y se revierten restaurando una copia del estado.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/domain/repository"
)

// Store estado en memoria compartido por todos los repositorios.
type Store struct {
	txMu sync.Mutex
	mu   sync.Mutex

	categories map[string]*entity.Category
	products   map[string]*entity.Product
	entries    map[string]*entity.StockEntry
	users      map[string]*entity.User

	failOn    map[string]error
	conflicts int

	Commits   int
	Rollbacks int
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		categories: map[string]*entity.Category{},
		products:   map[string]*entity.Product{},
		entries:    map[string]*entity.StockEntry{},
		users:      map[string]*entity.User{},
		failOn:     map[string]error{},
	}
}

// FailOn hace que la operación indicada (ej. "products.AdjustQuantity") devuelva err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOn[op] = err
}

// ConflictNext hace que las próximas n transacciones fallen con domain.ErrConflict antes de ejecutarse.
func (s *Store) ConflictNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conflicts = n
}

func (s *Store) fail(op string) error {
	if err, ok := s.failOn[op]; ok {
		return err
	}
	return nil
}

// Categories, Products, Entries y Users devuelven repositorios fuera de transacción.
func (s *Store) Categories() repository.CategoryRepository { return &categoryRepo{s: s} }
func (s *Store) Products() repository.ProductRepository    { return &productRepo{s: s} }
func (s *Store) Entries() repository.StockEntryRepository  { return &entryRepo{s: s} }
func (s *Store) Users() repository.UserRepository          { return &userRepo{s: s} }

// Run ejecuta fn en una transacción del motor de stock.
func (s *Store) Run(ctx context.Context, fn func(repository.StockEntryRepository, repository.ProductRepository) error) error {
	return s.inTx(ctx, func() error {
		return fn(s.Entries(), s.Products())
	})
}

// RunCatalog ejecuta fn en una transacción del coordinador de catálogo.
func (s *Store) RunCatalog(ctx context.Context, fn func(repository.CategoryRepository, repository.ProductRepository, repository.StockEntryRepository) error) error {
	return s.inTx(ctx, func() error {
		return fn(s.Categories(), s.Products(), s.Entries())
	})
}

func (s *Store) inTx(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	if s.conflicts > 0 {
		s.conflicts--
		s.mu.Unlock()
		return fmt.Errorf("%w: serialization failure", domain.ErrConflict)
	}
	snap := s.snapshot()
	s.mu.Unlock()

	if err := fn(); err != nil {
		s.mu.Lock()
		s.restore(snap)
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

type snapshot struct {
	categories map[string]*entity.Category
	products   map[string]*entity.Product
	entries    map[string]*entity.StockEntry
	users      map[string]*entity.User
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		categories: make(map[string]*entity.Category, len(s.categories)),
		products:   make(map[string]*entity.Product, len(s.products)),
		entries:    make(map[string]*entity.StockEntry, len(s.entries)),
		users:      make(map[string]*entity.User, len(s.users)),
	}
	for k, v := range s.categories {
		snap.categories[k] = cloneCategory(v)
	}
	for k, v := range s.products {
		snap.products[k] = cloneProduct(v)
	}
	for k, v := range s.entries {
		snap.entries[k] = cloneEntry(v)
	}
	for k, v := range s.users {
		u := *v
		snap.users[k] = &u
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.categories = snap.categories
	s.products = snap.products
	s.entries = snap.entries
	s.users = snap.users
}

func cloneCategory(c *entity.Category) *entity.Category {
	out := *c
	out.ProductIDs = append([]string(nil), c.ProductIDs...)
	return &out
}

func cloneProduct(p *entity.Product) *entity.Product {
	out := *p
	if p.ImageRef != nil {
		ref := *p.ImageRef
		out.ImageRef = &ref
	}
	return &out
}

func cloneEntry(e *entity.StockEntry) *entity.StockEntry {
	out := *e
	out.Attachments = append([]string(nil), e.Attachments...)
	return &out
}
