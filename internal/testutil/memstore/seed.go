package memstore

import "github.com/jhoicas/stock-ledger-api/internal/domain/entity"

// PutCategory, PutProduct y PutEntry cargan datos iniciales sin validaciones.
func (s *Store) PutCategory(c *entity.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = cloneCategory(c)
}

func (s *Store) PutProduct(p *entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = cloneProduct(p)
}

func (s *Store) PutEntry(e *entity.StockEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = cloneEntry(e)
}

// Product devuelve una copia del producto o nil.
func (s *Store) Product(id string) *entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return cloneProduct(p)
	}
	return nil
}

// Category devuelve una copia de la categoría o nil.
func (s *Store) Category(id string) *entity.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.categories[id]; ok {
		return cloneCategory(c)
	}
	return nil
}

// Entry devuelve una copia de la entrada o nil.
func (s *Store) Entry(id string) *entity.StockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return cloneEntry(e)
	}
	return nil
}

// EntriesOf devuelve las entradas del producto en cualquier orden.
func (s *Store) EntriesOf(productID string) []*entity.StockEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesOf(productID)
}

// Counts devuelve la cantidad de categorías, productos y entradas.
func (s *Store) Counts() (categories, products, entries int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.categories), len(s.products), len(s.entries)
}
