package catalog_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/assets"
	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/domain/entity"
	"github.com/jhoicas/stock-ledger-api/internal/testutil/memstore"
)

// fakeStore registra cada Destroy y falla para las refs indicadas.
type fakeStore struct {
	mu        sync.Mutex
	destroyed []string
	failing   map[string]error
}

func (f *fakeStore) Upload(_ context.Context, folder, filename string, _ []byte) (string, error) {
	return "https://res.cloudinary.com/demo/image/upload/v1/" + folder + "/" + filename, nil
}

func (f *fakeStore) Destroy(_ context.Context, ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, ref)
	if err := f.failing[ref]; err != nil {
		return err
	}
	return nil
}

func (f *fakeStore) sortedDestroyed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.destroyed...)
	sort.Strings(out)
	return out
}

func strPtr(s string) *string { return &s }

const (
	catImage  = "https://res.cloudinary.com/demo/image/upload/v1/categories/sensores.png"
	prodImage = "https://res.cloudinary.com/demo/image/upload/v1/categories/lvdt.jpg"
	attachA   = "https://res.cloudinary.com/demo/raw/upload/v1/stock_attachments/remito.pdf"
	attachB   = "https://res.cloudinary.com/demo/image/upload/v1/stock_attachments/foto.jpg"
)

func seedCatalog(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	s.PutCategory(&entity.Category{ID: "c1", Name: "Sensores", ImageRef: catImage, ProductIDs: []string{"p1"}, Order: 1})
	s.PutProduct(&entity.Product{ID: "p1", Model: "LVDT-100", Type: "lineal", ImageRef: strPtr(prodImage), CategoryID: "c1", Order: 1, Quantity: 7})
	s.PutEntry(&entity.StockEntry{ID: "e1", ProductID: "p1", StockType: entity.StockTypeIn, Quantity: 10, UnitCost: decimal.NewFromInt(3), Attachments: []string{attachA}})
	s.PutEntry(&entity.StockEntry{ID: "e2", ProductID: "p1", StockType: entity.StockTypeOut, Quantity: 3, UnitCost: decimal.NewFromInt(3), Attachments: []string{attachB}})
	return s
}

func newCoordinator(s *memstore.Store, store assets.Store) *catalog.CascadeCoordinator {
	purger := assets.NewPurger(store, 0, 2, nil)
	return catalog.NewCascadeCoordinator(s, s.Categories(), s.Products(), s.Entries(), purger, nil, nil)
}

func TestDeleteCategory_EliminaTodoYPurgaAssets(t *testing.T) {
	s := seedCatalog(t)
	store := &fakeStore{}
	res, err := newCoordinator(s, store).DeleteCategory(context.Background(), "c1")
	require.NoError(t, err)

	assert.Equal(t, int64(1), res.DeletedProducts)
	assert.Equal(t, int64(2), res.DeletedEntries)
	assert.Empty(t, res.AssetFailures)

	categories, products, entries := s.Counts()
	assert.Zero(t, categories)
	assert.Zero(t, products)
	assert.Zero(t, entries)

	want := []string{attachA, attachB, catImage, prodImage}
	sort.Strings(want)
	assert.Equal(t, want, store.sortedDestroyed())
}

func TestDeleteCategory_FallasDeAssetsNoSonFatales(t *testing.T) {
	s := seedCatalog(t)
	store := &fakeStore{failing: map[string]error{
		attachA:   errors.New("context deadline exceeded"),
		prodImage: errors.New("not found"),
	}}
	res, err := newCoordinator(s, store).DeleteCategory(context.Background(), "c1")
	require.NoError(t, err)

	assert.Len(t, store.sortedDestroyed(), 4, "se intentan todas las purgas")
	require.Len(t, res.AssetFailures, 2)
	_, products, entries := s.Counts()
	assert.Zero(t, products)
	assert.Zero(t, entries)
}

func TestDeleteCategory_FallaDeBDRevierteTodo(t *testing.T) {
	s := seedCatalog(t)
	s.FailOn("categories.Delete", errors.New("boom"))

	_, err := newCoordinator(s, &fakeStore{}).DeleteCategory(context.Background(), "c1")
	require.Error(t, err)
	categories, products, entries := s.Counts()
	assert.Equal(t, 1, categories)
	assert.Equal(t, 1, products)
	assert.Equal(t, 2, entries)
}

func TestDeleteCategory_Inexistente(t *testing.T) {
	s := memstore.New()
	_, err := newCoordinator(s, &fakeStore{}).DeleteCategory(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteProduct_QuitaDeLaCategoria(t *testing.T) {
	s := seedCatalog(t)
	s.PutProduct(&entity.Product{ID: "p2", Model: "RVDT", Type: "rotativo", CategoryID: "c1", Order: 2})
	store := &fakeStore{}

	res, err := newCoordinator(s, store).DeleteProduct(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.DeletedEntries)
	assert.NotNil(t, res.AssetFailures)
	assert.Nil(t, s.Product("p1"))
	assert.NotNil(t, s.Product("p2"))
	assert.NotContains(t, s.Category("c1").ProductIDs, "p1")
	assert.Empty(t, s.EntriesOf("p1"))

	want := []string{attachA, attachB, prodImage}
	sort.Strings(want)
	assert.Equal(t, want, store.sortedDestroyed())
}

func TestDeleteProduct_Inexistente(t *testing.T) {
	s := seedCatalog(t)
	store := &fakeStore{}
	_, err := newCoordinator(s, store).DeleteProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.sortedDestroyed())
}

func seedOrdered(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	s.PutCategory(&entity.Category{ID: "c1", Name: "A", Order: 1})
	s.PutCategory(&entity.Category{ID: "c2", Name: "B", Order: 2})
	s.PutCategory(&entity.Category{ID: "c3", Name: "C", Order: 3})
	for i, id := range []string{"p1", "p2", "p3"} {
		s.PutProduct(&entity.Product{ID: id, Model: id, Type: "t", CategoryID: "c1", Order: i + 1})
	}
	s.PutProduct(&entity.Product{ID: "x1", Model: "x1", Type: "t", CategoryID: "c2", Order: 1})
	return s
}

func orders(s *memstore.Store, ids ...string) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = s.Product(id).Order
	}
	return out
}

func TestReorderProducts_Idempotente(t *testing.T) {
	s := seedOrdered(t)
	uc := catalog.NewReorderUseCase(s, nil)
	ids := []string{"p3", "p1", "p2"}

	require.NoError(t, uc.ReorderProducts(context.Background(), ids))
	first := orders(s, "p1", "p2", "p3")
	assert.Equal(t, []int{2, 3, 1}, first)

	require.NoError(t, uc.ReorderProducts(context.Background(), ids))
	assert.Equal(t, first, orders(s, "p1", "p2", "p3"))
}

func TestReorderProducts_ListaParcialConservaResto(t *testing.T) {
	s := seedOrdered(t)
	uc := catalog.NewReorderUseCase(s, nil)

	require.NoError(t, uc.ReorderProducts(context.Background(), []string{"p3", "p1"}))
	assert.Equal(t, []int{2, 3, 1}, orders(s, "p1", "p2", "p3"))
	assert.Equal(t, 1, s.Product("x1").Order)
}

func TestReorderProducts_Errores(t *testing.T) {
	s := seedOrdered(t)
	uc := catalog.NewReorderUseCase(s, nil)
	ctx := context.Background()

	assert.ErrorIs(t, uc.ReorderProducts(ctx, nil), domain.ErrValidation)
	assert.ErrorIs(t, uc.ReorderProducts(ctx, []string{"p1", "p1"}), domain.ErrValidation)
	assert.ErrorIs(t, uc.ReorderProducts(ctx, []string{"p1", "missing"}), domain.ErrNotFound)
	assert.ErrorIs(t, uc.ReorderProducts(ctx, []string{"p1", "x1"}), domain.ErrValidation)
	assert.Equal(t, []int{1, 2, 3}, orders(s, "p1", "p2", "p3"))
}

func TestReorderCategories(t *testing.T) {
	s := seedOrdered(t)
	uc := catalog.NewReorderUseCase(s, nil)

	require.NoError(t, uc.ReorderCategories(context.Background(), []string{"c3", "c1", "c2"}))
	assert.Equal(t, 2, s.Category("c1").Order)
	assert.Equal(t, 3, s.Category("c2").Order)
	assert.Equal(t, 1, s.Category("c3").Order)
}

func TestProductCreate_AlFinalYEnLaCategoria(t *testing.T) {
	s := seedOrdered(t)
	uc := catalog.NewProductUseCase(s, s.Products(), nil)

	p, err := uc.Create(context.Background(), catalog.CreateProductInput{
		Model: "LVDT-200", Type: "lineal", CategoryID: "c1", UnitCost: decimal.RequireFromString("12.50"),
	})
	require.NoError(t, err)
	assert.Equal(t, 4, p.Order)
	assert.Equal(t, int64(0), p.Quantity)
	assert.Contains(t, s.Category("c1").ProductIDs, p.ID)

	_, err = uc.Create(context.Background(), catalog.CreateProductInput{Model: "X", Type: "t", CategoryID: "nope"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Create(context.Background(), catalog.CreateProductInput{Type: "t", CategoryID: "c1"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestProductCreate_FallaAlAgregarRevierte(t *testing.T) {
	s := seedOrdered(t)
	s.FailOn("categories.AppendProduct", errors.New("boom"))
	uc := catalog.NewProductUseCase(s, s.Products(), nil)

	_, err := uc.Create(context.Background(), catalog.CreateProductInput{Model: "Y", Type: "t", CategoryID: "c1"})
	require.Error(t, err)
	list, err := uc.List(context.Background(), "c1")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestProductUpdate_NoTocaCantidad(t *testing.T) {
	s := seedCatalog(t)
	uc := catalog.NewProductUseCase(s, s.Products(), nil)

	cost := decimal.NewFromInt(99)
	p, err := uc.Update(context.Background(), "p1", catalog.UpdateProductInput{Supplier: strPtr("ACME"), UnitCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, "ACME", p.Supplier)
	assert.Equal(t, int64(7), s.Product("p1").Quantity)

	_, err = uc.Update(context.Background(), "p1", catalog.UpdateProductInput{Model: strPtr("  ")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCategoryCreateYList(t *testing.T) {
	s := seedOrdered(t)
	uc := catalog.NewCategoryUseCase(s.Categories(), s.Products())

	c, err := uc.Create(context.Background(), catalog.CreateCategoryInput{Name: "Celdas de carga"})
	require.NoError(t, err)
	assert.Equal(t, 4, c.Order)

	_, err = uc.Create(context.Background(), catalog.CreateCategoryInput{Name: " "})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := uc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "c1", list[0].Category.ID)
	require.Len(t, list[0].Products, 3)
	assert.Equal(t, "p1", list[0].Products[0].ID)
	assert.Empty(t, list[3].Products)

	updated, err := uc.Update(context.Background(), "c1", catalog.UpdateCategoryInput{Comment: "nuevo"})
	require.NoError(t, err)
	assert.Equal(t, "A", updated.Name)
	assert.Equal(t, "nuevo", updated.Comment)
}
