package catalog_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger-api/internal/application/catalog"
	"github.com/jhoicas/stock-ledger-api/internal/domain"
	"github.com/jhoicas/stock-ledger-api/internal/testutil/memstore"
)

const seedJSON = `[
  {"category_name": "Sensores", "category_image_path": "", "products": [
    {"model": "LVDT-100", "type": "lineal", "unit_cost": 12.5},
    {"model": "RVDT-20", "type": "rotativo", "deflection": "±30°", "unit_cost": 40}
  ]},
  {"category_name": "Cables", "products": [
    {"model": "CAB-5M", "type": "blindado", "supplier": "Acme", "unit_cost": 3}
  ]}
]`

func newSeeder(s *memstore.Store) *catalog.Seeder {
	return catalog.NewSeeder(
		catalog.NewCategoryUseCase(s.Categories(), s.Products()),
		catalog.NewProductUseCase(s, s.Products(), nil),
	)
}

func TestSeed_CreaCatalogoYEsIdempotente(t *testing.T) {
	s := memstore.New()
	entries, err := catalog.DecodeSeed(strings.NewReader(seedJSON))
	require.NoError(t, err)

	res, err := newSeeder(s).Seed(context.Background(), entries)
	require.NoError(t, err)
	assert.Equal(t, 2, res.CategoriesCreated)
	assert.Equal(t, 3, res.ProductsCreated)

	list, err := catalog.NewCategoryUseCase(s.Categories(), s.Products()).List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Sensores", list[0].Category.Name)
	require.Len(t, list[0].Products, 2)
	assert.Equal(t, "LVDT-100", list[0].Products[0].Model)
	assert.Equal(t, "-", list[0].Products[0].Deflection)
	assert.Equal(t, "12.5", list[0].Products[0].UnitCost.String())
	assert.Zero(t, list[0].Products[0].Quantity)

	again, err := newSeeder(s).Seed(context.Background(), entries)
	require.NoError(t, err)
	assert.Zero(t, again.CategoriesCreated)
	assert.Zero(t, again.ProductsCreated)
	assert.Equal(t, 2, again.CategoriesFound)
	assert.Equal(t, 3, again.ProductsFound)

	categories, products, _ := s.Counts()
	assert.Equal(t, 2, categories)
	assert.Equal(t, 3, products)
}

func TestSeed_ProductoInvalidoCorta(t *testing.T) {
	s := memstore.New()
	entries, err := catalog.DecodeSeed(strings.NewReader(`[{"category_name":"Sensores","products":[{"model":"X"}]}]`))
	require.NoError(t, err)

	res, err := newSeeder(s).Seed(context.Background(), entries)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 1, res.CategoriesCreated)
	assert.Zero(t, res.ProductsCreated)
}

func TestDecodeSeed_JSONInvalido(t *testing.T) {
	_, err := catalog.DecodeSeed(strings.NewReader(`{"category_name":`))
	assert.ErrorIs(t, err, domain.ErrValidation)
}
