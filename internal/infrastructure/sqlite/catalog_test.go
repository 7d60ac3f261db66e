package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabohq/backend/internal/domain"
)

func newTestCatalog(t *testing.T) *CatalogStore {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewCatalogStore(db)
	ctx := context.Background()
	seed := []domain.Product{
		{Code: "MAR-001", Name: "Martillo Stanley", Brand: "Stanley", Category: "herramientas", Price: 12.50, Stock: 15, MinStock: 3, Unit: "unidad", Active: true},
		{Code: "CEM-001", Name: "Cemento Gris", Description: "saco de 50kg", Category: "construccion", Price: 8.75, Stock: 40, MinStock: 10, Unit: "saco", Active: true},
		{Code: "CLA-002", Name: "Clavos 2 pulgadas", Price: 1.20, Stock: 2, MinStock: 5, Unit: "caja", Active: true},
		{Code: "TAL-OLD", Name: "Taladro Descontinuado", Price: 45.00, Stock: 1, MinStock: 1, Unit: "unidad", Active: false},
	}
	for _, p := range seed {
		_, err := store.Insert(ctx, p)
		require.NoError(t, err)
	}
	return store
}

func TestCatalogStore_SearchExact(t *testing.T) {
	store := newTestCatalog(t)
	ctx := context.Background()

	t.Run("matches name case-insensitively", func(t *testing.T) {
		products, err := store.SearchExact(ctx, "MARTILLO", true)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Martillo Stanley", products[0].Name)
	})

	t.Run("matches code and description", func(t *testing.T) {
		byCode, err := store.SearchExact(ctx, "cem-001", true)
		require.NoError(t, err)
		require.Len(t, byCode, 1)

		byDesc, err := store.SearchExact(ctx, "50kg", true)
		require.NoError(t, err)
		require.Len(t, byDesc, 1)
		assert.Equal(t, "Cemento Gris", byDesc[0].Name)
	})

	t.Run("empty term matches nothing", func(t *testing.T) {
		products, err := store.SearchExact(ctx, "   ", true)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("activeOnly hides inactive products", func(t *testing.T) {
		active, err := store.SearchExact(ctx, "taladro", true)
		require.NoError(t, err)
		assert.Empty(t, active)

		all, err := store.SearchExact(ctx, "taladro", false)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})
}

func TestCatalogStore_ListAll(t *testing.T) {
	store := newTestCatalog(t)
	ctx := context.Background()

	active, err := store.ListAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	all, err := store.ListAll(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestCatalogStore_ListNames(t *testing.T) {
	store := newTestCatalog(t)

	names, err := store.ListNames(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Martillo Stanley", "Cemento Gris", "Clavos 2 pulgadas"}, names)
}

func TestCatalogStore_LowStock(t *testing.T) {
	store := newTestCatalog(t)

	low, err := store.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Clavos 2 pulgadas", low[0].Name)
}

func TestCatalogStore_CountActive(t *testing.T) {
	store := newTestCatalog(t)

	count, err := store.CountActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCatalogStore_UpdateStock(t *testing.T) {
	store := newTestCatalog(t)
	ctx := context.Background()

	products, err := store.SearchExact(ctx, "clavos", true)
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NoError(t, store.UpdateStock(ctx, products[0].ID, 50))

	low, err := store.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)
}
