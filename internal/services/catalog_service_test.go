package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/docstore"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func newCatalog(t *testing.T) *services.CatalogService {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store := docstore.NewSQLStore(db)
	return services.NewCatalogService(repos.NewCategoryRepo(store), repos.NewProductRepo(store))
}

func TestCatalogProducts(t *testing.T) {
	ctx := context.Background()
	s := newCatalog(t)
	at := time.Date(2024, 5, 5, 5, 5, 5, 0, time.UTC)
	s.Now = func() time.Time { return at }

	cat, err := s.CreateCategory(ctx, services.CategoryInput{Name: "Consoles"})
	require.NoError(t, err)

	p, err := s.CreateProduct(ctx, services.ProductInput{
		Name: "NES", Price: decimal.RequireFromString("99.95"), Category: cat.ID, IsFeatured: true,
	})
	require.NoError(t, err)
	assert.True(t, at.Equal(p.DateCreated.Time))
	_, err = s.CreateProduct(ctx, services.ProductInput{Name: "SNES", Price: decimal.NewFromInt(150)})
	require.NoError(t, err)

	n, err := s.CountProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	featured, err := s.Featured(ctx, 5)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, p.ID, featured[0].ID)

	none, err := s.Featured(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)

	page, err := s.ListProducts(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "SNES", page[0].Name)

	gallery, err := s.SetGallery(ctx, p.ID, []string{"http://x/public/uploads/a.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"http://x/public/uploads/a.png"}, gallery.Images)

	updated, err := s.UpdateProduct(ctx, p.ID, services.ProductInput{Name: "NES Classic", Price: decimal.NewFromInt(60)})
	require.NoError(t, err)
	assert.Equal(t, "NES Classic", updated.Name)
	assert.Equal(t, gallery.Images, updated.Images, "update keeps the gallery")
	assert.True(t, at.Equal(updated.DateCreated.Time))
}

func TestCatalogRejectsUnknownCategory(t *testing.T) {
	ctx := context.Background()
	s := newCatalog(t)
	_, err := s.CreateProduct(ctx, services.ProductInput{Name: "X", Category: "nope"})
	assert.ErrorIs(t, err, services.ErrInvalidCategory)

	p, err := s.CreateProduct(ctx, services.ProductInput{Name: "X"})
	require.NoError(t, err)
	_, err = s.UpdateProduct(ctx, p.ID, services.ProductInput{Name: "X", Category: "nope"})
	assert.ErrorIs(t, err, services.ErrInvalidCategory)
}

func TestCatalogDeleteMissing(t *testing.T) {
	ctx := context.Background()
	s := newCatalog(t)
	assert.ErrorIs(t, s.DeleteProduct(ctx, "missing"), docstore.ErrNotFound)
	assert.ErrorIs(t, s.DeleteCategory(ctx, "missing"), docstore.ErrNotFound)
	_, err := s.UpdateCategory(ctx, "missing", services.CategoryInput{Name: "x"})
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
