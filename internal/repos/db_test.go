package repos

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/docstore"
)

func TestOpenDBMigratesAndSeeds(t *testing.T) {
	ctx := context.Background()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer db.Close()

	var tables []string
	require.NoError(t, db.Select(&tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('documents','users') ORDER BY name`))
	assert.Equal(t, []string{"documents", "users"}, tables)

	store := docstore.NewSQLStore(db)
	require.NoError(t, SeedIfEmpty(ctx, store))
	require.NoError(t, SeedIfEmpty(ctx, store), "seeding twice is a no-op")

	prods := NewProductRepo(store)
	n, err := prods.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	featured, err := prods.Featured(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, featured, 2)

	cats, err := NewCategoryRepo(store).List(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	for _, p := range featured {
		assert.Contains(t, []string{string(cats[0].ID), string(cats[1].ID)}, string(p.Category))
	}
}
