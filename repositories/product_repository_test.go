package repositories

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"shop-service/database"
)

func TestGetManyEmptyInputSkipsQuery(t *testing.T) {
	repo := NewProductRepository()

	// A nil Queryer proves no query is issued for an empty id set.
	products, err := repo.GetMany(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Empty(t, products)
}

func TestGetManyOmitsUnknownIDs(t *testing.T) {
	if os.Getenv("TEST_DB_DSN") == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := database.Open(os.Getenv("TEST_DB_DSN"))
	require.NoError(t, err)
	defer db.Close()
	defer db.Exec("DELETE FROM products")

	repo := NewProductRepository()
	ctx := context.Background()

	p, err := repo.Create(ctx, db, "widget", 100, "test product", nil)
	require.NoError(t, err)

	products, err := repo.GetMany(ctx, db, []uuid.UUID{p.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, products, 1, "unknown ids are dropped, not errored")
	require.Equal(t, p.ID, products[0].ID)
}
