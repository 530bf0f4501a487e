package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupTestMongo(t *testing.T) *MongoStore {
	if testing.Short() {
		t.Skip("skipping MongoDB container test in short mode")
	}
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, uri, "testdb")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Client().Disconnect(ctx)
	})

	return NewMongoStore(db, "carts")
}

func TestMongoStore_GetMissing(t *testing.T) {
	s := setupTestMongo(t)

	_, err := s.Get(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoStore_SetThenOverwrite(t *testing.T) {
	s := setupTestMongo(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":1}]`)))
	require.NoError(t, s.Set(ctx, "@RocketShoes:cart", []byte(`[{"id":1,"amount":2}]`)))

	v, err := s.Get(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"amount":2}]`, string(v))

	count, err := s.collection.CountDocuments(ctx, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
