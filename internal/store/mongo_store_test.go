package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
)

func setupTestMongo(t *testing.T, ttl time.Duration) *MongoStore {
	if testing.Short() {
		t.Skip("skipping mongodb container test in short mode")
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

	s := NewMongoStore(db)
	require.NoError(t, s.CreateIndexes(ctx, ttl))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestMongoStore_Contract(t *testing.T) {
	runStoreContract(t, setupTestMongo(t, 0))
}

func TestMongoStore_UpsertKeepsOneDocument(t *testing.T) {
	s := setupTestMongo(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, KeyCart, []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, KeyCart, []byte(`[1,2]`)))

	n, err := s.collection.CountDocuments(ctx, map[string]any{"_id": KeyCart})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func expiryIndexes(t *testing.T, s *MongoStore) []bson.M {
	t.Helper()
	ctx := context.Background()
	cur, err := s.collection.Indexes().List(ctx)
	require.NoError(t, err)
	var all []bson.M
	require.NoError(t, cur.All(ctx, &all))

	var out []bson.M
	for _, idx := range all {
		if _, ok := idx["expireAfterSeconds"]; ok {
			out = append(out, idx)
		}
	}
	return out
}

func TestMongoStore_NoExpiryByDefault(t *testing.T) {
	s := setupTestMongo(t, 0)
	assert.Empty(t, expiryIndexes(t, s))
}

func TestMongoStore_ExpiryFollowsTTL(t *testing.T) {
	s := setupTestMongo(t, 2*time.Hour)

	idx := expiryIndexes(t, s)
	require.Len(t, idx, 1)
	assert.Equal(t, expiryIndexName, idx[0]["name"])
	assert.EqualValues(t, 7200, idx[0]["expireAfterSeconds"])
}

func TestConnectMongoDB_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	db, err := ConnectMongoDB(ctx, "mongodb://127.0.0.1:1", "testdb")
	require.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "failed to ping MongoDB")
}
