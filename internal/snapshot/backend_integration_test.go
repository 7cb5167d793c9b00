//go:build integration

package snapshot

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/market-copilot/internal/config"
)

func exerciseBackend(t *testing.T, backend Backend) {
	t.Helper()
	ctx := context.Background()
	key := "test_" + uuid.New().String() + KeySuffix

	_, err := backend.Get(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, backend.Set(ctx, key, []byte(`{"timestamp":"t","data":[]}`)))
	require.NoError(t, backend.Set(ctx, key, []byte(`{"timestamp":"t2","data":[1]}`)))

	got, err := backend.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"timestamp":"t2","data":[1]}`, string(got))
}

func TestIntegration_RedisBackend(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}

	backend, err := NewRedisBackend(config.RedisConfig{URL: "redis://" + addr})
	require.NoError(t, err)
	defer backend.Close()
	require.NoError(t, backend.Ping(context.Background()))

	exerciseBackend(t, backend)
}

func TestIntegration_PostgresBackend(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	backend, err := ConnectPostgres(context.Background(), dsn)
	require.NoError(t, err)
	defer backend.Close()

	exerciseBackend(t, backend)
}
