package lock_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/infrastructure/lock"
	"github.com/jhoicas/authors-report/pkg/config"
)

func exerciseLocker(t *testing.T, l ports.Locker, key string) {
	t.Helper()
	ctx := context.Background()

	release, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)

	_, err = l.Obtain(ctx, key, 5*time.Second)
	assert.ErrorIs(t, err, ports.ErrLockNotObtained)

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "liberar dos veces no falla")

	again, err := l.Obtain(ctx, key, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocalLocker(t *testing.T) {
	exerciseLocker(t, lock.NewLocalLocker(), "authors-report:sync")
}

func TestLocalLocker_ClavesIndependientes(t *testing.T) {
	l := lock.NewLocalLocker()
	ctx := context.Background()

	a, err := l.Obtain(ctx, "a", time.Second)
	require.NoError(t, err)
	b, err := l.Obtain(ctx, "b", time.Second)
	require.NoError(t, err)
	assert.NoError(t, a(ctx))
	assert.NoError(t, b(ctx))
}

// Requiere un Redis real: REDIS_TEST_ADDRESS=localhost:6379 go test ./...
func TestRedisLocker(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS no definido")
	}
	rdb, err := lock.NewRedisClient(context.Background(), config.RedisConfig{Address: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	exerciseLocker(t, lock.NewRedisLocker(rdb), "authors-report:test:"+time.Now().Format("150405.000000"))
}
