package cache_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Retail-api/internal/domain"
	"github.com/jhoicas/Retail-api/internal/infrastructure/cache"
	"github.com/jhoicas/Retail-api/pkg/config"
)

type serie struct {
	Category string
	Total    string
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client, err := cache.NewClient(context.Background(), config.RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

// ──────────────────────────────────────────────────────────────────────────────
// Cache
// ──────────────────────────────────────────────────────────────────────────────

func TestCache_SetGet(t *testing.T) {
	mr, client := setupRedis(t)
	c := cache.New(client, "retail:")
	ctx := context.Background()

	expected := []serie{{"ropa", "1200"}}
	require.NoError(t, c.Set(ctx, "series:T1", expected, time.Minute))
	assert.True(t, mr.Exists("retail:series:T1"), "la clave lleva el prefijo")

	var actual []serie
	found, err := c.Get(ctx, "series:T1", &actual)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, expected, actual)
}

func TestCache_ExpiraConTTL(t *testing.T) {
	mr, client := setupRedis(t)
	c := cache.New(client, "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	mr.FastForward(2 * time.Minute)

	var out string
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Invalidate(t *testing.T) {
	_, client := setupRedis(t)
	c := cache.New(client, "")
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
	require.NoError(t, c.Invalidate(ctx, "a", "b"))
	require.NoError(t, c.Invalidate(ctx))

	var out int
	found, err := c.Get(ctx, "a", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_JSONInvalido(t *testing.T) {
	mr, client := setupRedis(t)
	require.NoError(t, mr.Set("bad", "not-json"))

	var out []serie
	found, err := cache.New(client, "").Get(context.Background(), "bad", &out)
	assert.Error(t, err)
	assert.False(t, found)
}

// ──────────────────────────────────────────────────────────────────────────────
// InvoiceLocker
// ──────────────────────────────────────────────────────────────────────────────

func TestInvoiceLocker_OcupadoDevuelveConflicto(t *testing.T) {
	_, client := setupRedis(t)
	locker := cache.NewInvoiceLocker(client, 5*time.Second, 100*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "inv-1")
	require.NoError(t, err)

	_, err = locker.Lock(ctx, "inv-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	other, err := locker.Lock(ctx, "inv-2")
	require.NoError(t, err, "otra factura no se bloquea")
	other()

	unlock()
	again, err := locker.Lock(ctx, "inv-1")
	require.NoError(t, err)
	again()
}

func TestInvoiceLocker_NoLiberaLockAjeno(t *testing.T) {
	mr, client := setupRedis(t)
	locker := cache.NewInvoiceLocker(client, time.Second, 50*time.Millisecond)
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "inv-1")
	require.NoError(t, err)

	// El lock expira y otra réplica lo toma.
	mr.FastForward(2 * time.Second)
	second, err := locker.Lock(ctx, "inv-1")
	require.NoError(t, err)

	unlock()
	assert.True(t, mr.Exists("lock:invoice:inv-1"), "el primer dueño no borra el lock del segundo")
	second()
	assert.False(t, mr.Exists("lock:invoice:inv-1"))
}

func TestInvoiceLocker_Serializa(t *testing.T) {
	_, client := setupRedis(t)
	locker := cache.NewInvoiceLocker(client, 5*time.Second, 5*time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := locker.Lock(context.Background(), "inv-1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, maxInside)
}

func TestInvoiceLocker_ContextoCancelado(t *testing.T) {
	_, client := setupRedis(t)
	locker := cache.NewInvoiceLocker(client, 5*time.Second, 5*time.Second)

	unlock, err := locker.Lock(context.Background(), "inv-1")
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "inv-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
