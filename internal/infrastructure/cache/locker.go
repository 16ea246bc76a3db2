package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Retail-api/internal/domain"
)

const lockRetryInterval = 25 * time.Millisecond

// Solo borra la clave si sigue siendo nuestra: un lock expirado y retomado por otro no se libera.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)

// InvoiceLocker exclusión mutua por factura entre réplicas (SET NX PX con token).
type InvoiceLocker struct {
	db   *redis.Client
	ttl  time.Duration
	wait time.Duration
}

// NewInvoiceLocker ttl acota cuánto vive un lock huérfano; wait cuánto se espera por uno ocupado.
func NewInvoiceLocker(db *redis.Client, ttl, wait time.Duration) *InvoiceLocker {
	return &InvoiceLocker{db: db, ttl: ttl, wait: wait}
}

// Lock bloquea la factura. Si sigue ocupada tras la espera devuelve domain.ErrConflict.
func (l *InvoiceLocker) Lock(ctx context.Context, invoiceID string) (func(), error) {
	key := "lock:invoice:" + invoiceID
	token := uuid.NewString()

	deadline := time.NewTimer(l.wait)
	defer deadline.Stop()
	ticker := time.NewTicker(lockRetryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.db.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("cache.Lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("factura %s ocupada: %w", invoiceID, domain.ErrConflict)
		case <-ticker.C:
		}
	}
}

func (l *InvoiceLocker) release(key, token string) {
	// El contexto de la petición puede estar cancelado; la liberación usa uno propio.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	// Si falla, el TTL termina liberando la clave.
	_ = releaseScript.Run(ctx, l.db, []string{key}, token).Err()
}
