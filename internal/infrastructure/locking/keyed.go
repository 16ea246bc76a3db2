// Package locking exclusión mutua por clave dentro del proceso. Se usa cuando no hay Redis.
package locking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Retail-api/internal/domain"
)

type entry struct {
	ch   chan struct{}
	refs int
}

// KeyedLocker un mutex por clave; las entradas se liberan cuando nadie las usa.
type KeyedLocker struct {
	mu      sync.Mutex
	entries map[string]*entry
	wait    time.Duration
}

// NewKeyedLocker wait es la espera máxima por una clave ocupada.
func NewKeyedLocker(wait time.Duration) *KeyedLocker {
	return &KeyedLocker{entries: make(map[string]*entry), wait: wait}
}

// Lock toma la clave. Si sigue ocupada tras la espera devuelve domain.ErrConflict.
func (l *KeyedLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	select {
	case e.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-e.ch
				l.drop(key, e)
			})
		}, nil
	case <-ctx.Done():
		l.drop(key, e)
		return nil, ctx.Err()
	case <-timer.C:
		l.drop(key, e)
		return nil, fmt.Errorf("%s ocupado: %w", key, domain.ErrConflict)
	}
}

func (l *KeyedLocker) drop(key string, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Len cantidad de claves con interesados (tests y diagnóstico).
func (l *KeyedLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
