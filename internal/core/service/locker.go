package service

import (
	"context"
	"sync"

	"github.com/99minutos/freight-pricing/internal/core/domain"
)

// LocalLocker serialises writers of a scope within one process. It is used
// when no distributed locker is configured.
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

// Lock implements ports.ScopeLocker.
func (l *LocalLocker) Lock(ctx context.Context, scope string) (func(context.Context) error, error) {
	l.mu.Lock()
	slot, ok := l.slots[scope]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[scope] = slot
	}
	l.mu.Unlock()

	select {
	case slot <- struct{}{}:
	case <-ctx.Done():
		return nil, domain.ErrScopeLocked
	}

	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-slot })
		return nil
	}, nil
}
