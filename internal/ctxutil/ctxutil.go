package ctxutil

import (
	"context"
	"time"
)

// DefaultDBTimeout — стандартный потолок на один запрос к БД.
var DefaultDBTimeout = 5 * time.Second

// WithTimeout — обёртка над context.WithTimeout; d<=0 — без таймаута.
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout — таймаут для БД; не выходит за дедлайн родителя.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		if remain := time.Until(dl); remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
