// Package ratelimit は固定ウィンドウのリクエスト回数制限。
// カウンタの保存先はStoreで差し替える（複数台ならRedis）。
package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Store はキーごとのウィンドウ内カウンタ。
// Hitは1加算して、加算後の回数とウィンドウのリセット時刻を返す。
type Store interface {
	Hit(ctx context.Context, key string, window time.Duration) (count int64, resetAt time.Time, err error)
}

type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   time.Time
}

type Limiter struct {
	store  Store
	max    int64
	window time.Duration
}

func New(store Store, max int64, window time.Duration) (*Limiter, error) {
	if store == nil {
		return nil, errors.New("ratelimit: store is required")
	}
	if max < 1 {
		return nil, errors.New("ratelimit: max must be >= 1")
	}
	if window <= 0 {
		return nil, errors.New("ratelimit: window must be positive")
	}
	return &Limiter{store: store, max: max, window: window}, nil
}

func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, resetAt, err := l.store.Hit(ctx, key, l.window)
	if err != nil {
		return Result{}, err
	}

	remaining := l.max - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   count <= l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   resetAt,
	}, nil
}
