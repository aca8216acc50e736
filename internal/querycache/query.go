package querycache

import (
	"context"
	"fmt"
	"time"
)

// Query[T] типизированно описывает запрос: ключ, политика, загрузчик.
type Query[T any] struct {
	Key    Key
	Policy Policy
	Fn     func(ctx context.Context) (T, error)
}

// Typed: результат с конкретным типом данных; то, что получает view.
type Typed[T any] struct {
	Data      T         `json:"data"`
	Error     error     `json:"-"`
	IsLoading bool      `json:"is_loading"`
	IsStale   bool      `json:"is_stale"`
	UpdatedAt time.Time `json:"updated_at"`
	Key       Key       `json:"key"`
}

func (q Query[T]) fetcher() Fetcher {
	return func(ctx context.Context) (any, error) { return q.Fn(ctx) }
}

func (q Query[T]) Fetch(ctx context.Context, c *Cache) Typed[T] {
	return typed[T](q.Key, c.Fetch(ctx, q.Key, q.Policy, q.fetcher()))
}

func (q Query[T]) FetchNoWait(c *Cache) Typed[T] {
	return typed[T](q.Key, c.FetchNoWait(q.Key, q.Policy, q.fetcher()))
}

// Refetch регистрирует запрос (если его ещё нет) и загружает принудительно.
func (q Query[T]) Refetch(ctx context.Context, c *Cache) Typed[T] {
	if _, ok := c.Peek(q.Key); !ok {
		return q.Fetch(ctx, c)
	}
	r, err := c.Refetch(ctx, q.Key)
	if err != nil {
		return Typed[T]{Key: q.Key, Error: err}
	}
	return typed[T](q.Key, r)
}

func typed[T any](key Key, r Result) Typed[T] {
	out := Typed[T]{
		Error:     r.Err,
		IsLoading: r.IsLoading,
		IsStale:   r.IsStale,
		UpdatedAt: r.UpdatedAt,
		Key:       key,
	}
	if r.Data != nil {
		v, ok := r.Data.(T)
		if !ok {
			out.Error = fmt.Errorf("querycache: %s holds %T, want %T", key.Debug(), r.Data, out.Data)
			return out
		}
		out.Data = v
	}
	return out
}
