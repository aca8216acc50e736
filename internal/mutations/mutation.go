// Package mutations: записи в бэкенд с явно объявленными наборами
// инвалидации. После успешного ответа все объявленные префиксы кэша
// помечаются устаревшими; автоматического отслеживания зависимостей нет.
package mutations

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"guardhouse/internal/querycache"
)

// Mutation: одна операция записи.
type Mutation[In, Out any] struct {
	Name        string
	Do          func(ctx context.Context, in In) (Out, error)
	Invalidates func(in In) []querycache.Key
}

// State хранит то, что видит view: последний результат и флаги.
type State[Out any] struct {
	Data      Out   `json:"data"`
	IsPending bool  `json:"is_pending"`
	IsError   bool  `json:"is_error"`
	Error     error `json:"-"`
}

type Callbacks[Out any] struct {
	OnSuccess func(Out)
	OnError   func(error)
	OnSettled func(Out, error)
}

// Handle: мутация, привязанная к кэшу; хранит состояние последнего вызова.
type Handle[In, Out any] struct {
	m     Mutation[In, Out]
	cache *querycache.Cache
	log   *logrus.Entry

	mu      sync.Mutex
	pending int
	state   State[Out]
}

func Bind[In, Out any](m Mutation[In, Out], cache *querycache.Cache, log *logrus.Entry) *Handle[In, Out] {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Handle[In, Out]{m: m, cache: cache, log: log.WithField("mutation", m.Name)}
}

func (h *Handle[In, Out]) Name() string { return h.m.Name }

// MutateAsync выполняет запись и ждёт результат.
func (h *Handle[In, Out]) MutateAsync(ctx context.Context, in In) (Out, error) {
	h.mu.Lock()
	h.pending++
	h.state.IsPending = true
	h.mu.Unlock()

	out, err := h.m.Do(ctx, in)
	if err == nil {
		h.invalidate(in)
	} else {
		h.log.WithError(err).Warn("mutation failed")
	}

	h.mu.Lock()
	h.pending--
	h.state = State[Out]{
		Data:      out,
		IsPending: h.pending > 0,
		IsError:   err != nil,
		Error:     err,
	}
	h.mu.Unlock()
	return out, err
}

// Mutate: вызов без ожидания; итог приходит в колбэки.
func (h *Handle[In, Out]) Mutate(ctx context.Context, in In, cb Callbacks[Out]) {
	h.mu.Lock()
	h.pending++
	h.state.IsPending = true
	h.mu.Unlock()
	go func() {
		// pending уже учтён выше, MutateAsync увеличит его ещё раз
		out, err := h.MutateAsync(ctx, in)
		h.mu.Lock()
		h.pending--
		h.state.IsPending = h.pending > 0
		h.mu.Unlock()
		switch {
		case err != nil && cb.OnError != nil:
			cb.OnError(err)
		case err == nil && cb.OnSuccess != nil:
			cb.OnSuccess(out)
		}
		if cb.OnSettled != nil {
			cb.OnSettled(out, err)
		}
	}()
}

func (h *Handle[In, Out]) State() State[Out] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Reset сбрасывает результат (закрытие модального окна).
func (h *Handle[In, Out]) Reset() {
	h.mu.Lock()
	h.state = State[Out]{IsPending: h.pending > 0}
	h.mu.Unlock()
}

func (h *Handle[In, Out]) invalidate(in In) {
	if h.m.Invalidates == nil || h.cache == nil {
		return
	}
	for _, k := range h.m.Invalidates(in) {
		n := h.cache.Invalidate(k)
		h.log.WithFields(logrus.Fields{"prefix": k.Debug(), "entries": n}).Debug("invalidated")
	}
}
