package console

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/querycache"
)

// Состояния представления, как их рисует интерфейс.
const (
	StateLoading = "loading"
	StateError   = "error"
	StateEmpty   = "empty"
	StateReady   = "ready"
)

type ViewError struct {
	Kind    string `json:"kind"` // transport|business|unauthorized|forbidden|not_found|internal
	Message string `json:"message"`
}

type View struct {
	State     string         `json:"state"`
	Data      any            `json:"data,omitempty"`
	Count     int            `json:"count"`
	Error     *ViewError     `json:"error,omitempty"`
	Retry     string         `json:"retry,omitempty"` // URL ручного повтора
	Stale     bool           `json:"stale"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
	Key       querycache.Key `json:"key"`
}

// shapeFunc применяет клиентские фильтры и возвращает данные и их количество.
type shapeFunc[T any] func(T) (any, int)

func one[T any](v T) (any, int) { return v, 1 }

func list[E any](v []E) (any, int) { return v, len(v) }

// serveQuery задаёт общий путь всех представлений.
// ?refetch=1: ручной повтор, ?wait=false, не ждать первую загрузку.
func serveQuery[T any](h *Handler, w http.ResponseWriter, r *http.Request, q querycache.Query[T], shape shapeFunc[T]) {
	var res querycache.Typed[T]
	qs := r.URL.Query()
	switch {
	case qs.Get("refetch") == "1":
		res = q.Refetch(r.Context(), h.d.Cache)
	case qs.Get("wait") == "false":
		res = q.FetchNoWait(h.d.Cache)
	default:
		res = q.Fetch(r.Context(), h.d.Cache)
	}

	v := View{Key: res.Key, Stale: res.IsStale}
	if !res.UpdatedAt.IsZero() {
		ts := res.UpdatedAt
		v.UpdatedAt = &ts
	}
	status := http.StatusOK
	switch {
	case res.Error != nil:
		// последние удачные данные всё равно показываем рядом с ошибкой
		v.State = StateError
		v.Error, status = viewError(res.Error)
		v.Retry = retryURL(r.URL)
		if !res.UpdatedAt.IsZero() {
			v.Data, v.Count = shape(res.Data)
		}
	case res.IsLoading:
		v.State = StateLoading
		status = http.StatusAccepted
	default:
		v.Data, v.Count = shape(res.Data)
		v.State = StateReady
		if v.Count == 0 {
			v.State = StateEmpty
		}
	}
	models.WriteJSON(w, status, v)
}

func viewError(err error) (*ViewError, int) {
	var ae *backend.APIError
	switch {
	case errors.Is(err, backend.ErrUnauthorized), errors.Is(err, backend.ErrNoToken):
		return &ViewError{Kind: "unauthorized", Message: "Your session has expired. Please sign in again."}, http.StatusUnauthorized
	case errors.Is(err, backend.ErrForbidden):
		return &ViewError{Kind: "forbidden", Message: err.Error()}, http.StatusForbidden
	case errors.Is(err, backend.ErrNotFound):
		return &ViewError{Kind: "not_found", Message: err.Error()}, http.StatusNotFound
	case errors.Is(err, backend.ErrTransport):
		return &ViewError{Kind: "transport", Message: "The server is unreachable. Check the connection and retry."}, http.StatusBadGateway
	case errors.As(err, &ae):
		return &ViewError{Kind: "business", Message: ae.Message}, http.StatusBadGateway
	default:
		return &ViewError{Kind: "internal", Message: err.Error()}, http.StatusInternalServerError
	}
}

func retryURL(u *url.URL) string {
	q := u.Query()
	q.Del("wait")
	q.Set("refetch", "1")
	return u.Path + "?" + q.Encode()
}
