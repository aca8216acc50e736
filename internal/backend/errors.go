package backend

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport: сеть или транспорт (бэкенд недоступен, таймаут, обрыв).
	ErrTransport    = errors.New("backend unreachable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrNoToken      = errors.New("no access token")
)

// APIError описывает отказ бэкенда: не-2xx или конверт {status: "error"}.
type APIError struct {
	HTTPStatus int    `json:"http_status"`
	Status     string `json:"status,omitempty"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"` // сырой текст error из ответа
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned %d", e.HTTPStatus)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.HTTPStatus == http.StatusUnauthorized
	case ErrForbidden:
		return e.HTTPStatus == http.StatusForbidden
	case ErrNotFound:
		return e.HTTPStatus == http.StatusNotFound
	}
	return false
}

// IsBusiness: бэкенд понял запрос и отказал (в отличие от транспорта).
func IsBusiness(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

func genericMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return "Your session has expired. Please sign in again."
	case status == http.StatusForbidden:
		return "Access denied."
	case status == http.StatusNotFound:
		return "The requested record was not found."
	case status == http.StatusConflict:
		return "The record was changed by someone else."
	case status >= 500:
		return "Server error. Please try again later."
	default:
		return "Request failed. Please try again."
	}
}
