package models

import (
	"encoding/json"
	"net/http"
)

// Problem представляет ответ об ошибке в стиле RFC 7807.
type Problem struct {
	Type     string            `json:"type,omitempty"` // URL с описанием типа проблемы (можно оставить пустым)
	Title    string            `json:"title"`          // краткое название
	Status   int               `json:"status"`         // HTTP код
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"` // ошибки валидации по полям формы
	Extra    any               `json:"extra,omitempty"`
}

func WriteProblem(w http.ResponseWriter, status int, title, detail string, extra any) {
	writeProblem(w, Problem{Title: title, Status: status, Detail: detail, Extra: extra})
}

// WriteFieldErrors: 400 с ошибками по полям; форма не отправляется на бэкенд.
func WriteFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeProblem(w, Problem{
		Type:   "about:blank#validation",
		Title:  "Validation failed",
		Status: http.StatusBadRequest,
		Fields: fields,
	})
}

func writeProblem(w http.ResponseWriter, p Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
