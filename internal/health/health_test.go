package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func serve(r *mux.Router, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	backendUp := true
	r := mux.NewRouter()
	RegisterRoutes(r, map[string]Check{
		"backend": func(context.Context) error {
			if backendUp {
				return nil
			}
			return errors.New("backend unreachable")
		},
	})

	assert.Equal(t, http.StatusOK, serve(r, "/healthz").Code)
	assert.Equal(t, http.StatusOK, serve(r, "/readyz").Code)

	backendUp = false
	rec := serve(r, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "backend unreachable")
	assert.Equal(t, http.StatusOK, serve(r, "/healthz").Code)
}
