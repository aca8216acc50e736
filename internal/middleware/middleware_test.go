package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"guardhouse/internal/roles"
	"guardhouse/internal/session"
)

type fixedSessions struct {
	s  session.Session
	ok bool
}

func (f fixedSessions) Current() (session.Session, bool) { return f.s, f.ok }

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func guarded(s Sessions, c roles.Capability) http.Handler {
	return RequestID(RequireSession(s)(RequireCapability(c)(okHandler)))
}

func TestRequireSession(t *testing.T) {
	h := guarded(fixedSessions{}, roles.ViewStaff)

	// API-вызов без сессии
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/staff", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "problem+json")

	// навигация браузера
	req := httptest.NewRequest(http.MethodGet, "/console/staff?x=1", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?next=%2Fconsole%2Fstaff%3Fx%3D1", rec.Header().Get("Location"))
}

func TestRequireCapability(t *testing.T) {
	guard := session.Session{AccessToken: "t", StaffRole: "security_guard", Department: "security"}
	h := guarded(fixedSessions{s: guard, ok: true}, roles.ManageRoles)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/console/roles", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	h = guarded(fixedSessions{s: guard, ok: true}, roles.ReportIncidents)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/console/incidents", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIDSanitized(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { seen = GetRequestID(r) }))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "abc-123", seen)

	req.Header.Set("X-Request-Id", "bad id\n"+strings.Repeat("x", 80))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
}

func TestRecovererReturnsProblem(t *testing.T) {
	h := RequestID(Recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "reqid")
}
