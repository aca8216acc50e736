package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"guardhouse/internal/models"
	"guardhouse/internal/roles"
	"guardhouse/internal/session"
)

// LoginPath: куда уводим браузерную навигацию без сессии.
const LoginPath = "/auth/login"

// Sessions: источник текущей сессии (session.Manager).
type Sessions interface {
	Current() (session.Session, bool)
}

// RequireSession кладёт сессию в контекст запроса. Без сессии: навигация
// браузера уходит на страницу входа, API-вызовы получают 401.
func RequireSession(s Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := s.Current()
			if !ok || !sess.Authenticated() {
				deny(w, r, http.StatusUnauthorized, "sign in required")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// RequireCapability ставится после RequireSession.
func RequireCapability(c roles.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := session.FromContext(r.Context())
			if !ok {
				deny(w, r, http.StatusUnauthorized, "sign in required")
				return
			}
			if !sess.Principal().Can(c) {
				deny(w, r, http.StatusForbidden, "missing capability "+c.String())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int, detail string) {
	if wantsHTML(r) {
		http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
		return
	}
	models.WriteProblem(w, status, http.StatusText(status), detail, map[string]any{"reqid": GetRequestID(r)})
}

// wantsHTML: GET-навигация браузера, а не fetch/XHR.
func wantsHTML(r *http.Request) bool {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if r.Header.Get("X-Requested-With") != "" {
		return false
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
