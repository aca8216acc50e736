package console

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"guardhouse/internal/models"
	"guardhouse/internal/mutations"
	"guardhouse/internal/password"
	"guardhouse/internal/queries"
	"guardhouse/internal/querycache"
	"guardhouse/internal/roles"
	"guardhouse/internal/session"
)

type strengthForm struct {
	Password string `json:"password"`
}

// PasswordStrength: оценка для индикатора под полем пароля.
func (h *Handler) PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var f strengthForm
	if !bind(w, r, &f, func() error { return nil }) {
		return
	}
	s := password.CalculateStrength(f.Password)
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"strength":   s,
		"acceptable": s.Requirements.All(),
	})
}

func (h *Handler) PasswordGenerate(w http.ResponseWriter, r *http.Request) {
	n := password.MinLength + 4
	if v := r.URL.Query().Get("length"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			models.WriteFieldErrors(w, map[string]string{"length": "must be a positive number"})
			return
		}
		n = parsed
	}
	pw, err := password.GenerateStrong(n)
	if err != nil {
		models.WriteFieldErrors(w, map[string]string{"length": err.Error()})
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"password": pw,
		"strength": password.CalculateStrength(pw),
	})
}

// Focus: окно консоли снова в фокусе, и устаревшие наблюдаемые запросы перезагружаются в фоне.
func (h *Handler) Focus(w http.ResponseWriter, _ *http.Request) {
	n := h.d.Cache.Focus()
	h.d.Log.WithField("refetched", n).Debug("focus refetch")
	models.WriteJSON(w, http.StatusOK, map[string]int{"refetched": n})
}

// Refetch помечает устаревшим ресурс (?resource=incidents) или весь кэш.
func (h *Handler) Refetch(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("resource"))
	var roots []querycache.Key
	for _, k := range queries.Resources() {
		if name == "" || k.Resource() == name {
			roots = append(roots, k)
		}
	}
	if len(roots) == 0 {
		models.WriteFieldErrors(w, map[string]string{"resource": "unknown resource"})
		return
	}
	n := 0
	for _, k := range roots {
		n += h.d.Cache.Invalidate(k)
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"invalidated": n, "resources": roots})
}

type rawForm struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
}

func (f rawForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Method, validation.Required,
			validation.In("GET", "POST", "PUT", "PATCH", "DELETE").Error("unsupported method")),
		validation.Field(&f.Path, validation.Required, validation.By(func(v any) error {
			p, _ := v.(string)
			if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.Contains(p, "://") {
				return validation.NewError("validation_raw_path", "must be a backend path starting with /")
			}
			p, _, _ = strings.Cut(p, "?")
			for _, seg := range strings.Split(p, "/") {
				if u, err := url.PathUnescape(seg); err != nil || u == "." || u == ".." {
					return validation.NewError("validation_raw_path", "must not contain dot segments")
				}
			}
			return nil
		})),
	)
}

// rawScope: права и затрагиваемые ресурсы для пути бэкенда. Записи идут от
// узких к широким; первая подходящая побеждает.
type rawScope struct {
	prefix string
	suffix string
	read   roles.Capability
	write  roles.Capability
	// что помечать устаревшим после успешной записи
	invalidates []querycache.Key
}

var rawScopes = []rawScope{
	{prefix: "/auth/staff", read: roles.ViewStaff, write: roles.ManageStaff,
		invalidates: []querycache.Key{queries.Staff.All(), queries.Shifts.All(), queries.Activity.All(), queries.Performance.All()}},
	{prefix: "/security/staff", read: roles.ViewStaff, write: roles.ManageStaff,
		invalidates: []querycache.Key{queries.Staff.All(), queries.Shifts.All(), queries.Activity.All(), queries.Performance.All()}},
	{prefix: "/security/external-staff", read: roles.ViewStaff, write: roles.ManageStaff,
		invalidates: []querycache.Key{queries.Staff.All(), queries.Companies.All(), queries.Activity.All()}},
	{prefix: "/security/companies", read: roles.ViewStaff, write: roles.ManageStaff,
		invalidates: []querycache.Key{queries.Companies.All(), queries.Staff.All(), queries.Activity.All()}},
	{prefix: "/security/gates", read: roles.ViewStaff, write: roles.AllCapabilities,
		invalidates: []querycache.Key{queries.Gates.All(), queries.Staff.All(), queries.Shifts.All()}},
	{prefix: "/security/shifts", read: roles.ViewStaff, write: roles.ManageShifts,
		invalidates: []querycache.Key{queries.Shifts.All(), queries.Performance.All(), queries.Activity.All()}},
	{prefix: "/security/roles", read: roles.ViewStaff, write: roles.ManageRoles,
		invalidates: []querycache.Key{queries.Roles.All(), queries.Staff.All(), queries.Activity.All()}},
	{prefix: "/security/incidents", suffix: "/resolve", read: roles.ViewIncidents, write: roles.ResolveIncidents,
		invalidates: []querycache.Key{queries.Incidents.All(), queries.Performance.All(), queries.Activity.All()}},
	{prefix: "/security/incidents", read: roles.ViewIncidents, write: roles.ReportIncidents,
		invalidates: []querycache.Key{queries.Incidents.All(), queries.Performance.All(), queries.Activity.All()}},
	{prefix: "/security/visitors", read: roles.ManageVisitors, write: roles.ManageVisitors,
		invalidates: []querycache.Key{queries.Visitors.All(), queries.Activity.All()}},
	{prefix: "/security/activity", read: roles.ViewReports, write: roles.AllCapabilities,
		invalidates: []querycache.Key{queries.Activity.All()}},
	{prefix: "/security/performance", read: roles.ViewReports, write: roles.AllCapabilities,
		invalidates: []querycache.Key{queries.Performance.All()}},
	{prefix: "/auth/organization", read: 0, write: roles.AllCapabilities,
		invalidates: []querycache.Key{queries.Organization.All()}},
}

// scopeFor: неизвестный путь требует полного набора прав на чтение и запись,
// а запись по нему сбрасывает весь кэш.
func scopeFor(p string) rawScope {
	p, _, _ = strings.Cut(p, "?")
	p = strings.TrimRight(p, "/")
	for _, s := range rawScopes {
		if (p == s.prefix || strings.HasPrefix(p, s.prefix+"/")) && strings.HasSuffix(p, s.suffix) {
			return s
		}
	}
	return rawScope{read: roles.AllCapabilities, write: roles.AllCapabilities, invalidates: queries.Resources()}
}

// Raw: сквозной авторизованный запрос к бэкенду для операций без отдельного представления.
// Права проверяются по пути так же, как у типизированных маршрутов; успешная запись
// помечает устаревшими затронутые ресурсы.
func (h *Handler) Raw(w http.ResponseWriter, r *http.Request) {
	var f rawForm
	if !bind(w, r, &f, func() error {
		f.Method = strings.ToUpper(strings.TrimSpace(f.Method))
		return f.Validate()
	}) {
		return
	}

	scope := scopeFor(f.Path)
	write := f.Method != http.MethodGet
	need := scope.read
	if write {
		need = scope.write
	}
	s, _ := session.FromContext(r.Context())
	if need != 0 && !s.Principal().Can(need) {
		models.WriteProblem(w, http.StatusForbidden, "Forbidden", "missing capability "+need.String(), nil)
		return
	}

	res, err := h.d.API.Raw(r.Context(), f.Method, f.Path, f.Body)
	if err != nil && res.Status == 0 {
		writeBackendError(w, err)
		return
	}
	log := h.d.Log.WithField("method", f.Method).WithField("path", f.Path).WithField("status", res.Status)
	if write && err == nil {
		n := 0
		for _, k := range scope.invalidates {
			n += h.d.Cache.Invalidate(k)
		}
		log = log.WithField("invalidated", n)
	}
	log.Info("raw backend call")

	var body any = res.Body
	if len(res.Body) == 0 {
		body = nil
	} else if !json.Valid(res.Body) {
		body = string(res.Body)
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"status": res.Status, "body": body})
}

// MutationAudit: объявленные наборы инвалидации всех мутаций.
func (h *Handler) MutationAudit(w http.ResponseWriter, _ *http.Request) {
	models.WriteJSON(w, http.StatusOK, mutations.Audit())
}
