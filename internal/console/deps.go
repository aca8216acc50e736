// Package console содержит HTTP-поверхность рабочего места охраны: JSON-представления
// поверх кэша запросов, формы мутаций, вход и выход.
package console

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"guardhouse/internal/backend"
	"guardhouse/internal/middleware"
	"guardhouse/internal/mutations"
	"guardhouse/internal/queries"
	"guardhouse/internal/querycache"
	"guardhouse/internal/roles"
	"guardhouse/internal/session"
)

type Dependencies struct {
	API       *backend.Client
	Cache     *querycache.Cache
	Sessions  *session.Manager
	Mutations *mutations.Set
	Log       *logrus.Entry
	Location  *time.Location // часовой пояс поста для "смен на сегодня"
	Now       func() time.Time
}

func Attach(r *mux.Router, d Dependencies) error {
	if d.Log == nil {
		d.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Mutations == nil {
		d.Mutations = mutations.NewSet(d.API, d.Cache, d.Log)
	}
	pages, err := parseTemplates(tplFS)
	if err != nil {
		return err
	}
	h := &Handler{d: d, q: queries.NewHooks(d.API), t: pages}

	// вход/выход без сессии
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	r.HandleFunc("/auth/session", h.SessionInfo).Methods(http.MethodGet)
	r.HandleFunc("/static/style.css", serveCSS).Methods(http.MethodGet)
	r.HandleFunc("/static/app.js", serveJS).Methods(http.MethodGet)

	sub := r.PathPrefix("/console").Subrouter()
	sub.Use(middleware.RequireSession(d.Sessions))

	// служебные
	sub.HandleFunc("/password/strength", h.PasswordStrength).Methods(http.MethodPost)
	sub.HandleFunc("/password/generate", h.PasswordGenerate).Methods(http.MethodGet)
	sub.HandleFunc("/focus", h.Focus).Methods(http.MethodPost)
	sub.HandleFunc("/refetch", h.Refetch).Methods(http.MethodPost)
	sub.HandleFunc("/raw", h.Raw).Methods(http.MethodPost)
	sub.HandleFunc("/mutations", h.MutationAudit).Methods(http.MethodGet)
	sub.HandleFunc("/organization", h.Organization).Methods(http.MethodGet)

	guard := func(c roles.Capability, fn http.HandlerFunc) http.Handler {
		return middleware.RequireCapability(c)(fn)
	}

	// staff
	sub.Handle("/staff/internal", guard(roles.ViewStaff, h.InternalStaff)).Methods(http.MethodGet)
	sub.Handle("/staff/external", guard(roles.ViewStaff, h.ExternalStaff)).Methods(http.MethodGet)
	sub.Handle("/staff/{id}", guard(roles.ViewStaff, h.StaffDetail)).Methods(http.MethodGet)
	sub.Handle("/staff/internal", guard(roles.ManageStaff, h.CreateInternalStaff)).Methods(http.MethodPost)
	sub.Handle("/staff/external", guard(roles.ManageStaff, h.CreateExternalStaff)).Methods(http.MethodPost)
	sub.Handle("/staff/{id}/role", guard(roles.ManageStaff, h.UpdateStaffRole)).Methods(http.MethodPut)
	sub.Handle("/staff/{id}/gate", guard(roles.ManageStaff, h.UpdateStaffGate)).Methods(http.MethodPut)
	sub.Handle("/staff/{id}/status", guard(roles.ManageStaff, h.UpdateStaffStatus)).Methods(http.MethodPut)
	sub.Handle("/staff/{id}", guard(roles.ManageStaff, h.RemoveStaff)).Methods(http.MethodDelete)
	sub.Handle("/gates", guard(roles.ViewStaff, h.Gates)).Methods(http.MethodGet)
	sub.Handle("/companies", guard(roles.ViewStaff, h.Companies)).Methods(http.MethodGet)
	sub.Handle("/companies", guard(roles.ManageStaff, h.CreateCompany)).Methods(http.MethodPost)

	// shifts
	sub.Handle("/shifts", guard(roles.ViewStaff, h.Shifts)).Methods(http.MethodGet)
	sub.Handle("/shifts/today", guard(roles.ViewStaff, h.TodayShifts)).Methods(http.MethodGet)
	sub.Handle("/shifts/{id}", guard(roles.ViewStaff, h.ShiftDetail)).Methods(http.MethodGet)
	sub.Handle("/shifts", guard(roles.ManageShifts, h.CreateShift)).Methods(http.MethodPost)
	sub.Handle("/shifts/{id}", guard(roles.ManageShifts, h.UpdateShift)).Methods(http.MethodPut)
	sub.Handle("/shifts/{id}/{action:cancel|start|complete}", guard(roles.ManageShifts, h.ShiftTransition)).Methods(http.MethodPost)

	// roles
	sub.Handle("/roles", guard(roles.ViewStaff, h.Roles)).Methods(http.MethodGet)
	sub.Handle("/roles", guard(roles.ManageRoles, h.CreateRole)).Methods(http.MethodPost)
	sub.Handle("/roles/{id}", guard(roles.ManageRoles, h.UpdateRole)).Methods(http.MethodPut)
	sub.Handle("/roles/{id}", guard(roles.ManageRoles, h.DeleteRole)).Methods(http.MethodDelete)
	sub.Handle("/roles/{id}/default", guard(roles.ManageRoles, h.SetDefaultRole)).Methods(http.MethodPost)

	// incidents
	sub.Handle("/incidents", guard(roles.ViewIncidents, h.Incidents)).Methods(http.MethodGet)
	sub.Handle("/incidents/stats", guard(roles.ViewIncidents, h.IncidentStats)).Methods(http.MethodGet)
	sub.Handle("/incidents/{id}", guard(roles.ViewIncidents, h.IncidentDetail)).Methods(http.MethodGet)
	sub.Handle("/incidents", guard(roles.ReportIncidents, h.ReportIncident)).Methods(http.MethodPost)
	sub.Handle("/incidents/{id}", guard(roles.ReportIncidents, h.UpdateIncident)).Methods(http.MethodPut)
	sub.Handle("/incidents/{id}/resolve", guard(roles.ResolveIncidents, h.ResolveIncident)).Methods(http.MethodPost)

	// visitors
	sub.Handle("/visitors", guard(roles.ManageVisitors, h.Visitors)).Methods(http.MethodGet)
	sub.Handle("/visitors/stats", guard(roles.ManageVisitors, h.VisitorStats)).Methods(http.MethodGet)
	sub.Handle("/visitors/{id}/{action:route|transfer|complete|check_out}", guard(roles.ManageVisitors, h.VisitorAction)).Methods(http.MethodPost)

	// reports
	sub.Handle("/activity", guard(roles.ViewReports, h.Activity)).Methods(http.MethodGet)
	sub.Handle("/performance", guard(roles.ViewReports, h.Performance)).Methods(http.MethodGet)
	return nil
}

type Handler struct {
	d Dependencies
	q queries.Hooks
	t pageTemplates
}
