package console

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"guardhouse/internal/backend"
	"guardhouse/internal/filters"
	"guardhouse/internal/models"
)

// Серверные параметры идут в ключ кэша, клиентские фильтры применяются к
// уже загруженному списку и новых запросов не порождают.

func staffParams(r *http.Request) backend.StaffParams {
	q := r.URL.Query()
	return backend.StaffParams{CompanyID: q.Get("company_id"), GateID: q.Get("gate_id")}
}

func staffShape(f filters.Staff) shapeFunc[[]models.Staff] {
	return func(v []models.Staff) (any, int) { return list(f.Apply(v)) }
}

// staffFilter: неизвестная роль в фильтре даёт 400, а не весь список.
func staffFilter(w http.ResponseWriter, r *http.Request) (filters.Staff, bool) {
	f, err := filters.StaffFromQuery(r.URL.Query())
	if err != nil {
		models.WriteFieldErrors(w, map[string]string{"role": "must be one of: security_manager, team_lead, security_guard"})
		return f, false
	}
	return f, true
}

func (h *Handler) InternalStaff(w http.ResponseWriter, r *http.Request) {
	f, ok := staffFilter(w, r)
	if !ok {
		return
	}
	serveQuery(h, w, r, h.q.InternalStaff(staffParams(r)), staffShape(f))
}

func (h *Handler) ExternalStaff(w http.ResponseWriter, r *http.Request) {
	f, ok := staffFilter(w, r)
	if !ok {
		return
	}
	serveQuery(h, w, r, h.q.ExternalStaff(staffParams(r)), staffShape(f))
}

func (h *Handler) StaffDetail(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.StaffDetail(mux.Vars(r)["id"]), one[models.Staff])
}

func (h *Handler) Gates(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.Gates(), list[models.Gate])
}

func (h *Handler) Companies(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.Companies(), list[models.Company])
}

func (h *Handler) Shifts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := backend.ShiftParams{
		Date:    q.Get("date"),
		From:    q.Get("from"),
		To:      q.Get("to"),
		GateID:  q.Get("gate_id"),
		StaffID: q.Get("staff_id"),
	}
	f := filters.Shifts{Status: models.ShiftStatus(q.Get("status")), Search: q.Get("search")}
	serveQuery(h, w, r, h.q.Shifts(p), func(v []models.ShiftAssignment) (any, int) { return list(f.Apply(v)) })
}

func (h *Handler) TodayShifts(w http.ResponseWriter, r *http.Request) {
	date := h.d.Now().In(h.d.Location).Format(models.DateLayout)
	f := filters.ShiftsFromQuery(r.URL.Query())
	f.Date = ""
	serveQuery(h, w, r, h.q.TodayShifts(date), func(v []models.ShiftAssignment) (any, int) { return list(f.Apply(v)) })
}

func (h *Handler) ShiftDetail(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.ShiftDetail(mux.Vars(r)["id"]), one[models.ShiftAssignment])
}

func (h *Handler) Roles(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.Roles(), list[models.SecurityRole])
}

func (h *Handler) Incidents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := backend.IncidentParams{From: q.Get("from"), To: q.Get("to"), GateID: q.Get("gate_id")}
	f := filters.IncidentsFromQuery(q)
	serveQuery(h, w, r, h.q.Incidents(p), func(v []models.Incident) (any, int) { return list(f.Apply(v)) })
}

func (h *Handler) IncidentStats(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.IncidentStats(), one[models.IncidentStats])
}

func (h *Handler) IncidentDetail(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.IncidentDetail(mux.Vars(r)["id"]), one[models.Incident])
}

func (h *Handler) Visitors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := backend.VisitorParams{Date: q.Get("date"), GateID: q.Get("gate_id")}
	f := filters.VisitorsFromQuery(q)
	serveQuery(h, w, r, h.q.Visitors(p), func(v []models.VisitorLog) (any, int) { return list(f.Apply(v)) })
}

func (h *Handler) VisitorStats(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.VisitorStats(), one[models.VisitorStats])
}

func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := backend.ActivityParams{EntityType: q.Get("entity_type")}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n > 0 {
		p.Limit = min(n, 500)
	}
	serveQuery(h, w, r, h.q.Activity(p), list[models.ActivityEntry])
}

func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	p := backend.PerformanceParams{Period: r.URL.Query().Get("period")}
	switch p.Period {
	case "", "day", "week", "month", "quarter":
	default:
		models.WriteFieldErrors(w, map[string]string{"period": "must be one of: day, week, month, quarter"})
		return
	}
	serveQuery(h, w, r, h.q.Performance(p), list[models.PerformanceSummary])
}

func (h *Handler) Organization(w http.ResponseWriter, r *http.Request) {
	serveQuery(h, w, r, h.q.Organization(), one[models.OrganizationInfo])
}
