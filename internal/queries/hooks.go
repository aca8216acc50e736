package queries

import (
	"context"
	"time"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/querycache"
)

// Окна свежести: оперативные данные (смены, инциденты, посетители) живут
// минуту, справочники (роли, компании, организация): четверть часа.
var (
	StaffPolicy        = querycache.Policy{StaleTime: 5 * time.Minute, RefetchOnFocus: true}
	ShiftPolicy        = querycache.Policy{StaleTime: time.Minute, RefetchOnFocus: true}
	RolePolicy         = querycache.Policy{StaleTime: 15 * time.Minute, RefetchOnFocus: true}
	CompanyPolicy      = querycache.Policy{StaleTime: 15 * time.Minute, RefetchOnFocus: true}
	GatePolicy         = querycache.Policy{StaleTime: 15 * time.Minute, RefetchOnFocus: true}
	OrganizationPolicy = querycache.Policy{StaleTime: 15 * time.Minute, RefetchOnFocus: true}
	ActivityPolicy     = querycache.Policy{StaleTime: 2 * time.Minute, RefetchOnFocus: true}
	PerformancePolicy  = querycache.Policy{StaleTime: 10 * time.Minute, RefetchOnFocus: true}
	IncidentPolicy     = querycache.Policy{StaleTime: time.Minute, RefetchInterval: 20 * time.Second, RefetchOnFocus: true}
	VisitorPolicy      = querycache.Policy{StaleTime: time.Minute, RefetchOnFocus: true}
	VisitorStatsPolicy = querycache.Policy{StaleTime: time.Minute, RefetchInterval: 5 * time.Second, RefetchOnFocus: true}
)

// Hooks собирает описания запросов поверх клиента бэкенда.
// Результат читают через Query.Fetch / FetchNoWait / Refetch с общим кэшем.
type Hooks struct {
	api *backend.Client
}

func NewHooks(api *backend.Client) Hooks { return Hooks{api: api} }

func query[T any](key querycache.Key, p querycache.Policy, fn func(context.Context) (T, error)) querycache.Query[T] {
	return querycache.Query[T]{Key: key, Policy: p, Fn: fn}
}

// ---------- staff ----------

func (h Hooks) InternalStaff(p backend.StaffParams) querycache.Query[[]models.Staff] {
	return query(Staff.InternalList(p), StaffPolicy, func(ctx context.Context) ([]models.Staff, error) {
		return h.api.ListInternalStaff(ctx, p)
	})
}

func (h Hooks) ExternalStaff(p backend.StaffParams) querycache.Query[[]models.Staff] {
	return query(Staff.ExternalList(p), StaffPolicy, func(ctx context.Context) ([]models.Staff, error) {
		return h.api.ListExternalStaff(ctx, p)
	})
}

func (h Hooks) StaffDetail(staffID string) querycache.Query[models.Staff] {
	return query(Staff.Detail(staffID), StaffPolicy, func(ctx context.Context) (models.Staff, error) {
		return h.api.GetStaff(ctx, staffID)
	})
}

func (h Hooks) Gates() querycache.Query[[]models.Gate] {
	return query(Gates.List(), GatePolicy, h.api.ListGates)
}

func (h Hooks) Companies() querycache.Query[[]models.Company] {
	return query(Companies.List(), CompanyPolicy, h.api.ListCompanies)
}

// ---------- shifts ----------

func (h Hooks) Shifts(p backend.ShiftParams) querycache.Query[[]models.ShiftAssignment] {
	return query(Shifts.List(p), ShiftPolicy, func(ctx context.Context) ([]models.ShiftAssignment, error) {
		return h.api.ListShifts(ctx, p)
	})
}

func (h Hooks) ShiftDetail(shiftID string) querycache.Query[models.ShiftAssignment] {
	return query(Shifts.Detail(shiftID), ShiftPolicy, func(ctx context.Context) (models.ShiftAssignment, error) {
		return h.api.GetShift(ctx, shiftID)
	})
}

// TodayShifts: смены на конкретный день (date в формате models.DateLayout).
func (h Hooks) TodayShifts(date string) querycache.Query[[]models.ShiftAssignment] {
	return query(Shifts.Today(date), ShiftPolicy, func(ctx context.Context) ([]models.ShiftAssignment, error) {
		return h.api.ListShifts(ctx, backend.ShiftParams{Date: date})
	})
}

// ---------- roles ----------

func (h Hooks) Roles() querycache.Query[[]models.SecurityRole] {
	return query(Roles.List(), RolePolicy, h.api.ListRoles)
}

// ---------- incidents ----------

func (h Hooks) Incidents(p backend.IncidentParams) querycache.Query[[]models.Incident] {
	return query(Incidents.List(p), IncidentPolicy, func(ctx context.Context) ([]models.Incident, error) {
		return h.api.ListIncidents(ctx, p)
	})
}

func (h Hooks) IncidentDetail(incidentID string) querycache.Query[models.Incident] {
	return query(Incidents.Detail(incidentID), IncidentPolicy, func(ctx context.Context) (models.Incident, error) {
		return h.api.GetIncident(ctx, incidentID)
	})
}

func (h Hooks) IncidentStats() querycache.Query[models.IncidentStats] {
	return query(Incidents.Stats(), IncidentPolicy, h.api.IncidentStats)
}

// ---------- visitors ----------

func (h Hooks) Visitors(p backend.VisitorParams) querycache.Query[[]models.VisitorLog] {
	return query(Visitors.List(p), VisitorPolicy, func(ctx context.Context) ([]models.VisitorLog, error) {
		return h.api.ListVisitors(ctx, p)
	})
}

func (h Hooks) VisitorStats() querycache.Query[models.VisitorStats] {
	return query(Visitors.Stats(), VisitorStatsPolicy, h.api.VisitorStats)
}

// ---------- reports ----------

func (h Hooks) Activity(p backend.ActivityParams) querycache.Query[[]models.ActivityEntry] {
	return query(Activity.List(p), ActivityPolicy, func(ctx context.Context) ([]models.ActivityEntry, error) {
		return h.api.ListActivity(ctx, p)
	})
}

func (h Hooks) Performance(p backend.PerformanceParams) querycache.Query[[]models.PerformanceSummary] {
	return query(Performance.Summary(p), PerformancePolicy, func(ctx context.Context) ([]models.PerformanceSummary, error) {
		return h.api.Performance(ctx, p)
	})
}

func (h Hooks) Organization() querycache.Query[models.OrganizationInfo] {
	return query(Organization.Info(), OrganizationPolicy, h.api.OrganizationInfo)
}
