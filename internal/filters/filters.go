// Package filters: фильтрация уже загруженных списков на стороне консоли.
// Пустое значение поля фильтра означает "любое"; условия объединяются по И.
package filters

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"guardhouse/internal/models"
	"guardhouse/internal/roles"
)

func apply[T any](list []T, keep func(T) bool) []T {
	out := make([]T, 0, len(list))
	for _, v := range list {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// contains: регистронезависимый поиск подстроки хотя бы в одном поле.
func contains(q string, fields ...string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return slices.ContainsFunc(fields, func(f string) bool {
		return strings.Contains(strings.ToLower(f), q)
	})
}

// ---------- staff ----------

type Staff struct {
	Search string             `json:"search,omitempty"`
	Status models.StaffStatus `json:"status,omitempty"`
	Role   roles.Role         `json:"role,omitempty"`
	GateID string             `json:"gate_id,omitempty"`
}

// ErrUnknownRole: роль в фильтре вне закрытого набора.
var ErrUnknownRole = errors.New("unknown security role")

// StaffFromQuery разбирает фильтр из строки запроса. Пустая роль означает "любая",
// неизвестная даёт ErrUnknownRole.
func StaffFromQuery(q url.Values) (Staff, error) {
	f := Staff{
		Search: q.Get("search"),
		Status: models.StaffStatus(q.Get("status")),
		GateID: q.Get("gate_id"),
	}
	if raw := strings.TrimSpace(q.Get("role")); raw != "" {
		r, err := roles.Parse(raw)
		if err != nil {
			return f, fmt.Errorf("%w: %q", ErrUnknownRole, raw)
		}
		f.Role = r
	}
	return f, nil
}

func (f Staff) Match(s models.Staff) bool {
	return contains(f.Search, s.FullName(), s.Email, s.BadgeNumber) &&
		(f.Status == "" || s.Status == f.Status) &&
		(f.Role == "" || s.Role == f.Role) &&
		(f.GateID == "" || s.GateID == f.GateID)
}

func (f Staff) Apply(list []models.Staff) []models.Staff { return apply(list, f.Match) }

// ---------- shifts ----------

type Shifts struct {
	Date    string             `json:"date,omitempty"`
	Status  models.ShiftStatus `json:"status,omitempty"`
	GateID  string             `json:"gate_id,omitempty"`
	StaffID string             `json:"staff_id,omitempty"`
	Search  string             `json:"search,omitempty"`
}

func ShiftsFromQuery(q url.Values) Shifts {
	return Shifts{
		Date:    q.Get("date"),
		Status:  models.ShiftStatus(q.Get("status")),
		GateID:  q.Get("gate_id"),
		StaffID: q.Get("staff_id"),
		Search:  q.Get("search"),
	}
}

func (f Shifts) Match(s models.ShiftAssignment) bool {
	return (f.Date == "" || s.Date == f.Date) &&
		(f.Status == "" || s.Status == f.Status) &&
		(f.GateID == "" || s.GateID == f.GateID) &&
		(f.StaffID == "" || s.StaffID == f.StaffID) &&
		contains(f.Search, s.StaffName, s.GateName, s.Notes)
}

func (f Shifts) Apply(list []models.ShiftAssignment) []models.ShiftAssignment {
	return apply(list, f.Match)
}

// ---------- incidents ----------

type Incidents struct {
	Severity models.Severity       `json:"severity,omitempty"`
	Status   models.IncidentStatus `json:"status,omitempty"`
	Search   string                `json:"search,omitempty"`
}

func IncidentsFromQuery(q url.Values) Incidents {
	return Incidents{
		Severity: models.Severity(q.Get("severity")),
		Status:   models.IncidentStatus(q.Get("status")),
		Search:   q.Get("search"),
	}
}

// Match: пересечение условий, не объединение.
func (f Incidents) Match(i models.Incident) bool {
	return (f.Severity == "" || i.Severity == f.Severity) &&
		(f.Status == "" || i.Status == f.Status) &&
		contains(f.Search, i.Title, i.Description, i.Location, i.ReportedByName)
}

// Apply фильтрует и сортирует: сначала более серьёзные, затем более свежие.
func (f Incidents) Apply(list []models.Incident) []models.Incident {
	out := apply(list, f.Match)
	slices.SortStableFunc(out, func(a, b models.Incident) int {
		if d := b.Severity.Rank() - a.Severity.Rank(); d != 0 {
			return d
		}
		return b.ReportedAt.Compare(a.ReportedAt)
	})
	return out
}

// ---------- visitors ----------

type Visitors struct {
	Status models.VisitorStatus `json:"status,omitempty"`
	Search string               `json:"search,omitempty"`
}

func VisitorsFromQuery(q url.Values) Visitors {
	return Visitors{Status: models.VisitorStatus(q.Get("status")), Search: q.Get("search")}
}

func (f Visitors) Match(v models.VisitorLog) bool {
	return (f.Status == "" || v.Status == f.Status) &&
		contains(f.Search, v.FullName, v.Phone, v.BadgeNumber, v.DestinationDepartment, v.DestinationStaffName)
}

func (f Visitors) Apply(list []models.VisitorLog) []models.VisitorLog { return apply(list, f.Match) }
