package filters

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardhouse/internal/models"
	"guardhouse/internal/roles"
)

func TestVisitorStatusFilterReturnsExactSubset(t *testing.T) {
	var list []models.VisitorLog
	for i, s := range models.VisitorStatuses() {
		list = append(list, models.VisitorLog{ID: string(rune('a' + i)), Status: s})
	}
	list = append(list, models.VisitorLog{ID: "z", Status: models.VisitorRouted})
	require.Len(t, list, 8)

	got := Visitors{Status: models.VisitorRouted}.Apply(list)
	require.Len(t, got, 2)
	for _, v := range got {
		assert.Equal(t, models.VisitorRouted, v.Status)
	}
	assert.Len(t, Visitors{}.Apply(list), 8)
}

func TestIncidentFiltersIntersect(t *testing.T) {
	t0 := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	list := []models.Incident{
		{ID: "1", Severity: models.SeverityHigh, Status: models.IncidentOpen, ReportedAt: t0},
		{ID: "2", Severity: models.SeverityHigh, Status: models.IncidentResolved, ReportedAt: t0},
		{ID: "3", Severity: models.SeverityLow, Status: models.IncidentOpen, ReportedAt: t0},
		{ID: "4", Severity: models.SeverityHigh, Status: models.IncidentOpen, ReportedAt: t0.Add(time.Hour), Location: "Gate B"},
		{ID: "5", Severity: models.SeverityCritical, Status: models.IncidentOpen, ReportedAt: t0},
	}

	got := Incidents{Severity: models.SeverityHigh, Status: models.IncidentOpen}.Apply(list)
	ids := make([]string, 0, len(got))
	for _, i := range got {
		ids = append(ids, i.ID)
	}
	// свежий первым
	assert.Equal(t, []string{"4", "1"}, ids)

	got = Incidents{Severity: models.SeverityHigh, Status: models.IncidentOpen, Search: "gate b"}.Apply(list)
	require.Len(t, got, 1)
	assert.Equal(t, "4", got[0].ID)

	assert.Empty(t, Incidents{Severity: models.SeverityLow, Status: models.IncidentResolved}.Apply(list))

	all := Incidents{}.Apply(list)
	assert.Equal(t, "5", all[0].ID)
}

func TestStaffFilter(t *testing.T) {
	list := []models.Staff{
		{ID: "1", FirstName: "Anna", LastName: "Petrova", Email: "anna@x.io", Role: roles.TeamLead, Status: models.StaffActive},
		{ID: "2", FirstName: "Boris", Email: "b@x.io", BadgeNumber: "B-042", Role: roles.SecurityGuard, Status: models.StaffActive},
		{ID: "3", FirstName: "Vera", Email: "vera@x.io", Role: roles.SecurityGuard, Status: models.StaffSuspended},
	}
	assert.Len(t, Staff{Search: "PETROVA"}.Apply(list), 1)
	assert.Len(t, Staff{Search: "b-04"}.Apply(list), 1)
	assert.Len(t, Staff{Role: roles.SecurityGuard}.Apply(list), 2)
	assert.Len(t, Staff{Role: roles.SecurityGuard, Status: models.StaffActive}.Apply(list), 1)

	f, err := StaffFromQuery(url.Values{"role": {"guard"}, "status": {"suspended"}})
	require.NoError(t, err)
	got := f.Apply(list)
	require.Len(t, got, 1)
	assert.Equal(t, "3", got[0].ID)

	_, err = StaffFromQuery(url.Values{"role": {"janitor"}})
	assert.ErrorIs(t, err, ErrUnknownRole)

	f, err = StaffFromQuery(url.Values{"role": {""}})
	require.NoError(t, err)
	assert.Len(t, f.Apply(list), 3)
}

func TestShiftFilter(t *testing.T) {
	list := []models.ShiftAssignment{
		{ID: "1", Date: "2026-10-15", Status: models.ShiftScheduled, GateID: "n"},
		{ID: "2", Date: "2026-10-15", Status: models.ShiftActive, GateID: "s"},
		{ID: "3", Date: "2026-10-16", Status: models.ShiftScheduled, GateID: "n"},
	}
	got := ShiftsFromQuery(url.Values{"date": {"2026-10-15"}, "gate_id": {"n"}}).Apply(list)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
	assert.Len(t, Shifts{Status: models.ShiftScheduled}.Apply(list), 2)
}
