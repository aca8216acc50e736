package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidVisitorTransition(t *testing.T) {
	cases := []struct {
		action string
		from   VisitorStatus
		valid  bool
	}{
		{VisitorActionRoute, VisitorCheckedIn, true},
		{VisitorActionRoute, VisitorPendingRouting, true},
		{VisitorActionRoute, VisitorInService, false},
		{VisitorActionTransfer, VisitorRouted, true},
		{VisitorActionTransfer, VisitorInService, true},
		{VisitorActionTransfer, VisitorCheckedIn, false},
		{VisitorActionComplete, VisitorTransferred, true},
		{VisitorActionComplete, VisitorRouted, false},
		{VisitorActionCheckOut, VisitorCompleted, true},
		{VisitorActionCheckOut, VisitorCheckedOut, false},
		{"teleport", VisitorCheckedIn, false},
	}
	for _, tt := range cases {
		if got := ValidVisitorTransition(tt.action, tt.from); got != tt.valid {
			t.Fatalf("ValidVisitorTransition(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestShiftWindowCrossesMidnight(t *testing.T) {
	s := ShiftAssignment{Date: "2026-03-01", StartTime: "22:00", EndTime: "06:00"}
	start, end, err := s.Window(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 22, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC), end)

	day := ShiftAssignment{Date: "2026-03-01", StartTime: "08:00", EndTime: "16:30"}
	_, end, err = day.Window(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 16, end.Hour())

	_, _, err = ShiftAssignment{Date: "01/03/2026", StartTime: "08:00", EndTime: "09:00"}.Window(time.UTC)
	assert.Error(t, err)
}

func TestEnumValidity(t *testing.T) {
	assert.Len(t, VisitorStatuses(), 7)
	assert.True(t, VisitorRouted.Valid())
	assert.False(t, VisitorStatus("lost").Valid())
	assert.True(t, SeverityCritical.Valid())
	assert.Greater(t, SeverityCritical.Rank(), SeverityHigh.Rank())
	assert.False(t, StaffStatus("fired").Valid())
	assert.True(t, ShiftCancelled.Valid())
	assert.Equal(t, "Ann Lee", Staff{FirstName: "Ann", LastName: "Lee"}.FullName())
}
