package mutations

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/queries"
	"guardhouse/internal/querycache"
	"guardhouse/internal/roles"
)

func newBackend(t *testing.T, h http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	api, err := backend.New(backend.Options{
		BaseURL: srv.URL,
		Tokens:  backend.TokenFunc(func() string { return "tok" }),
	})
	require.NoError(t, err)
	return api
}

func okBackend(t *testing.T) *backend.Client {
	return newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":"x"}}`)
	})
}

func newCache(t *testing.T) *querycache.Cache {
	t.Helper()
	c, err := querycache.New(querycache.Options{})
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

// seeded: по одной записи под каждый ключ, который читают view.
var seeded = map[string]querycache.Key{
	"staff.internal":    queries.Staff.InternalList(backend.StaffParams{}),
	"staff.internal.g1": queries.Staff.InternalList(backend.StaffParams{GateID: "g1"}),
	"staff.external":    queries.Staff.ExternalList(backend.StaffParams{}),
	"staff.detail.s1":   queries.Staff.Detail("s1"),
	"staff.detail.s2":   queries.Staff.Detail("s2"),
	"shifts.list":       queries.Shifts.List(backend.ShiftParams{}),
	"shifts.today":      queries.Shifts.Today("2026-10-15"),
	"shifts.detail":     queries.Shifts.Detail("sh1"),
	"roles":             queries.Roles.List(),
	"companies":         queries.Companies.List(),
	"gates":             queries.Gates.List(),
	"activity":          queries.Activity.List(backend.ActivityParams{}),
	"performance":       queries.Performance.Summary(backend.PerformanceParams{Period: "week"}),
	"incidents.list":    queries.Incidents.List(backend.IncidentParams{}),
	"incidents.detail":  queries.Incidents.Detail("i1"),
	"incidents.stats":   queries.Incidents.Stats(),
	"visitors.list":     queries.Visitors.List(backend.VisitorParams{}),
	"visitors.stats":    queries.Visitors.Stats(),
	"organization":      queries.Organization.Info(),
}

func seed(t *testing.T, c *querycache.Cache) {
	t.Helper()
	p := querycache.Policy{StaleTime: time.Hour}
	for name, k := range seeded {
		r := c.Fetch(context.Background(), k, p, func(context.Context) (any, error) { return name, nil })
		require.NoError(t, r.Err)
	}
}

func staleKeys(c *querycache.Cache) []string {
	var out []string
	for name, k := range seeded {
		r, ok := c.Peek(k)
		if ok && r.IsStale {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func TestMutationsMarkAffectedQueriesStale(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		run   func(s *Set) error
		stale []string
	}{
		{"create internal staff", func(s *Set) error {
			_, err := s.CreateInternalStaff.MutateAsync(ctx, backend.CreateStaffInput{FirstName: "A"})
			return err
		}, []string{"activity", "staff.internal", "staff.internal.g1"}},
		{"create external staff", func(s *Set) error {
			_, err := s.CreateExternalStaff.MutateAsync(ctx, backend.CreateStaffInput{FirstName: "A"})
			return err
		}, []string{"activity", "companies", "staff.external"}},
		{"update role", func(s *Set) error {
			_, err := s.UpdateStaffRole.MutateAsync(ctx, StaffRoleChange{StaffID: "s1", Role: roles.TeamLead})
			return err
		}, []string{"activity", "staff.detail.s1", "staff.external", "staff.internal", "staff.internal.g1"}},
		{"update gate of internal", func(s *Set) error {
			_, err := s.UpdateStaffGate.MutateAsync(ctx, StaffGateChange{StaffID: "s1", StaffType: models.StaffInternal, GateID: "g2"})
			return err
		}, []string{"activity", "staff.detail.s1", "staff.internal", "staff.internal.g1"}},
		{"update gate of unknown type", func(s *Set) error {
			_, err := s.UpdateStaffGate.MutateAsync(ctx, StaffGateChange{StaffID: "s1", GateID: "g2"})
			return err
		}, []string{"activity", "staff.detail.s1", "staff.external", "staff.internal", "staff.internal.g1"}},
		{"update status of external", func(s *Set) error {
			_, err := s.UpdateStaffStatus.MutateAsync(ctx, StaffStatusChange{StaffID: "s2", StaffType: models.StaffExternal, Status: models.StaffSuspended})
			return err
		}, []string{"activity", "performance", "staff.detail.s2", "staff.external"}},
		{"remove staff", func(s *Set) error {
			_, err := s.RemoveStaff.MutateAsync(ctx, StaffRef{StaffID: "s1", StaffType: models.StaffInternal})
			return err
		}, []string{"activity", "shifts.detail", "shifts.list", "shifts.today", "staff.detail.s1", "staff.internal", "staff.internal.g1"}},
		{"create company", func(s *Set) error {
			_, err := s.CreateCompany.MutateAsync(ctx, backend.CreateCompanyInput{Name: "Acme"})
			return err
		}, []string{"companies", "staff.external"}},
		{"create shift", func(s *Set) error {
			_, err := s.CreateShift.MutateAsync(ctx, backend.ShiftInput{StaffID: "s1"})
			return err
		}, []string{"activity", "performance", "shifts.detail", "shifts.list", "shifts.today"}},
		{"cancel shift", func(s *Set) error {
			_, err := s.CancelShift.MutateAsync(ctx, ShiftAction{ShiftID: "sh1", Reason: "sick"})
			return err
		}, []string{"activity", "performance", "shifts.detail", "shifts.list", "shifts.today"}},
		{"complete shift", func(s *Set) error {
			_, err := s.CompleteShift.MutateAsync(ctx, ShiftAction{ShiftID: "sh1"})
			return err
		}, []string{"activity", "performance", "shifts.detail", "shifts.list", "shifts.today"}},
		{"update role definition", func(s *Set) error {
			_, err := s.UpdateRole.MutateAsync(ctx, RoleUpdate{RoleID: "r1"})
			return err
		}, []string{"roles"}},
		{"delete role", func(s *Set) error {
			_, err := s.DeleteRole.MutateAsync(ctx, "r1")
			return err
		}, []string{"roles", "staff.external", "staff.internal", "staff.internal.g1"}},
		{"set default role", func(s *Set) error {
			_, err := s.SetDefaultRole.MutateAsync(ctx, "r1")
			return err
		}, []string{"roles"}},
		{"report incident", func(s *Set) error {
			_, err := s.ReportIncident.MutateAsync(ctx, backend.IncidentInput{Title: "door"})
			return err
		}, []string{"activity", "incidents.detail", "incidents.list", "incidents.stats", "performance"}},
		{"resolve incident", func(s *Set) error {
			_, err := s.ResolveIncident.MutateAsync(ctx, IncidentResolution{IncidentID: "i1", Notes: "ok"})
			return err
		}, []string{"activity", "incidents.detail", "incidents.list", "incidents.stats", "performance"}},
		{"route visitor", func(s *Set) error {
			_, err := s.RouteVisitor.MutateAsync(ctx, VisitorMove{VisitorID: "v1"})
			return err
		}, []string{"activity", "visitors.list", "visitors.stats"}},
		{"check out visitor", func(s *Set) error {
			_, err := s.CheckOutVisitor.MutateAsync(ctx, VisitorMove{VisitorID: "v1"})
			return err
		}, []string{"activity", "visitors.list", "visitors.stats"}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			cache := newCache(t)
			seed(t, cache)
			require.Empty(t, staleKeys(cache))

			set := NewSet(okBackend(t), cache, nil)
			require.NoError(t, tt.run(set))
			assert.Equal(t, tt.stale, staleKeys(cache))
		})
	}
}

func TestFailedMutationInvalidatesNothing(t *testing.T) {
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"status":"error","message":"Gate is closed"}`)
	})
	cache := newCache(t)
	seed(t, cache)
	set := NewSet(api, cache, nil)

	_, err := set.UpdateStaffGate.MutateAsync(context.Background(), StaffGateChange{StaffID: "s1", GateID: "g9"})
	var ae *backend.APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Gate is closed", ae.Message)
	assert.Empty(t, staleKeys(cache))

	st := set.UpdateStaffGate.State()
	assert.True(t, st.IsError)
	assert.False(t, st.IsPending)
	assert.Error(t, st.Error)

	set.UpdateStaffGate.Reset()
	assert.False(t, set.UpdateStaffGate.State().IsError)
}

func TestMutateCallbacks(t *testing.T) {
	release := make(chan struct{})
	api := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
		if r.URL.Path == "/security/roles/bad" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"status":"success","data":{"id":"r1","name":"lead"}}`)
	})
	cache := newCache(t)
	set := NewSet(api, cache, nil)
	ctx := context.Background()

	done := make(chan error, 1)
	var got models.SecurityRole
	set.SetDefaultRole.Mutate(ctx, "r1", Callbacks[models.SecurityRole]{
		OnSuccess: func(r models.SecurityRole) { got = r },
		OnSettled: func(_ models.SecurityRole, err error) { done <- err },
	})
	assert.True(t, set.SetDefaultRole.State().IsPending)
	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "r1", got.ID)
	assert.False(t, set.SetDefaultRole.State().IsPending)

	failed := make(chan error, 1)
	set.DeleteRole.Mutate(ctx, "bad", Callbacks[struct{}]{
		OnError: func(err error) { failed <- err },
	})
	err := <-failed
	assert.True(t, errors.Is(err, backend.ErrNotFound))
}

func TestAuditCoversEveryMutation(t *testing.T) {
	entries := Audit()
	names := map[string]bool{}
	for _, e := range entries {
		assert.False(t, names[e.Name], "duplicate %s", e.Name)
		names[e.Name] = true
		assert.NotEmpty(t, e.Invalidates, e.Name)
	}
	// число полей Set и записей аудита совпадает
	assert.Len(t, entries, 23)
}
