package queries

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardhouse/internal/backend"
	"guardhouse/internal/models"
	"guardhouse/internal/querycache"
)

func TestEqualFiltersGiveEqualKeys(t *testing.T) {
	a := Shifts.List(backend.ShiftParams{Date: "2026-10-15", GateID: "north"})
	b := Shifts.List(backend.ShiftParams{GateID: "north", Date: "2026-10-15"})
	c := Shifts.List(backend.ShiftParams{Date: "2026-10-15", GateID: "south"})
	d := Shifts.List(backend.ShiftParams{Date: "2026-10-15"})

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(d))

	// пустой фильтр: тоже отдельный вариант, но под тем же префиксом
	assert.True(t, d.HasPrefix(Shifts.Lists()))
}

func TestKeyHierarchy(t *testing.T) {
	internal := Staff.InternalList(backend.StaffParams{GateID: "g1"})
	external := Staff.ExternalList(backend.StaffParams{})
	detail := Staff.Detail("s1")

	for _, k := range []querycache.Key{internal, external, detail} {
		assert.True(t, k.HasPrefix(Staff.All()), k.Debug())
	}
	assert.True(t, internal.HasPrefix(Staff.Lists()))
	assert.True(t, internal.HasPrefix(Staff.InternalLists()))
	assert.False(t, internal.HasPrefix(Staff.ExternalLists()))
	assert.False(t, detail.HasPrefix(Staff.Lists()))

	// неизвестный тип сотрудника покрывает оба списка
	assert.True(t, Staff.TypeLists("").Equal(Staff.Lists()))

	assert.True(t, Incidents.Stats().HasPrefix(Incidents.All()))
	assert.False(t, Incidents.Stats().HasPrefix(Incidents.Lists()))
	assert.True(t, Visitors.Stats().HasPrefix(Visitors.All()))
	assert.False(t, Shifts.All().HasPrefix(Staff.All()))
}

func TestResourcesAreDistinctRoots(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Resources() {
		assert.Equal(t, 1, k.Len())
		assert.False(t, seen[k.String()], k.Debug())
		seen[k.String()] = true
	}
}

func TestPolicies(t *testing.T) {
	assert.Equal(t, 20.0, IncidentPolicy.RefetchInterval.Seconds())
	assert.Equal(t, 5.0, VisitorStatsPolicy.RefetchInterval.Seconds())
	assert.Less(t, ShiftPolicy.StaleTime, RolePolicy.StaleTime)
	for _, p := range []querycache.Policy{StaffPolicy, ShiftPolicy, RolePolicy, CompanyPolicy,
		ActivityPolicy, PerformancePolicy, IncidentPolicy, VisitorPolicy, VisitorStatsPolicy, OrganizationPolicy} {
		assert.True(t, p.RefetchOnFocus)
		assert.GreaterOrEqual(t, p.StaleTime.Minutes(), 1.0)
		assert.LessOrEqual(t, p.StaleTime.Minutes(), 15.0)
	}
}

func TestHookServesFromCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/security/incidents", r.URL.Path)
		assert.Equal(t, "g1", r.URL.Query().Get("gate_id"))
		_, _ = io.WriteString(w, `{"status":"success","data":[{"id":"i1","severity":"high","status":"open"}]}`)
	}))
	t.Cleanup(srv.Close)

	api, err := backend.New(backend.Options{BaseURL: srv.URL})
	require.NoError(t, err)
	cache, err := querycache.New(querycache.Options{})
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	h := NewHooks(api)
	ctx := context.Background()
	res := h.Incidents(backend.IncidentParams{GateID: "g1"}).Fetch(ctx, cache)
	require.NoError(t, res.Error)
	require.Len(t, res.Data, 1)
	assert.Equal(t, models.SeverityHigh, res.Data[0].Severity)

	again := h.Incidents(backend.IncidentParams{GateID: "g1"}).Fetch(ctx, cache)
	require.NoError(t, again.Error)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	assert.Equal(t, 1, cache.Invalidate(Incidents.All()))
	_ = h.Incidents(backend.IncidentParams{GateID: "g1"}).Fetch(ctx, cache)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}
