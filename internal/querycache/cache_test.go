package querycache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestCache(t *testing.T, clk *clock) *Cache {
	t.Helper()
	opts := Options{Capacity: 64, Metrics: NewMetrics(prometheus.NewRegistry())}
	if clk != nil {
		opts.Now = clk.Now
	}
	c, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

type shiftFilter struct {
	Status string `json:"status,omitempty"`
	Gate   string `json:"gate,omitempty"`
}

func counting(n *int32, v func(int32) any) Fetcher {
	return func(context.Context) (any, error) {
		return v(atomic.AddInt32(n, 1)), nil
	}
}

var minute = Policy{StaleTime: time.Minute, RefetchOnFocus: true}

func TestKeyStructuralEquality(t *testing.T) {
	a := NewKey("shifts", "list", shiftFilter{Status: "active", Gate: "north"})
	b := NewKey("shifts", "list", &shiftFilter{Status: "active", Gate: "north"})
	c := NewKey("shifts", "list", shiftFilter{Status: "active"})
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
	assert.False(t, a.Equal(c))

	m1 := NewKey("staff", map[string]any{"b": 1, "a": "x"})
	m2 := NewKey("staff", map[string]any{"a": "x", "b": 1})
	assert.True(t, m1.Equal(m2))

	assert.True(t, a.HasPrefix(NewKey("shifts")))
	assert.True(t, a.HasPrefix(NewKey("shifts", "list")))
	assert.False(t, a.HasPrefix(NewKey("shifts", "detail")))
	assert.False(t, NewKey("shifts").HasPrefix(a))
	assert.Equal(t, "shifts", a.Resource())
}

func TestFetchServesCachedData(t *testing.T) {
	c := newTestCache(t, &clock{t: time.Unix(1000, 0)})
	var calls int32
	key := NewKey("roles", "list")
	f := counting(&calls, func(n int32) any { return n })

	r1 := c.Fetch(context.Background(), key, minute, f)
	r2 := c.Fetch(context.Background(), key, minute, f)
	require.NoError(t, r1.Err)
	assert.Equal(t, int32(1), r1.Data)
	assert.Equal(t, int32(1), r2.Data)
	assert.False(t, r2.IsStale)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestStaleDataIsServedWhileRefetching(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	c := newTestCache(t, clk)
	var calls int32
	key := NewKey("staff", "internal", "list")
	f := counting(&calls, func(n int32) any { return n })

	c.Fetch(context.Background(), key, minute, f)
	clk.Advance(2 * time.Minute)

	r := c.Fetch(context.Background(), key, minute, f)
	assert.Equal(t, int32(1), r.Data)
	assert.True(t, r.IsStale)

	require.Eventually(t, func() bool {
		p, _ := c.Peek(key)
		return p.Data == int32(2) && !p.IsStale
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidatePrefixHitsEveryFilteredVariant(t *testing.T) {
	c := newTestCache(t, &clock{t: time.Unix(1000, 0)})
	var shiftCalls, roleCalls int32
	sf := counting(&shiftCalls, func(n int32) any { return n })
	rf := counting(&roleCalls, func(n int32) any { return n })

	active := NewKey("shifts", "list", shiftFilter{Status: "active"})
	north := NewKey("shifts", "list", shiftFilter{Gate: "north"})
	roles := NewKey("roles", "list")
	for _, k := range []Key{active, north} {
		c.Fetch(context.Background(), k, minute, sf)
	}
	c.Fetch(context.Background(), roles, minute, rf)

	assert.Equal(t, 2, c.Invalidate(NewKey("shifts")))

	p, _ := c.Peek(active)
	assert.True(t, p.IsStale)
	p, _ = c.Peek(roles)
	assert.False(t, p.IsStale)

	// после инвалидации чтение ждёт новые данные, а не отдаёт старые
	r := c.Fetch(context.Background(), active, minute, sf)
	assert.Equal(t, int32(3), r.Data)
	assert.False(t, r.IsStale)
	assert.Equal(t, int32(1), atomic.LoadInt32(&roleCalls))
}

func TestErrorsSurfaceWithoutAutomaticRetry(t *testing.T) {
	c := newTestCache(t, &clock{t: time.Unix(1000, 0)})
	boom := errors.New("backend down")
	var calls int32
	f := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}
	key := NewKey("incidents", "list")

	r := c.Fetch(context.Background(), key, minute, f)
	assert.ErrorIs(t, r.Err, boom)
	assert.Nil(t, r.Data)
	r = c.Fetch(context.Background(), key, minute, f)
	assert.ErrorIs(t, r.Err, boom)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	// ручной повтор
	_, err := c.Refetch(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))

	_, err = c.Refetch(context.Background(), NewKey("nope"))
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestInvalidationDuringFetchLeavesEntryStale(t *testing.T) {
	c := newTestCache(t, &clock{t: time.Unix(1000, 0)})
	started := make(chan struct{})
	release := make(chan struct{})
	f := func(context.Context) (any, error) {
		close(started)
		<-release
		return "pre-mutation", nil
	}
	key := NewKey("visitors", "list")

	done := make(chan Result)
	go func() { done <- c.Fetch(context.Background(), key, minute, f) }()
	<-started
	c.Invalidate(NewKey("visitors"))
	close(release)
	r := <-done

	assert.Equal(t, "pre-mutation", r.Data)
	assert.True(t, r.IsStale)
}

func TestConcurrentReadsShareOneFetch(t *testing.T) {
	c := newTestCache(t, nil)
	var calls int32
	release := make(chan struct{})
	f := func(context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "ok", nil
	}
	key := NewKey("companies", "list")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := c.Fetch(context.Background(), key, minute, f)
			assert.Equal(t, "ok", r.Data)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRemovedEntryDiscardsLateResult(t *testing.T) {
	c := newTestCache(t, nil)
	release := make(chan struct{})
	key := NewKey("performance")
	r := c.FetchNoWait(key, minute, func(context.Context) (any, error) {
		<-release
		return 42, nil
	})
	assert.True(t, r.IsLoading)

	assert.Equal(t, 1, c.Remove(NewKey("performance")))
	close(release)
	c.Close()

	_, ok := c.Peek(key)
	assert.False(t, ok)
}

func TestPollingStopsWhenNobodyWatches(t *testing.T) {
	c, err := New(Options{GCTime: 60 * time.Millisecond})
	require.NoError(t, err)
	defer c.Close()

	var calls int32
	key := NewKey("visitors", "stats")
	policy := Policy{StaleTime: time.Minute, RefetchInterval: 10 * time.Millisecond}
	c.Fetch(context.Background(), key, policy, counting(&calls, func(n int32) any { return n }))

	require.Eventually(t, func() bool { return atomic.LoadInt32(&calls) >= 3 }, time.Second, 5*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	settled := atomic.LoadInt32(&calls)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, atomic.LoadInt32(&calls))
}

func TestFocusRefetchesOnlyStaleWatchedEntries(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	c := newTestCache(t, clk)
	var calls int32
	f := counting(&calls, func(n int32) any { return n })

	c.Fetch(context.Background(), NewKey("shifts", "today"), Policy{StaleTime: time.Minute, RefetchOnFocus: true}, f)
	c.Fetch(context.Background(), NewKey("roles"), Policy{StaleTime: 15 * time.Minute, RefetchOnFocus: true}, f)
	c.Fetch(context.Background(), NewKey("org"), Policy{StaleTime: time.Minute}, f)
	clk.Advance(2 * time.Minute)

	assert.Equal(t, 1, c.Focus())
}

func TestFocusAfterCloseStartsNothing(t *testing.T) {
	clk := &clock{t: time.Unix(1000, 0)}
	c := newTestCache(t, clk)
	var calls int32
	f := counting(&calls, func(n int32) any { return n })

	c.Fetch(context.Background(), NewKey("shifts", "today"), Policy{StaleTime: time.Minute, RefetchOnFocus: true}, f)
	clk.Advance(2 * time.Minute)
	c.Close()

	assert.Zero(t, c.Focus())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestTypedQuery(t *testing.T) {
	c := newTestCache(t, nil)
	q := Query[[]string]{
		Key:    NewKey("gates"),
		Policy: minute,
		Fn:     func(context.Context) ([]string, error) { return []string{"north", "south"}, nil },
	}
	r := q.Fetch(context.Background(), c)
	require.NoError(t, r.Error)
	assert.Equal(t, []string{"north", "south"}, r.Data)

	// тот же ключ с другим типом: ошибка, а не паника
	wrong := Query[int]{Key: NewKey("gates"), Policy: minute, Fn: func(context.Context) (int, error) { return 1, nil }}
	assert.Error(t, wrong.Fetch(context.Background(), c).Error)
}

func TestClosedCacheRefusesReads(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	c.Close()
	r := c.Fetch(context.Background(), NewKey("x"), minute, func(context.Context) (any, error) { return 1, nil })
	assert.ErrorIs(t, r.Err, ErrClosed)
}
