package querycache

import "github.com/prometheus/client_golang/prometheus"

// Metrics: счётчики кэша по ресурсу (первая часть ключа). nil допустим.
type Metrics struct {
	hits        *prometheus.CounterVec
	misses      *prometheus.CounterVec
	fetches     *prometheus.CounterVec
	fetchErrors *prometheus.CounterVec
	invalidated *prometheus.CounterVec
	discarded   *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	vec := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "guardhouse",
			Subsystem: "querycache",
			Name:      name,
			Help:      help,
		}, []string{"resource"})
	}
	m := &Metrics{
		hits:        vec("hits_total", "Reads served from cached data."),
		misses:      vec("misses_total", "Reads that had to wait for a fetch."),
		fetches:     vec("fetches_total", "Backend fetches started by the cache."),
		fetchErrors: vec("fetch_errors_total", "Backend fetches that failed."),
		invalidated: vec("invalidated_total", "Entries marked stale by invalidation."),
		discarded:   vec("discarded_total", "Fetch results dropped because the entry was removed or superseded."),
	}
	if reg != nil {
		reg.MustRegister(m.hits, m.misses, m.fetches, m.fetchErrors, m.invalidated, m.discarded)
	}
	return m
}

func (m *Metrics) inc(v *prometheus.CounterVec, resource string) {
	if m == nil || v == nil {
		return
	}
	v.WithLabelValues(resource).Inc()
}

func (m *Metrics) hit(r string) {
	if m != nil {
		m.inc(m.hits, r)
	}
}

func (m *Metrics) miss(r string) {
	if m != nil {
		m.inc(m.misses, r)
	}
}

func (m *Metrics) fetch(r string) {
	if m != nil {
		m.inc(m.fetches, r)
	}
}

func (m *Metrics) fetchError(r string) {
	if m != nil {
		m.inc(m.fetchErrors, r)
	}
}

func (m *Metrics) invalidate(r string) {
	if m != nil {
		m.inc(m.invalidated, r)
	}
}

func (m *Metrics) discard(r string) {
	if m != nil {
		m.inc(m.discarded, r)
	}
}
