// Package metrics exposes pipeline counters and timings to Prometheus.
//
// A nil *Collector is valid and records nothing, so components take one
// optionally.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "taxmap"

type Collector struct {
	stage  *prometheus.HistogramVec
	oracle *prometheus.CounterVec
	cache  *prometheus.CounterVec
	links  *prometheus.CounterVec
}

func New() *Collector {
	return &Collector{
		stage: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of matching pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"stage"}),
		oracle: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_queries_total",
			Help:      "Lexical oracle queries by kind.",
		}, []string{"kind"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sense_cache_total",
			Help:      "Sense comparator cache lookups by result.",
		}, []string{"result"}),
		links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Relations stored by the structure comparator.",
		}, []string{"relation"}),
	}
}

// Register adds the collectors to reg. When reg already holds taxmap
// collectors, c switches to those.
func (c *Collector) Register(reg prometheus.Registerer) error {
	var err error
	if c.stage, err = register(reg, c.stage); err != nil {
		return err
	}
	if c.oracle, err = register(reg, c.oracle); err != nil {
		return err
	}
	if c.cache, err = register(reg, c.cache); err != nil {
		return err
	}
	if c.links, err = register(reg, c.links); err != nil {
		return err
	}
	return nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, m C) (C, error) {
	err := reg.Register(m)
	if err == nil {
		return m, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return m, err
}

// Stage starts timing stage; call the returned func when it ends.
func (c *Collector) Stage(stage string) func() {
	if c == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		c.stage.WithLabelValues(stage).Observe(time.Since(start).Seconds())
	}
}

func (c *Collector) OracleQuery(kind string) {
	if c == nil {
		return
	}
	c.oracle.WithLabelValues(kind).Inc()
}

func (c *Collector) CacheHit() {
	if c == nil {
		return
	}
	c.cache.WithLabelValues("hit").Inc()
}

func (c *Collector) CacheMiss() {
	if c == nil {
		return
	}
	c.cache.WithLabelValues("miss").Inc()
}

// Links adds n stored links of relation name.
func (c *Collector) Links(relation string, n int) {
	if c == nil || n == 0 {
		return
	}
	c.links.WithLabelValues(relation).Add(float64(n))
}

// WriteFile writes the metrics gathered by g to path in the text exposition
// format.
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
