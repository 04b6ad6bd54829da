package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/railplan/core/metrics"
)

// PromSink records search runs in Prometheus metrics.
type PromSink struct {
	searches     *prometheus.CounterVec
	delay        prometheus.Gauge
	duration     prometheus.Histogram
	attempts     *prometheus.CounterVec
	improvements prometheus.Counter
	checked      prometheus.Counter
}

// NewPromSink registers search metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PromPort.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railplan_searches_total",
			Help: "Finished searches by legality of the best schedule",
		}, []string{"legal"}),
		delay: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "railplan_last_total_delay",
			Help: "Total delay of the last finished search",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "railplan_search_duration_seconds",
			Help:    "Wall-clock duration of searches",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "railplan_attempts_total",
			Help: "Build attempts by whether a station overloaded",
		}, []string{"overloaded"}),
		improvements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railplan_improvements_total",
			Help: "Times a search found a better schedule",
		}),
		checked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "railplan_checked_moves_total",
			Help: "Candidate moves evaluated by finished searches",
		}),
	}
	var err error
	if s.searches, err = register(reg, s.searches); err != nil {
		return nil, err
	}
	if s.delay, err = register(reg, s.delay); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.attempts, err = register(reg, s.attempts); err != nil {
		return nil, err
	}
	if s.improvements, err = register(reg, s.improvements); err != nil {
		return nil, err
	}
	if s.checked, err = register(reg, s.checked); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSearchResult updates the run counters.
func (s *PromSink) RecordSearchResult(res coremetrics.SearchResult) error {
	s.searches.WithLabelValues(strconv.FormatBool(res.Legal)).Inc()
	s.delay.Set(float64(res.TotalDelay))
	s.duration.Observe(res.Elapsed.Seconds())
	s.checked.Add(float64(res.CheckedMoves))
	return nil
}

// RecordAttempt counts a build attempt.
func (s *PromSink) RecordAttempt(ev coremetrics.AttemptEvent) error {
	s.attempts.WithLabelValues(strconv.FormatBool(ev.Overloaded)).Inc()
	return nil
}

// RecordImprovement counts an improvement.
func (s *PromSink) RecordImprovement(coremetrics.ImprovementEvent) error {
	s.improvements.Inc()
	return nil
}
