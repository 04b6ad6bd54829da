package metrics

import (
	"errors"
	"time"
)

// MultiSink forwards every record to several sinks. Optional recorders are
// only called on sinks that implement them.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

func (m *MultiSink) RecordSearchResult(res SearchResult) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordSearchResult(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordAttempt(ev AttemptEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(AttemptRecorder); ok {
			if err := r.RecordAttempt(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordImprovement(ev ImprovementEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(ImprovementRecorder); ok {
			if err := r.RecordImprovement(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m *MultiSink) RecordProgress(runID string, start time.Time, points []ProgressPoint) error {
	var errs []error
	for _, s := range m.Sinks {
		if r, ok := s.(ProgressRecorder); ok {
			if err := r.RecordProgress(runID, start, points); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
