package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/railplan/core/events"
	coremetrics "github.com/kilianp07/railplan/core/metrics"
	coremon "github.com/kilianp07/railplan/core/monitoring"
	"github.com/kilianp07/railplan/infra/logger"
	"github.com/kilianp07/railplan/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// search events. Sink errors are logged to log and do not stop collection.
// It stops when the context is canceled or the bus closes. The returned
// channel is closed once the collector has stopped.
func StartEventCollector(ctx context.Context, bus eventbus.EventBus, sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if log == nil {
		log = logger.NopLogger{}
	}
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		defer coremon.Recover()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := record(sink, ev); err != nil {
					log.Errorf("record %T: %v", ev, err)
				}
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev eventbus.Event) error {
	now := time.Now()
	switch e := ev.(type) {
	case events.AttemptEvent:
		if r, ok := sink.(coremetrics.AttemptRecorder); ok {
			return r.RecordAttempt(coremetrics.AttemptEvent{
				RunID:      e.RunID,
				Seed:       e.Seed,
				Attempt:    e.Attempt,
				Steps:      e.Steps,
				Score:      e.Score,
				Overloaded: e.Overloaded,
				Time:       now,
			})
		}
	case events.ImprovementEvent:
		if r, ok := sink.(coremetrics.ImprovementRecorder); ok {
			return r.RecordImprovement(coremetrics.ImprovementEvent{
				RunID:      e.RunID,
				Seed:       e.Seed,
				Attempt:    e.Attempt,
				TotalDelay: e.TotalDelay,
				Arrived:    e.Arrived,
				Legal:      e.Legal,
				Elapsed:    e.Elapsed,
				Time:       now,
			})
		}
	}
	return nil
}
