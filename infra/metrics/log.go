package metrics

import (
	coremetrics "github.com/kilianp07/railplan/core/metrics"
	"github.com/kilianp07/railplan/infra/logger"
)

// LogSink writes search results and improvements as structured log lines.
type LogSink struct {
	log logger.Logger
}

// NewLogSink returns a sink logging under component.
func NewLogSink(component string) *LogSink {
	return &LogSink{log: logger.New(component)}
}

func (s *LogSink) RecordSearchResult(res coremetrics.SearchResult) error {
	s.log.Infof("run %s on %s: delay=%d arrived=%d/%d legal=%t attempts=%d checked=%d elapsed=%s",
		res.RunID, res.Network, res.TotalDelay, res.Arrived, res.Passengers, res.Legal, res.Attempts, res.CheckedMoves, res.Elapsed)
	return nil
}

func (s *LogSink) RecordImprovement(ev coremetrics.ImprovementEvent) error {
	s.log.Debugw("improvement", map[string]any{
		"run_id":      ev.RunID,
		"attempt":     ev.Attempt,
		"total_delay": ev.TotalDelay,
		"arrived":     ev.Arrived,
		"legal":       ev.Legal,
	})
	return nil
}
