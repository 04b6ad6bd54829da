package scenarios

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/railplan/core/metrics"
	"github.com/kilianp07/railplan/core/search"
	"github.com/kilianp07/railplan/infra/logger"
	"github.com/kilianp07/railplan/infra/metrics"
	"github.com/kilianp07/railplan/internal/eventbus"
)

func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	net, err := sc.Build()
	if err != nil {
		t.Fatalf("network: %v", err)
	}

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	bus := eventbus.New(eventbus.WithBuffer(1 << 14))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := metrics.StartEventCollector(ctx, bus, sink, logger.NopLogger{})

	budget := time.Duration(sc.Search.BudgetMS) * time.Millisecond
	if budget <= 0 {
		budget = time.Second
	}
	opts := search.Options{Budget: budget, TabuSize: 100_000, Seed: sc.Search.Seed, MaxCandidates: search.DefaultMaxCandidates}
	res := search.Portfolio(ctx, net, opts, sc.Search.Workers, search.WithBus(bus), search.WithLogger(logger.NopLogger{}))
	bus.Close()
	<-done
	if err := sink.RecordSearchResult(coremetrics.SearchResult{RunID: res.RunID, Legal: res.Legal, TotalDelay: res.TotalDelay}); err != nil {
		t.Fatalf("record: %v", err)
	}

	exp := sc.Expected
	if exp.Legal != nil && res.Legal != *exp.Legal {
		t.Errorf("scenario %s expected legal=%t, got %t", sc.Name, *exp.Legal, res.Legal)
	}
	if exp.MaxDelay != nil && res.TotalDelay > *exp.MaxDelay {
		t.Errorf("scenario %s expected delay <= %d, got %d", sc.Name, *exp.MaxDelay, res.TotalDelay)
	}
	if exp.Arrived != nil && res.Arrived != *exp.Arrived {
		t.Errorf("scenario %s expected %d arrived, got %d", sc.Name, *exp.Arrived, res.Arrived)
	}
	if exp.MaxAttempts > 0 && res.Attempts > exp.MaxAttempts {
		t.Errorf("scenario %s expected at most %d attempts, got %d", sc.Name, exp.MaxAttempts, res.Attempts)
	}
	if err := res.Solution.Final().Check(); err != nil {
		t.Errorf("scenario %s final state: %v", sc.Name, err)
	}
	// Every worker publishes attempts; only single runs can be compared.
	if sc.Search.Workers <= 1 && bus.Dropped() == 0 {
		if got := counterSum(t, reg, "railplan_attempts_total"); got != float64(res.Attempts) {
			t.Errorf("scenario %s recorded %v attempts, search made %d", sc.Name, got, res.Attempts)
		}
	}
	if got := counterSum(t, reg, "railplan_searches_total"); got != 1 {
		t.Errorf("scenario %s recorded %v searches", sc.Name, got)
	}
}

func counterSum(t *testing.T, g prometheus.Gatherer, name string) float64 {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	sum := 0.0
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
	}
	return sum
}
