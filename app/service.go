// Package app wires configuration, parsing, search and the outer
// integrations into one solve operation.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kilianp07/railplan/config"
	coremetrics "github.com/kilianp07/railplan/core/metrics"
	coremon "github.com/kilianp07/railplan/core/monitoring"
	coremqtt "github.com/kilianp07/railplan/core/mqtt"
	"github.com/kilianp07/railplan/core/network"
	"github.com/kilianp07/railplan/core/parser"
	"github.com/kilianp07/railplan/core/runlog"
	"github.com/kilianp07/railplan/core/search"
	"github.com/kilianp07/railplan/core/timetable"
	"github.com/kilianp07/railplan/infra/logger"
	"github.com/kilianp07/railplan/infra/metrics"
	"github.com/kilianp07/railplan/infra/monitoring"
	"github.com/kilianp07/railplan/infra/mqtt"
	"github.com/kilianp07/railplan/internal/eventbus"
	"github.com/kilianp07/railplan/pkg/export"
	"github.com/kilianp07/railplan/pkg/plot"
)

// eventBuffer keeps the collector from missing attempt events on fast searches.
const eventBuffer = 4096

// Outcome is everything a solve produced.
type Outcome struct {
	Name      string
	Network   *network.Network
	Result    search.Result
	Timetable timetable.Timetable
	Summary   timetable.Summary
}

// Service runs solves and forwards their results to the configured sinks,
// history store and broker.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sink      coremetrics.MetricsSink
	history   runlog.Store
	publisher coremqtt.Publisher
	closers   []func() error
}

// Option customizes a Service.
type Option func(*Service)

// WithSink replaces the sinks built from the metrics configuration.
func WithSink(s coremetrics.MetricsSink) Option {
	return func(svc *Service) { svc.sink = s }
}

// WithHistory replaces the history store built from the configuration.
func WithHistory(s runlog.Store) Option {
	return func(svc *Service) { svc.history = s }
}

// WithPublisher replaces the MQTT publisher built from the configuration.
func WithPublisher(p coremqtt.Publisher) Option {
	return func(svc *Service) { svc.publisher = p }
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(svc *Service) {
		if l != nil {
			svc.log = l
		}
	}
}

// New creates a Service from the configuration. Integrations not replaced
// by an option are built from their configuration sections.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	svc := &Service{cfg: cfg, log: logger.New("service")}
	for _, o := range opts {
		o(svc)
	}

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sinks: %w", err)
		}
		svc.sink = sink
	}
	if c, ok := svc.sink.(interface{ Close() }); ok {
		svc.closers = append(svc.closers, func() error { c.Close(); return nil })
	}

	if svc.history == nil && cfg.History.Enabled {
		store, err := runlog.Open(cfg.History.Options())
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("history: %w", err)
		}
		svc.history = store
	}
	if svc.history != nil {
		svc.closers = append(svc.closers, svc.history.Close)
	}

	if svc.publisher == nil && cfg.MQTT.Broker != "" {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.publisher = client
		svc.closers = append(svc.closers, func() error { client.Disconnect(); return nil })
	}
	return svc, nil
}

// SolveFile loads the network at path and solves it.
func (s *Service) SolveFile(ctx context.Context, path string) (*Outcome, error) {
	net, err := parser.LoadFile(path, s.cfg.Search.NetworkOptions())
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx, filepath.Base(path), net)
}

// SolveReader parses a network in the given format and solves it.
func (s *Service) SolveReader(ctx context.Context, name string, r io.Reader, format string) (*Outcome, error) {
	net, err := parser.Read(r, format, s.cfg.Search.NetworkOptions())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return s.Solve(ctx, name, net)
}

// Solve searches a schedule for net and reports it. Failures of the
// reporting side channels are logged; only export errors are returned.
func (s *Service) Solve(ctx context.Context, name string, net *network.Network) (*Outcome, error) {
	sc := s.cfg.Search
	opts := sc.Options()
	if s.cfg.Export.Plot != "" {
		opts.TrackProgress = true
	}

	bus := eventbus.New(eventbus.WithBuffer(eventBuffer))
	collectCtx, stopCollect := context.WithCancel(context.Background())
	defer stopCollect()
	collected := metrics.StartEventCollector(collectCtx, bus, s.sink, s.log)

	if port := s.cfg.Metrics.PromPort; port > 0 {
		promCtx, stopProm := context.WithCancel(ctx)
		defer stopProm()
		go func() {
			if err := metrics.StartPromServer(promCtx, ":"+strconv.Itoa(port), nil); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	start := time.Now()
	var res search.Result
	err := coremon.Protect(map[string]string{"module": "search", "network": name}, func() error {
		res = search.Portfolio(ctx, net, opts, sc.Workers,
			search.WithLogger(logger.New("search")),
			search.WithBus(bus),
			search.WithEngine(sc.Engine()),
		)
		return nil
	})
	bus.Close()
	<-collected
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", name, err)
	}
	if n := bus.Dropped(); n > 0 {
		s.log.Warnf("%d search events dropped", n)
	}

	out := &Outcome{
		Name:      name,
		Network:   net,
		Result:    res,
		Timetable: timetable.Build(net, res.Solution),
		Summary:   timetable.Summarize(net, res),
	}
	s.record(ctx, out, start)
	s.publish(out)
	return out, s.export(out)
}

func (s *Service) record(ctx context.Context, out *Outcome, start time.Time) {
	res := out.Result
	if pr, ok := s.sink.(coremetrics.ProgressRecorder); ok && len(res.Progress) > 0 {
		points := make([]coremetrics.ProgressPoint, len(res.Progress))
		for i, p := range res.Progress {
			points[i] = coremetrics.ProgressPoint{Step: p.Step, Attempt: p.Attempt, BestDelay: p.BestDelay, Elapsed: p.Elapsed}
		}
		if err := pr.RecordProgress(res.RunID, start, points); err != nil {
			s.log.Errorf("record progress: %v", err)
		}
	}
	err := s.sink.RecordSearchResult(coremetrics.SearchResult{
		RunID:        res.RunID,
		Network:      out.Name,
		Seed:         res.Seed,
		TotalDelay:   res.TotalDelay,
		Arrived:      res.Arrived,
		Passengers:   len(out.Network.Passengers),
		Legal:        res.Legal,
		Attempts:     res.Attempts,
		CheckedMoves: res.CheckedMoves,
		Elapsed:      res.Elapsed,
		Time:         time.Now(),
	})
	if err != nil {
		s.log.Errorf("record search result: %v", err)
	}

	if s.history == nil {
		return
	}
	err = s.history.Append(ctx, runlog.Record{
		RunID:        res.RunID,
		Timestamp:    start.UTC(),
		Network:      out.Name,
		Seed:         res.Seed,
		Workers:      s.cfg.Search.Workers,
		BudgetMS:     int64(s.cfg.Search.BudgetMS),
		TotalDelay:   res.TotalDelay,
		Arrived:      res.Arrived,
		Passengers:   len(out.Network.Passengers),
		Legal:        res.Legal,
		Attempts:     res.Attempts,
		CheckedMoves: res.CheckedMoves,
		ElapsedMS:    res.Elapsed.Milliseconds(),
	})
	if err != nil {
		s.log.Errorf("append history: %v", err)
		coremon.CaptureException(err, map[string]string{"module": "history"})
	}
}

func (s *Service) publish(out *Outcome) {
	if s.publisher == nil {
		return
	}
	res := out.Result
	id, err := s.publisher.Publish(coremqtt.Report{
		RunID:      res.RunID,
		Network:    out.Name,
		Seed:       res.Seed,
		TotalDelay: res.TotalDelay,
		Arrived:    res.Arrived,
		Passengers: len(out.Network.Passengers),
		Legal:      res.Legal,
		ElapsedMS:  res.Elapsed.Milliseconds(),
		Timetable:  out.Timetable,
	})
	if err != nil {
		s.log.Errorf("publish schedule: %v", err)
		return
	}
	if s.cfg.MQTT.AckTopic == "" || s.cfg.MQTT.AckTimeoutMS <= 0 {
		return
	}
	timeout := time.Duration(s.cfg.MQTT.AckTimeoutMS) * time.Millisecond
	if ok, err := s.publisher.WaitForAck(id, timeout); !ok {
		s.log.Warnf("schedule %s not acknowledged: %v", id, err)
	}
}

func (s *Service) export(out *Outcome) error {
	var errs []error
	if ec := s.cfg.Export; ec.Format != "" {
		errs = append(errs, writeFile(ec.Path, func(w io.Writer) error {
			if ec.Format == "csv" {
				return export.WriteCSV(w, out.Timetable)
			}
			return export.WriteJSON(w, out.Timetable)
		}))
	}
	if path := s.cfg.Export.Plot; path != "" {
		if err := plot.SaveProgress(path, out.Name, out.Result.Progress); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("export %s: %w", path, err)
	}
	return f.Close()
}

// History returns the configured history store, or nil.
func (s *Service) History() runlog.Store { return s.history }

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}
