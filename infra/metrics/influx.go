package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/railplan/core/metrics"
	"github.com/kilianp07/railplan/infra/logger"
)

// InfluxSink writes search events to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordSearchResult writes the summary of a finished run.
func (s *InfluxSink) RecordSearchResult(res coremetrics.SearchResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("search_result").
		AddTag("run_id", res.RunID).
		AddTag("network", res.Network).
		AddTag("legal", strconv.FormatBool(res.Legal)).
		AddField("seed", res.Seed).
		AddField("total_delay", res.TotalDelay).
		AddField("arrived", res.Arrived).
		AddField("passengers", res.Passengers).
		AddField("attempts", res.Attempts).
		AddField("checked_moves", res.CheckedMoves).
		AddField("elapsed_s", round3(res.Elapsed.Seconds())).
		SetTime(res.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordAttempt writes one build attempt.
func (s *InfluxSink) RecordAttempt(ev coremetrics.AttemptEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("search_attempt").
		AddTag("run_id", ev.RunID).
		AddTag("overloaded", strconv.FormatBool(ev.Overloaded)).
		AddField("attempt", ev.Attempt).
		AddField("steps", ev.Steps)
	if !ev.Overloaded {
		p = p.AddField("score", ev.Score)
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordImprovement writes an improvement of the best schedule.
func (s *InfluxSink) RecordImprovement(ev coremetrics.ImprovementEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("search_improvement").
		AddTag("run_id", ev.RunID).
		AddTag("legal", strconv.FormatBool(ev.Legal)).
		AddField("attempt", ev.Attempt).
		AddField("total_delay", ev.TotalDelay).
		AddField("arrived", ev.Arrived).
		AddField("elapsed_s", round3(ev.Elapsed.Seconds())).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordProgress writes the delay trace of a run, one point per built step
// stamped at start plus the step's elapsed time.
func (s *InfluxSink) RecordProgress(runID string, start time.Time, points []coremetrics.ProgressPoint) error {
	if len(points) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	batch := make([]*write.Point, 0, len(points))
	for _, pt := range points {
		batch = append(batch, write.NewPointWithMeasurement("search_progress").
			AddTag("run_id", runID).
			AddField("step", pt.Step).
			AddField("attempt", pt.Attempt).
			AddField("best_delay", pt.BestDelay).
			SetTime(start.Add(pt.Elapsed)))
	}
	return s.writeAPI.WritePoint(ctx, batch...)
}

// Close releases the client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
