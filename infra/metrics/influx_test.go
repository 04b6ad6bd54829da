package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/railplan/core/metrics"
)

type influxRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *influxRecorder) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, string(data))
		r.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (r *influxRecorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.bodies) == 0 {
		return ""
	}
	return strings.TrimSpace(r.bodies[len(r.bodies)-1])
}

func TestInfluxSink_RecordSearchResult(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Now()
	res := coremetrics.SearchResult{
		RunID: "run1", Network: "ring", Seed: 4, TotalDelay: 7, Arrived: 3, Passengers: 4,
		Attempts: 12, CheckedMoves: 900, Elapsed: 1234567 * time.Microsecond, Time: now,
	}
	require.NoError(t, sink.RecordSearchResult(res))

	p := write.NewPointWithMeasurement("search_result").
		AddTag("run_id", "run1").
		AddTag("network", "ring").
		AddTag("legal", "false").
		AddField("seed", int64(4)).
		AddField("total_delay", 7).
		AddField("arrived", 3).
		AddField("passengers", 4).
		AddField("attempts", 12).
		AddField("checked_moves", 900).
		AddField("elapsed_s", 1.235).
		SetTime(now)
	assert.Equal(t, strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond)), rec.last())
}

func TestInfluxSink_RecordAttemptOmitsOverloadedScore(t *testing.T) {
	rec := &influxRecorder{}
	sink := NewInfluxSink(rec.server(t).URL, "token", "org", "bucket")
	defer sink.Close()

	require.NoError(t, sink.RecordAttempt(coremetrics.AttemptEvent{RunID: "r", Attempt: 2, Steps: 5, Score: 1 << 40, Overloaded: true, Time: time.Now()}))
	assert.Contains(t, rec.last(), "overloaded=true")
	assert.NotContains(t, rec.last(), "score=")

	require.NoError(t, sink.RecordAttempt(coremetrics.AttemptEvent{RunID: "r", Attempt: 3, Steps: 5, Score: 8, Time: time.Now()}))
	assert.Contains(t, rec.last(), "score=8i")
}

func TestInfluxSink_RecordProgress(t *testing.T) {
	rec := &influxRecorder{}
	sink := NewInfluxSink(rec.server(t).URL, "token", "org", "bucket")
	defer sink.Close()

	start := time.Unix(1700000000, 0)
	points := []coremetrics.ProgressPoint{
		{Step: 1, Attempt: 1, BestDelay: 20, Elapsed: time.Millisecond},
		{Step: 2, Attempt: 1, BestDelay: 4, Elapsed: 2 * time.Millisecond},
	}
	require.NoError(t, sink.RecordProgress("r", start, points))
	lines := strings.Split(rec.last(), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "best_delay=4i")
	assert.True(t, strings.HasSuffix(lines[1], "1700000000002000000"))

	require.NoError(t, sink.RecordProgress("r", start, nil))
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	assert.IsType(t, coremetrics.NopSink{}, sink)
	assert.True(t, called, "health endpoint not called")
}
