package runlog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(base time.Time) []Record {
	return []Record{
		{RunID: "a", Timestamp: base, Network: "ring", TotalDelay: 3, Legal: true},
		{RunID: "b", Timestamp: base.Add(time.Minute), Network: "chain", TotalDelay: 9},
		{RunID: "c", Timestamp: base.Add(2 * time.Minute), Network: "ring", TotalDelay: 0, Legal: true},
	}
}

func exercise(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for _, r := range records(base) {
		require.NoError(t, store.Append(ctx, r))
	}

	all, err := store.Query(ctx, Query{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].RunID)
	assert.True(t, all[0].Timestamp.Equal(base))

	ring, err := store.Query(ctx, Query{Network: "ring"})
	require.NoError(t, err)
	assert.Len(t, ring, 2)

	legal, err := store.Query(ctx, Query{LegalOnly: true, Start: base.Add(30 * time.Second)})
	require.NoError(t, err)
	require.Len(t, legal, 1)
	assert.Equal(t, "c", legal[0].RunID)

	early, err := store.Query(ctx, Query{End: base.Add(time.Minute)})
	require.NoError(t, err)
	assert.Len(t, early, 2)
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "history", "runs.jsonl"), 1, 2, 1)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestJSONLStoreSkipsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("not json\n"), 0o644))
	store, err := NewJSONLStore(path, 0, 0, 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Append(context.Background(), Record{RunID: "x", Timestamp: time.Now()}))
	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "x", out[0].RunID)
}

func TestJSONLStoreReadsBackups(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.jsonl")
	backup := filepath.Join(dir, "runs-2026-01-01T00-00-00.000.jsonl")
	require.NoError(t, os.WriteFile(backup, []byte(`{"run_id":"old","timestamp":"2026-01-01T00:00:00Z"}`+"\n"), 0o644))
	store, err := NewJSONLStore(path, 1, 2, 0)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Append(context.Background(), Record{RunID: "new", Timestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}))

	out, err := store.Query(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "old", out[0].RunID)
	assert.Equal(t, "new", out[1].RunID)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore("file:runlog_test.db?mode=memory&cache=shared")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	exercise(t, store)
}

func TestOpen(t *testing.T) {
	s, err := Open(Options{Path: filepath.Join(t.TempDir(), "h.jsonl")})
	require.NoError(t, err)
	assert.IsType(t, &JSONLStore{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Options{Backend: "mongo", Path: "x"})
	assert.Error(t, err)
}
