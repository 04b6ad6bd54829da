package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/railplan/core/search"
)

func TestWriteProgress(t *testing.T) {
	points := []search.ProgressPoint{
		{Step: 1, Attempt: 1, BestDelay: 12},
		{Step: 2, Attempt: 1, BestDelay: 9},
		{Step: 3, Attempt: 2, BestDelay: 4},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteProgress(&buf, "two stations", points))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "two stations")
	assert.Contains(t, out, "best delay")
}

func TestSaveProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.html")
	require.NoError(t, SaveProgress(path, "empty", nil))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.Error(t, SaveProgress(filepath.Join(t.TempDir(), "missing", "p.html"), "x", nil))
}
