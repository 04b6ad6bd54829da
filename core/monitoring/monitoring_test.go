package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	errs   []error
	tags   []map[string]string
	panics []any
}

func (r *recorder) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recorder) CapturePanic(v any)  { r.panics = append(r.panics, v) }
func (r *recorder) Flush(time.Duration) {}

func TestProtect(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	require.NoError(t, Protect(nil, func() error { return nil }))
	assert.Empty(t, rec.errs)

	boom := errors.New("boom")
	assert.ErrorIs(t, Protect(map[string]string{"op": "x"}, func() error { return boom }), boom)
	require.Len(t, rec.errs, 1)
	assert.Equal(t, "x", rec.tags[0]["op"])

	err := Protect(map[string]string{"op": "search"}, func() error { panic("bad state") })
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "bad state", pe.Value)
	assert.Equal(t, "panic: bad state", err.Error())
	require.Len(t, rec.errs, 2)
	assert.Equal(t, "search", rec.tags[1]["op"])
}

func TestCaptureIgnoresNil(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})
	CaptureException(nil, nil)
	assert.Empty(t, rec.errs)

	Init(nil)
	CaptureException(errors.New("x"), nil)
	assert.Len(t, rec.errs, 1, "nil monitor keeps the current one")
}

func TestRecoverRepanics(t *testing.T) {
	rec := &recorder{}
	Init(rec)
	defer Init(NopMonitor{})

	assert.PanicsWithValue(t, "worker died", func() {
		defer Recover()
		panic("worker died")
	})
	assert.Equal(t, []any{"worker died"}, rec.panics)

	assert.NotPanics(t, func() {
		defer Recover()
	})
	assert.Len(t, rec.panics, 1)
}
