// Package monitoring forwards unexpected errors and panics to an error
// reporting backend. The default backend discards everything.
package monitoring

import (
	"fmt"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(value any)
	Flush(timeout time.Duration)
}

const recoverFlushTimeout = 2 * time.Second

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any)                          {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil && err != nil {
		current.CaptureException(err, tags)
	}
}

// Recover reports a panic, flushes and re-panics. It only sees the panic
// when deferred directly: defer monitoring.Recover().
func Recover() {
	if r := recover(); r != nil {
		current.CapturePanic(r)
		current.Flush(recoverFlushTimeout)
		panic(r)
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}

// PanicError carries a recovered panic value.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// Protect runs fn and turns a panic into a captured *PanicError. Errors
// returned by fn are captured too.
func Protect(tags map[string]string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
			CaptureException(err, tags)
		}
	}()
	if err = fn(); err != nil {
		CaptureException(err, tags)
	}
	return err
}
