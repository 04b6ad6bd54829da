// Package metrics defines the sinks that observe search runs. A sink must
// record finished searches and may also implement AttemptRecorder,
// ImprovementRecorder or ProgressRecorder. Sinks are built from
// configuration through a registry; several configured sinks are combined
// in a MultiSink.
package metrics
