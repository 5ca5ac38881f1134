package metrics

import (
	"sync"
	"time"
)

type jobStats struct {
	rows         map[string]int
	runs         int
	failedRuns   int
	lastDuration time.Duration
}

// Recorder captures lightweight, in-memory metrics about roster runs and
// forwards them to OpenTelemetry instruments when configured.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*jobStats
	otel  *otelInstruments
	// textfile is set by Setup when a Prometheus registry backs the recorder.
	textfile func(path string) error
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*jobStats),
		otel:  otel,
	}
}

// RecordRow counts one row outcome (OutcomeAccepted or a skip reason) for a job.
func (r *Recorder) RecordRow(job, outcome string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.ensureStatsLocked(job).rows[outcome]++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRow(job, outcome)
	}
}

// RecordRun tracks a finished run and its duration.
func (r *Recorder) RecordRun(job string, duration time.Duration, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	stats := r.ensureStatsLocked(job)
	stats.runs++
	stats.lastDuration = duration
	if err != nil {
		stats.failedRuns++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRun(job, duration, err)
	}
}

// RecordMirror tracks a database mirror write.
func (r *Recorder) RecordMirror(mirror string, duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordMirror(mirror, duration, err)
}

// Snapshot returns a copy of the current stats for a job.
type Snapshot struct {
	Rows         map[string]int
	Runs         int
	FailedRuns   int
	LastDuration time.Duration
}

func (r *Recorder) Snapshot(job string) Snapshot {
	if r == nil {
		return Snapshot{Rows: map[string]int{}}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{Rows: map[string]int{}}
	stats, ok := r.stats[job]
	if !ok {
		return snap
	}
	for k, v := range stats.rows {
		snap.Rows[k] = v
	}
	snap.Runs = stats.runs
	snap.FailedRuns = stats.failedRuns
	snap.LastDuration = stats.lastDuration
	return snap
}

// WriteTextfile dumps the Prometheus registry in text exposition format, for
// node_exporter's textfile collector. It is a no-op when metrics are disabled.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || r.textfile == nil || path == "" {
		return nil
	}
	return r.textfile(path)
}

func (r *Recorder) ensureStatsLocked(job string) *jobStats {
	stats, ok := r.stats[job]
	if !ok {
		stats = &jobStats{rows: make(map[string]int)}
		r.stats[job] = stats
	}
	return stats
}
