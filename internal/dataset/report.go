package dataset

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

const reportVersion = 1

// SkippedRow is one audited rejection.
type SkippedRow struct {
	Line   int    `json:"line"`
	Serial string `json:"serial"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// ReassignedRow is a merged player whose id was taken and replaced.
type ReassignedRow struct {
	Line   int    `json:"line"`
	Serial string `json:"serial"`
	Name   string `json:"name"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// Report summarizes one convert or merge run.
type Report struct {
	Version    int             `json:"version"`
	RunID      string          `json:"runId"`
	Job        string          `json:"job"`
	Source     string          `json:"source"`
	Output     string          `json:"output"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	RowsRead   int             `json:"rowsRead"`
	Accepted   int             `json:"accepted"`
	Total      int             `json:"total"`
	Discarded  map[string]int  `json:"discarded"`
	Skipped    []SkippedRow    `json:"skipped"`
	Reassigned []ReassignedRow `json:"reassigned"`
}

// NewReport starts a report with a fresh run id.
func NewReport(job, source, output string, startedAt time.Time) Report {
	return Report{
		Version:    reportVersion,
		RunID:      uuid.NewString(),
		Job:        job,
		Source:     source,
		Output:     output,
		StartedAt:  startedAt.UTC(),
		Discarded:  map[string]int{},
		Skipped:    []SkippedRow{},
		Reassigned: []ReassignedRow{},
	}
}

// Skip appends an audited rejection.
func (r *Report) Skip(row SkippedRow) {
	r.Skipped = append(r.Skipped, row)
}

// Reassign appends a replaced id.
func (r *Report) Reassign(row ReassignedRow) {
	r.Reassigned = append(r.Reassigned, row)
}

// WriteReport persists the report atomically.
func WriteReport(path string, r Report) error {
	if path == "" {
		return errors.New("report path required")
	}
	return writeFile(path, r)
}
