// Package recorder persists batch run summaries for later inspection.
package recorder

import "time"

// RunSummary describes one pipeline stage run.
type RunSummary struct {
	Stage     string
	Product   string // empty for runs spanning all products
	Processed int
	Skipped   int
	Failed    int
	Duration  time.Duration
	Note      string
}

// Recorder persists run summaries.
type Recorder interface {
	RecordRun(sum *RunSummary) error
	Close() error
}
