package recorder

// NoopRecorder is a no-op implementation used when no run database is
// configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *RunSummary) error { return nil }
func (n *NoopRecorder) Close() error                  { return nil }
