package metrics

import "time"

// Recorder adapts the package-level collectors to the analyzer's recorder interface.
type Recorder struct{}

// NewRecorder returns a recorder backed by the global registry.
func NewRecorder() Recorder {
	InitRegistry()
	return Recorder{}
}

// RecordEvent records one analyzed event.
func (Recorder) RecordEvent(status string, duration time.Duration) {
	RecordEventAnalyzed(status, duration)
}

// RecordBatch records the size of an analysis batch.
func (Recorder) RecordBatch(events int) {
	RecordBatch(events)
}
