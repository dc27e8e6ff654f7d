package models

// Stage identifies which phase of the pipeline a ProgressEvent belongs to.
type Stage string

const (
	StageIndexing      Stage = "indexing"
	StageFingerprinting Stage = "fingerprinting"
	StageMatching      Stage = "matching"
	StageComparing     Stage = "comparing"
	StageReporting     Stage = "reporting"
)

// ProgressEvent is emitted to the write-only progress observer. Counters
// are monotonic per stage.
type ProgressEvent struct {
	Stage      Stage
	Message    string
	Current    int64
	Total      int64
	Percentage float64
}

// NewProgressEvent computes Percentage from Current/Total (0 when Total is 0).
func NewProgressEvent(stage Stage, message string, current, total int64) ProgressEvent {
	var pct float64
	if total > 0 {
		pct = float64(current) / float64(total) * 100.0
	}
	return ProgressEvent{Stage: stage, Message: message, Current: current, Total: total, Percentage: pct}
}

// ProgressObserver is a narrow write-only interface: a single method to
// accept a ProgressEvent. Implementations must be reentrant and
// thread-safe, and must not block the pipeline.
type ProgressObserver interface {
	Observe(ProgressEvent)
}

// ProgressObserverFunc adapts a function to a ProgressObserver.
type ProgressObserverFunc func(ProgressEvent)

func (f ProgressObserverFunc) Observe(e ProgressEvent) { f(e) }

// NoopObserver discards every event.
type NoopObserver struct{}

func (NoopObserver) Observe(ProgressEvent) {}
