package metrics

import "time"

// ResultLabel enumerates document processing outcomes for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultSkipped ResultLabel = "skipped"
	ResultFailed  ResultLabel = "failed"
)

// Recorder defines observability hooks for build and link metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for nil receivers
// when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	ObserveDocumentDuration(d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncLinkClass(class string) // class: external|internal|skipped
	IncDocumentResult(result ResultLabel)
	IncBuildOutcome(outcome string) // outcome: success|failed|canceled
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveDocumentDuration(time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)    {}
func (NoopRecorder) IncLinkClass(string)                   {}
func (NoopRecorder) IncDocumentResult(ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(string)                {}
