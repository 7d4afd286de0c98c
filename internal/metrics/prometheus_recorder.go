package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once             sync.Once
	documentDuration prom.Histogram
	buildDuration    prom.Histogram
	linkClasses      *prom.CounterVec
	documentResults  *prom.CounterVec
	buildOutcome     *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.documentDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "linkrouter",
			Name:      "document_duration_seconds",
			Help:      "Duration of individual document rewrite passes",
			Buckets:   prom.DefBuckets,
		})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "linkrouter",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.linkClasses = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "linkrouter",
			Name:      "links_total",
			Help:      "Anchor tokens by classification outcome",
		}, []string{"class"})
		pr.documentResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "linkrouter",
			Name:      "document_results_total",
			Help:      "Document processing counts by outcome",
		}, []string{"result"})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "linkrouter",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.documentDuration, pr.buildDuration, pr.linkClasses, pr.documentResults, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveDocumentDuration(d time.Duration) {
	if p == nil || p.documentDuration == nil {
		return
	}
	p.documentDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncLinkClass(class string) {
	if p == nil || p.linkClasses == nil {
		return
	}
	p.linkClasses.WithLabelValues(class).Inc()
}

func (p *PrometheusRecorder) IncDocumentResult(result ResultLabel) {
	if p == nil || p.documentResults == nil {
		return
	}
	p.documentResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}
