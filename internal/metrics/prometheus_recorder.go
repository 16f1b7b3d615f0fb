package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry         *prom.Registry
	pagesCreated     *prom.CounterVec
	notFoundRewrites *prom.CounterVec
	categoryDuration *prom.HistogramVec
	buildDuration    prom.Histogram
	buildOutcome     *prom.CounterVec
	commandOutcome   *prom.CounterVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
// A nil registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		pagesCreated: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_created_total",
			Help:      "Pages emitted by kind",
		}, []string{"kind"}),
		notFoundRewrites: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "not_found_rewrites_total",
			Help:      "Not-found pages rewritten into catch-all routes",
		}, []string{"route"}),
		categoryDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "category_duration_seconds",
			Help:      "Duration of each page category",
			Buckets:   prom.DefBuckets,
		}, []string{"category"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		commandOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "command_outcomes_total",
			Help:      "Command executions by operation and final status",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(pr.pagesCreated, pr.notFoundRewrites, pr.categoryDuration, pr.buildDuration, pr.buildOutcome, pr.commandOutcome)
	return pr
}

// Registry exposes the registry the collectors live on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) IncPageCreated(kind string) {
	if p == nil {
		return
	}
	p.pagesCreated.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncNotFoundRewrite(route string) {
	if p == nil {
		return
	}
	p.notFoundRewrites.WithLabelValues(route).Inc()
}

func (p *PrometheusRecorder) ObserveCategoryDuration(category string, d time.Duration) {
	if p == nil {
		return
	}
	p.categoryDuration.WithLabelValues(category).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome Outcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) IncCommandOutcome(operation string, outcome Outcome) {
	if p == nil {
		return
	}
	p.commandOutcome.WithLabelValues(operation, string(outcome)).Inc()
}

// WriteTextfile dumps the registry in the node-exporter textfile format.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
