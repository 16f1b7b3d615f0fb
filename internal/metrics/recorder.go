// Package metrics records build observability through a Recorder. Components
// default to NoopRecorder; the Prometheus implementation is injected when
// metrics are enabled in configuration.
package metrics

import "time"

// Outcome labels the final status of a build.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Recorder defines the build observability hooks. Implementations must be
// safe for concurrent use.
type Recorder interface {
	IncPageCreated(kind string)
	IncNotFoundRewrite(route string)
	ObserveCategoryDuration(category string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncBuildOutcome(outcome Outcome)
	IncCommandOutcome(operation string, outcome Outcome)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) IncPageCreated(string)                         {}
func (NoopRecorder) IncNotFoundRewrite(string)                     {}
func (NoopRecorder) ObserveCategoryDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)            {}
func (NoopRecorder) IncBuildOutcome(Outcome)                       {}
func (NoopRecorder) IncCommandOutcome(string, Outcome)             {}
