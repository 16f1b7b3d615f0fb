package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/metrics"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// TelemetryInfo describes one finished command execution. Outcome is canceled
// when the command stopped on a context error, even if the build wrapped it.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Outcome   metrics.Outcome
	Logger    interfaces.Logger
}

// Telemetry is invoked after every command execution.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome and counts it on recorder under the
// operation name, falling back to the message type.
func DefaultTelemetry[T command.Message](logger interfaces.Logger, recorder metrics.Recorder) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return func(ctx context.Context, _ T, info TelemetryInfo) {
		label := info.Operation
		if label == "" {
			label = info.Command
		}
		recorder.IncCommandOutcome(label, info.Outcome)

		entry := logging.WithFields(logger, info.Fields)
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		switch info.Outcome {
		case metrics.OutcomeSuccess:
			entry.Info("sitegen.command.succeeded", args...)
		case metrics.OutcomeCanceled:
			entry.Warn("sitegen.command.canceled", append(args, "error", info.Error)...)
		default:
			entry.Error("sitegen.command.failed", append(args, "error", info.Error)...)
		}
	}
}

func outcomeOf(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case isContextError(err):
		return metrics.OutcomeCanceled
	default:
		return metrics.OutcomeFailed
	}
}
