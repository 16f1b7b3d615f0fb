package buildcmd

import (
	"context"
	"errors"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/resolvers"
	"github.com/goliatone/go-sitegen/internal/site"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrBuilderRequired is returned when a handler has nothing to build with.
var ErrBuilderRequired = errors.New("buildcmd: site builder is required")

// ErrResolverRequired is returned when the tags handler has no resolver.
var ErrResolverRequired = errors.New("buildcmd: tag resolver is required")

// SiteBuilder runs the page plan.
type SiteBuilder interface {
	Build(ctx context.Context) (*site.BuildResult, error)
}

// ArtifactWriter persists a build result.
type ArtifactWriter interface {
	Write(ctx context.Context, result *site.BuildResult) ([]string, error)
}

// WriterFactory opens a writer for outputDir. Empty means the configured default.
type WriterFactory func(outputDir string) (ArtifactWriter, error)

// Publisher announces finished builds.
type Publisher interface {
	Publish(ctx context.Context, result *site.BuildResult, artifacts []string) error
}

// TagResolver lists aggregate ingredient tags.
type TagResolver interface {
	AllIngredientTags(ctx context.Context, locale *string) ([]resolvers.Tag, error)
}

// BuildDependencies are the collaborators of BuildSiteHandler. Writers and Publisher are optional.
type BuildDependencies struct {
	Builder   SiteBuilder
	Writers   WriterFactory
	Publisher Publisher
}

// BuildSiteHandler orchestrates site builds using the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided builder.
func NewBuildSiteHandler(deps BuildDependencies, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		if deps.Builder == nil {
			return ErrBuilderRequired
		}

		result, err := deps.Builder.Build(ctx)
		if err != nil {
			invokeCallback(msg.ResultCallback, ResultEnvelope{
				Metadata: map[string]any{"operation": "build", "failed": true},
			})
			return err
		}

		envelope := ResultEnvelope{
			Result: result,
			Metadata: map[string]any{
				"operation": "build",
				"dry_run":   msg.DryRun,
			},
		}
		if msg.DryRun || deps.Writers == nil {
			invokeCallback(msg.ResultCallback, envelope)
			return nil
		}

		writer, err := deps.Writers(msg.OutputDir)
		if err != nil {
			return err
		}
		artifacts, err := writer.Write(ctx, result)
		if err != nil {
			return err
		}
		envelope.Artifacts = artifacts

		if deps.Publisher != nil {
			if err := deps.Publisher.Publish(ctx, result, artifacts); err != nil {
				return err
			}
			envelope.Metadata["published"] = true
		}

		invokeCallback(msg.ResultCallback, envelope)
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("site.build"),
		commands.WithMessageFields[BuildSiteCommand](func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if msg.OutputDir != "" {
				fields["output_dir"] = msg.OutputDir
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry[BuildSiteCommand](commands.DefaultTelemetry[BuildSiteCommand](baseLogger, nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ResolveTagsHandler lists ingredient tags.
type ResolveTagsHandler struct {
	inner *commands.Handler[ResolveTagsCommand]
}

// NewResolveTagsHandler constructs a handler over resolver.
func NewResolveTagsHandler(resolver TagResolver, logger interfaces.Logger, opts ...commands.HandlerOption[ResolveTagsCommand]) *ResolveTagsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ResolveTagsCommand) error {
		if resolver == nil {
			return ErrResolverRequired
		}
		tags, err := resolver.AllIngredientTags(ctx, msg.Locale)
		if err != nil {
			return err
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(tags)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ResolveTagsCommand]{
		commands.WithLogger[ResolveTagsCommand](baseLogger),
		commands.WithOperation[ResolveTagsCommand]("tags.resolve"),
		commands.WithMessageFields[ResolveTagsCommand](func(msg ResolveTagsCommand) map[string]any {
			if msg.Locale == nil {
				return nil
			}
			return map[string]any{"locale": *msg.Locale}
		}),
		commands.WithTelemetry[ResolveTagsCommand](commands.DefaultTelemetry[ResolveTagsCommand](baseLogger, nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ResolveTagsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ResolveTagsCommand].
func (h *ResolveTagsHandler) Execute(ctx context.Context, msg ResolveTagsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
