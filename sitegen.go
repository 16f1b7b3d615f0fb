package sitegen

import (
	"context"

	"github.com/goliatone/go-sitegen/internal/commands"
	buildcmd "github.com/goliatone/go-sitegen/internal/commands/build"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/resolvers"
	"github.com/goliatone/go-sitegen/internal/site"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// BuildResult exports the outcome of a site build.
type BuildResult = site.BuildResult

// Page exports a planned page.
type Page = interfaces.Page

// Redirect exports a static redirect rule.
type Redirect = interfaces.Redirect

// Tag exports a derived or first-class recipe tag.
type Tag = resolvers.Tag

// BuildSiteCommand exports the build command message.
type BuildSiteCommand = buildcmd.BuildSiteCommand

// ResolveTagsCommand exports the tag listing command message.
type ResolveTagsCommand = buildcmd.ResolveTagsCommand

// Module represents the top level site builder façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Locales returns the locale codec of the site.
func (m *Module) Locales() *LocaleCodec {
	return m.container.Codec()
}

// Build plans every page of the site without writing anything.
func (m *Module) Build(ctx context.Context) (*BuildResult, error) {
	builder, err := m.container.SiteBuilder(ctx)
	if err != nil {
		return nil, err
	}
	return builder.Build(ctx)
}

// Resolver returns the derived field resolver over the site content.
func (m *Module) Resolver(ctx context.Context) (*resolvers.Resolver, error) {
	return m.container.Resolver(ctx)
}

// BuildHandler returns the command handler that builds, writes and announces the site.
func (m *Module) BuildHandler(ctx context.Context) (*buildcmd.BuildSiteHandler, error) {
	builder, err := m.container.SiteBuilder(ctx)
	if err != nil {
		return nil, err
	}
	deps := buildcmd.BuildDependencies{
		Builder: builder,
		Writers: func(dir string) (buildcmd.ArtifactWriter, error) {
			writer, err := m.container.Writer(dir)
			if err != nil {
				return nil, err
			}
			return writer, nil
		},
	}
	notifier, err := m.container.Notifier(ctx)
	if err != nil {
		return nil, err
	}
	if notifier != nil {
		deps.Publisher = notifier
	}
	logger := commands.CommandLogger(m.container.LoggerProvider(), "site.build")
	return buildcmd.NewBuildSiteHandler(deps, logger,
		commands.WithTimeout[buildcmd.BuildSiteCommand](m.container.Config.Commands.Timeout),
		commands.WithTelemetry[buildcmd.BuildSiteCommand](
			commands.DefaultTelemetry[buildcmd.BuildSiteCommand](logger, m.container.Recorder()),
		),
	), nil
}

// TagsHandler returns the command handler that lists ingredient tags.
func (m *Module) TagsHandler(ctx context.Context) (*buildcmd.ResolveTagsHandler, error) {
	resolver, err := m.container.Resolver(ctx)
	if err != nil {
		return nil, err
	}
	logger := commands.CommandLogger(m.container.LoggerProvider(), "tags.resolve")
	return buildcmd.NewResolveTagsHandler(resolver, logger,
		commands.WithTimeout[buildcmd.ResolveTagsCommand](m.container.Config.Commands.Timeout),
		commands.WithTelemetry[buildcmd.ResolveTagsCommand](
			commands.DefaultTelemetry[buildcmd.ResolveTagsCommand](logger, m.container.Recorder()),
		),
	), nil
}

// FlushMetrics writes the metrics textfile when metrics are enabled.
func (m *Module) FlushMetrics() error {
	return m.container.FlushMetrics()
}

// Close releases storage, output and notification resources.
func (m *Module) Close(ctx context.Context) error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close(ctx)
}
