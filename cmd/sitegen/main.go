package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/goliatone/go-command"
	"github.com/goliatone/go-sitegen"
	buildcmd "github.com/goliatone/go-sitegen/internal/commands/build"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

// CLI is the root command line definition.
type CLI struct {
	Config     string   `short:"c" help:"Configuration file path (optional)"`
	ContentDir string   `name:"content-dir" help:"Override content.dir"`
	LogLevel   string   `name:"log-level" help:"Override logging.level"`
	EnvFile    []string `name:"env-file" help:"Dotenv files loaded before the configuration" default:".env"`

	Build BuildCmd `cmd:"" help:"Plan every page and write the site artifacts"`
	Tags  TagsCmd  `cmd:"" help:"List aggregate ingredient tags"`
}

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory (defaults to output.dir)"`
	DryRun bool   `name:"dry-run" help:"Plan pages without writing artifacts"`
}

// TagsCmd implements the 'tags' command.
type TagsCmd struct {
	Locale string `short:"l" help:"Restrict the listing to one locale"`
}

type handlerSet struct {
	build command.Commander[buildcmd.BuildSiteCommand]
	tags  command.Commander[buildcmd.ResolveTagsCommand]
}

type moduleOptions struct {
	cfg runtimeconfig.Config
}

type moduleResources struct {
	handlers handlerSet
	flush    func() error
	close    func(context.Context) error
}

var moduleBuilder = buildModule

type app struct {
	ctx       context.Context
	out       io.Writer
	resources *moduleResources
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "sitegen:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("sitegen"),
		kong.Description("Builds the page plan of a multilingual recipe site."),
		kong.Writers(out, out),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := runtimeconfig.LoadDotEnv(cli.EnvFile...); err != nil {
		return err
	}
	cfg, err := runtimeconfig.LoadFile(cli.Config)
	if err != nil {
		return err
	}
	if dir := strings.TrimSpace(cli.ContentDir); dir != "" {
		cfg.Content.Dir = dir
	}
	if level := strings.TrimSpace(cli.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	resources, err := moduleBuilder(moduleOptions{cfg: cfg})
	if err != nil {
		return err
	}
	defer func() {
		if resources.close != nil {
			_ = resources.close(context.Background())
		}
	}()

	return kctx.Run(&app{ctx: ctx, out: out, resources: resources})
}

func buildModule(opts moduleOptions) (*moduleResources, error) {
	module, err := sitegen.New(opts.cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	build, err := module.BuildHandler(ctx)
	if err != nil {
		return nil, closeAfter(ctx, module, err)
	}
	tags, err := module.TagsHandler(ctx)
	if err != nil {
		return nil, closeAfter(ctx, module, err)
	}

	return &moduleResources{
		handlers: handlerSet{build: build, tags: tags},
		flush:    module.FlushMetrics,
		close:    module.Close,
	}, nil
}

type closer interface {
	Close(ctx context.Context) error
}

// closeAfter releases c after a failed setup step and keeps both errors.
func closeAfter(ctx context.Context, c closer, err error) error {
	if closeErr := c.Close(ctx); closeErr != nil {
		return errors.Join(err, fmt.Errorf("close module: %w", closeErr))
	}
	return err
}

// Run executes the build through the command handler and prints a summary.
func (b *BuildCmd) Run(a *app) error {
	var envelope buildcmd.ResultEnvelope
	err := a.resources.handlers.build.Execute(a.ctx, buildcmd.BuildSiteCommand{
		OutputDir:      b.Output,
		DryRun:         b.DryRun,
		ResultCallback: func(env buildcmd.ResultEnvelope) { envelope = env },
	})
	if a.resources.flush != nil {
		if flushErr := a.resources.flush(); flushErr != nil && err == nil {
			err = flushErr
		}
	}
	if err != nil {
		return err
	}

	result := envelope.Result
	if result == nil {
		return nil
	}
	fmt.Fprintf(a.out, "pages=%d redirects=%d duration=%s dry_run=%t\n",
		len(result.Pages), len(result.Redirects), result.Duration, b.DryRun)
	for _, artifact := range envelope.Artifacts {
		fmt.Fprintf(a.out, "wrote %s\n", artifact)
	}
	return nil
}

// Run lists ingredient tags, one per line.
func (t *TagsCmd) Run(a *app) error {
	msg := buildcmd.ResolveTagsCommand{}
	if code := strings.TrimSpace(t.Locale); code != "" {
		msg.Locale = &code
	}
	msg.ResultCallback = func(tags []sitegen.Tag) {
		for _, tag := range tags {
			fmt.Fprintf(a.out, "%s\t%s\t%s\n", tag.Locale, tag.ID, tag.Title)
		}
	}
	return a.resources.handlers.tags.Execute(a.ctx, msg)
}
