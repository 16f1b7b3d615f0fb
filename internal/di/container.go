package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/locale"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/logging/console"
	"github.com/goliatone/go-sitegen/internal/logging/gologger"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/metrics"
	"github.com/goliatone/go-sitegen/internal/resolvers"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/site"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	_ "github.com/mattn/go-sqlite3"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"gocloud.dev/blob"
)

// Container wires the build pipeline from configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	codec          *locale.Codec

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	contentFS fs.FS
	query     interfaces.ContentQuery
	loadOnce  sync.Once
	loadErr   error

	recorder   metrics.Recorder
	prometheus *metrics.PrometheusRecorder

	bucket     *blob.Bucket
	ownsBucket bool
	notifier   *site.Notifier
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the logger provider built from config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithBunDB supplies the database used by sqlite storage.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default cache provider.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithContentFS reads content from fsys instead of Content.Dir.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithContentQuery skips loading and serves content from query.
func WithContentQuery(query interfaces.ContentQuery) Option {
	return func(c *Container) {
		c.query = query
	}
}

// WithRecorder overrides the metrics recorder.
func WithRecorder(recorder metrics.Recorder) Option {
	return func(c *Container) {
		c.recorder = recorder
	}
}

// WithBucket writes artifacts to bucket instead of Output.Dir.
func WithBucket(bucket *blob.Bucket) Option {
	return func(c *Container) {
		c.bucket = bucket
	}
}

// WithNotifier overrides the notifier opened from Notify.Topic.
func WithNotifier(notifier *site.Notifier) Option {
	return func(c *Container) {
		c.notifier = notifier
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	codec, err := locale.New(cfg.DefaultLocale, cfg.Alternates()...)
	if err != nil {
		return nil, err
	}

	c := &Container{
		Config: cfg,
		codec:  codec,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	c.configureCacheDefaults()
	c.configureMetrics()

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}

	cfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Level,
			Format:    cfg.Format,
			AddSource: cfg.AddSource,
			Focus:     cfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(cfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Content.Cache {
		return
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Content.CacheTTL > 0 {
			cfg.TTL = c.Config.Content.CacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureMetrics() {
	if c.recorder != nil {
		return
	}
	if !c.Config.Metrics.Enabled {
		c.recorder = metrics.NoopRecorder{}
		return
	}
	c.prometheus = metrics.NewPrometheusRecorder(prom.NewRegistry())
	c.recorder = c.prometheus
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Logger returns a module logger from the configured provider.
func (c *Container) Logger(module string) interfaces.Logger {
	return logging.ModuleLogger(c.loggerProvider, module)
}

// Codec exposes the locale codec built from the locale set.
func (c *Container) Codec() *locale.Codec {
	return c.codec
}

// Recorder exposes the metrics recorder.
func (c *Container) Recorder() metrics.Recorder {
	return c.recorder
}

// ContentQuery loads the content graph on first use. A query supplied through
// WithContentQuery is returned as is.
func (c *Container) ContentQuery(ctx context.Context) (interfaces.ContentQuery, error) {
	c.loadOnce.Do(func() {
		if c.query != nil {
			return
		}
		c.query, c.loadErr = c.loadContent(ctx)
	})
	return c.query, c.loadErr
}

func (c *Container) loadContent(ctx context.Context) (interfaces.ContentQuery, error) {
	logger := logging.ContentLogger(c.loggerProvider)

	fsys := c.contentFS
	if fsys == nil {
		fsys = os.DirFS(c.Config.Content.Dir)
	}

	md := c.Config.Content.Markdown
	loader, err := content.NewLoader(fsys, content.LoaderOptions{
		DefaultLocale: c.codec.Default(),
		Locales:       c.codec.Locales(),
		Markdown: markdown.ParseOptions{
			Extensions: md.Extensions,
			HardWraps:  md.HardWraps,
			SafeMode:   md.SafeMode,
		},
		Logger: logger,
	})
	if err != nil {
		return nil, err
	}

	nodes, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(strings.TrimSpace(c.Config.Content.Storage), "sqlite") {
		return c.storeInSQLite(ctx, nodes)
	}
	repo, err := content.NewMemoryRepository(nodes...)
	if err != nil {
		return nil, err
	}
	return repo, nil
}

func (c *Container) storeInSQLite(ctx context.Context, nodes []*content.Node) (interfaces.ContentQuery, error) {
	if c.bunDB == nil {
		sqldb, err := sql.Open("sqlite3", c.Config.Content.DSN)
		if err != nil {
			return nil, fmt.Errorf("di: open sqlite %s: %w", c.Config.Content.DSN, err)
		}
		c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
		c.ownsDB = true
	}

	repo := content.NewBunRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
	if err := repo.Migrate(ctx); err != nil {
		return nil, err
	}
	if err := repo.Store(ctx, nodes); err != nil {
		return nil, err
	}
	return repo, nil
}

// Resolver returns the derived field resolver over the loaded content.
func (c *Container) Resolver(ctx context.Context) (*resolvers.Resolver, error) {
	query, err := c.ContentQuery(ctx)
	if err != nil {
		return nil, err
	}
	return resolvers.New(query, c.codec, logging.ResolversLogger(c.loggerProvider)), nil
}

// SiteBuilder returns a builder over the loaded content.
func (c *Container) SiteBuilder(ctx context.Context) (*site.Builder, error) {
	query, err := c.ContentQuery(ctx)
	if err != nil {
		return nil, err
	}
	return site.NewBuilder(c.codec, query, site.Options{
		Templates: c.templates(),
		Redirects: c.redirects(),
		Recorder:  c.recorder,
		Logger:    logging.SiteLogger(c.loggerProvider),
	}), nil
}

func (c *Container) templates() site.Templates {
	t := site.DefaultTemplates()
	cfg := c.Config.Templates
	override := func(dst *string, value string) {
		if v := strings.TrimSpace(value); v != "" {
			*dst = v
		}
	}
	override(&t.Home, cfg.Home)
	override(&t.Search, cfg.Search)
	override(&t.Recipe, cfg.Recipe)
	override(&t.Page, cfg.Page)
	override(&t.CourseTag, cfg.CourseTag)
	override(&t.NotFound, cfg.NotFound)
	return t
}

func (c *Container) redirects() []interfaces.Redirect {
	out := make([]interfaces.Redirect, 0, len(c.Config.Redirects))
	for _, r := range c.Config.Redirects {
		out = append(out, interfaces.Redirect{
			FromPath:    r.From,
			ToPath:      r.To,
			IsPermanent: r.Permanent,
			Force:       r.Force,
		})
	}
	return out
}

// Writer returns an artifact writer. dir overrides Output.Dir when set.
func (c *Container) Writer(dir string) (*site.Writer, error) {
	bucket := c.bucket
	if bucket == nil {
		if strings.TrimSpace(dir) == "" {
			dir = c.Config.Output.Dir
		}
		opened, err := site.OpenBucket(dir)
		if err != nil {
			return nil, err
		}
		c.bucket = opened
		c.ownsBucket = true
		bucket = opened
	}
	out := c.Config.Output
	return site.NewWriter(bucket, site.WriterOptions{
		Manifest:      out.Manifest,
		Redirects:     out.Redirects,
		WriteStubs:    out.WriteStubs,
		DefaultLocale: c.codec.Default(),
	}), nil
}

// Notifier opens the configured topic on first use. It returns nil when
// notifications are disabled.
func (c *Container) Notifier(ctx context.Context) (*site.Notifier, error) {
	if c.notifier != nil {
		return c.notifier, nil
	}
	url := strings.TrimSpace(c.Config.Notify.Topic)
	if url == "" {
		return nil, nil
	}
	notifier, err := site.OpenNotifier(ctx, url)
	if err != nil {
		return nil, err
	}
	c.notifier = notifier
	return notifier, nil
}

// FlushMetrics writes the Prometheus textfile when metrics are enabled.
func (c *Container) FlushMetrics() error {
	if c.prometheus == nil {
		return nil
	}
	return c.prometheus.WriteTextfile(c.Config.Metrics.File)
}

// Close releases the resources the container opened.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.notifier != nil {
		if err := c.notifier.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if c.ownsBucket && c.bucket != nil {
		if err := c.bucket.Close(); err != nil {
			errs = append(errs, err)
		}
		c.bucket = nil
		c.ownsBucket = false
	}
	if c.ownsDB && c.bunDB != nil {
		if err := c.bunDB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
