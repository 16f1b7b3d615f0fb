// Package site orchestrates a build: it runs the page plan for every content
// category, applies the not-found localizer to each emitted page and writes
// the resulting plan to the output bucket.
package site

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/locale"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/metrics"
	"github.com/goliatone/go-sitegen/internal/notfound"
	"github.com/goliatone/go-sitegen/internal/pageplan"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Category names one step of a build.
type Category string

const (
	CategoryRedirect  Category = "redirect"
	CategoryHome      Category = "home"
	CategorySearch    Category = "search"
	CategoryRecipe    Category = "recipe"
	CategoryPage      Category = "page"
	CategoryCourseTag Category = "courseTag"
	CategoryNotFound  Category = "notFound"
)

// Categories lists the build steps in execution order.
func Categories() []Category {
	return []Category{
		CategoryRedirect,
		CategoryHome,
		CategorySearch,
		CategoryRecipe,
		CategoryPage,
		CategoryCourseTag,
		CategoryNotFound,
	}
}

// Templates maps each page kind to its template.
type Templates struct {
	Home      string
	Search    string
	Recipe    string
	Page      string
	CourseTag string
	NotFound  string
}

// DefaultTemplates returns the stock template names.
func DefaultTemplates() Templates {
	return Templates{
		Home:      "index",
		Search:    "search",
		Recipe:    "recipe",
		Page:      "page",
		CourseTag: "recipe-course-tag",
		NotFound:  "404",
	}
}

// BuildResult is the outcome of a successful build.
type BuildResult struct {
	GeneratedAt time.Time
	Duration    time.Duration
	Pages       []interfaces.Page
	Redirects   []interfaces.Redirect
	PagesByKind map[interfaces.PageKind]int
}

// Options configures a Builder.
type Options struct {
	Templates Templates
	Redirects []interfaces.Redirect
	Recorder  metrics.Recorder
	Logger    interfaces.Logger
	Now       func() time.Time
}

// Builder runs the page plan for a whole site.
type Builder struct {
	codec     *locale.Codec
	query     interfaces.ContentQuery
	plans     *pageplan.Builder
	localizer *notfound.Localizer
	templates Templates
	redirects []interfaces.Redirect
	recorder  metrics.Recorder
	logger    interfaces.Logger
	now       func() time.Time
}

// NewBuilder wires a site builder over the content query.
func NewBuilder(codec *locale.Codec, query interfaces.ContentQuery, opts Options) *Builder {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	recorder := opts.Recorder
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	templates := opts.Templates
	if templates == (Templates{}) {
		templates = DefaultTemplates()
	}
	return &Builder{
		codec:     codec,
		query:     query,
		plans:     pageplan.NewBuilder(codec, pageplan.WithLogger(logger)),
		localizer: notfound.NewLocalizer(logger),
		templates: templates,
		redirects: append([]interfaces.Redirect(nil), opts.Redirects...),
		recorder:  recorder,
		logger:    logger,
		now:       now,
	}
}

// Build runs every category in order against a fresh registry. The first
// failure aborts the build and no result is returned.
func (b *Builder) Build(ctx context.Context) (*BuildResult, error) {
	start := b.now()
	registry := NewRegistry(b.recorder, b.localizer)

	for _, category := range Categories() {
		if err := ctx.Err(); err != nil {
			b.recorder.IncBuildOutcome(metrics.OutcomeCanceled)
			return nil, err
		}
		categoryStart := time.Now()
		if err := b.runCategory(ctx, category, registry); err != nil {
			outcome := metrics.OutcomeFailed
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				outcome = metrics.OutcomeCanceled
			}
			b.recorder.IncBuildOutcome(outcome)
			b.logger.Error("site.build.failed", "category", string(category), "error", err)
			return nil, fmt.Errorf("site: category %s: %w", category, err)
		}
		b.recorder.ObserveCategoryDuration(string(category), time.Since(categoryStart))
	}

	result := &BuildResult{
		GeneratedAt: start,
		Pages:       registry.Pages(),
		Redirects:   registry.Redirects(),
		PagesByKind: map[interfaces.PageKind]int{},
	}
	for _, page := range result.Pages {
		result.PagesByKind[page.Kind]++
		b.recorder.IncPageCreated(string(page.Kind))
	}
	result.Duration = b.now().Sub(start)

	b.recorder.ObserveBuildDuration(result.Duration)
	b.recorder.IncBuildOutcome(metrics.OutcomeSuccess)
	b.logger.Info("site.build.completed",
		"pages", len(result.Pages),
		"redirects", len(result.Redirects),
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (b *Builder) runCategory(ctx context.Context, category Category, emitter interfaces.PageEmitter) error {
	switch category {
	case CategoryRedirect:
		for _, redirect := range b.redirects {
			if err := emitter.CreateRedirect(ctx, redirect); err != nil {
				return err
			}
		}
		return nil
	case CategoryHome:
		return b.emitPaths(ctx, emitter, b.uniformPaths("/"), b.templates.Home, interfaces.PageKindHome)
	case CategorySearch:
		slugs, err := content.SearchSlugs(ctx, b.query)
		if err != nil {
			return err
		}
		return b.emitPaths(ctx, emitter, slugs, b.templates.Search, interfaces.PageKindSearch)
	case CategoryRecipe:
		return b.emitNodes(ctx, emitter, content.TypeRecipe, b.templates.Recipe, interfaces.PageKindRecipe)
	case CategoryPage:
		return b.emitNodes(ctx, emitter, content.TypePage, b.templates.Page, interfaces.PageKindPage)
	case CategoryCourseTag:
		return b.emitNodes(ctx, emitter, content.TypeRecipeCourseTag, b.templates.CourseTag, interfaces.PageKindCourseTag)
	case CategoryNotFound:
		return b.emitPaths(ctx, emitter, b.uniformPaths("/404/"), b.templates.NotFound, interfaces.PageKindNotFound)
	default:
		return fmt.Errorf("site: unknown category %q", category)
	}
}

func (b *Builder) emitPaths(ctx context.Context, emitter interfaces.PageEmitter, paths map[string]string, template string, kind interfaces.PageKind) error {
	directives, err := b.plans.FromPaths(paths, template, kind)
	if err != nil {
		return err
	}
	return b.plans.Emit(ctx, emitter, directives)
}

func (b *Builder) emitNodes(ctx context.Context, emitter interfaces.PageEmitter, contentType, template string, kind interfaces.PageKind) error {
	nodes, err := b.query.FindAll(ctx, contentType, content.Filter{})
	if err != nil {
		return err
	}
	directives, err := b.plans.FromNodes(nodes, template, kind)
	if err != nil {
		return err
	}
	return b.plans.Emit(ctx, emitter, directives)
}

func (b *Builder) uniformPaths(path string) map[string]string {
	out := map[string]string{}
	for _, code := range b.codec.Locales() {
		out[code] = path
	}
	return out
}
