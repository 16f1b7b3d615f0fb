// Package notfound rewrites the framework's fallback 404 pages into one
// wildcard catch-all route per locale.
package notfound

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// RouteKind is the classification of a page path.
type RouteKind int

const (
	KindPassthrough RouteKind = iota
	// KindLocalized is a /{locale}/404/ page.
	KindLocalized
	// KindDefault is any other path ending in /404/.
	KindDefault
)

func (k RouteKind) String() string {
	switch k {
	case KindLocalized:
		return "localized"
	case KindDefault:
		return "default"
	default:
		return "passthrough"
	}
}

const notFoundSuffix = "/404/"

var localizedPattern = regexp.MustCompile(`^/([a-z]{2})/404/$`)

// Route is the outcome of Classify.
type Route struct {
	Kind   RouteKind
	Locale string
}

// Classify inspects path alone. The suffix check runs first so ordinary
// pages never reach the pattern match.
func Classify(path string) Route {
	if !strings.HasSuffix(path, notFoundSuffix) {
		return Route{Kind: KindPassthrough}
	}
	if match := localizedPattern.FindStringSubmatch(path); match != nil {
		return Route{Kind: KindLocalized, Locale: match[1]}
	}
	return Route{Kind: KindDefault}
}

// MatchPath is the wildcard covering every path under locale.
func MatchPath(locale string) string {
	return "/" + locale + "/*"
}

// Localizer is the page creation hook applying Classify.
type Localizer struct {
	logger interfaces.Logger
}

// NewLocalizer builds a localizer. A nil logger disables logging.
func NewLocalizer(logger interfaces.Logger) *Localizer {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Localizer{logger: logger}
}

// Rewrite returns the replacement for page and whether one is needed.
// Pages already carrying the not-found marker are left alone, which makes the
// hook idempotent. Pages created with a kind other than notFound skip path
// classification entirely.
func (l *Localizer) Rewrite(page interfaces.Page) (interfaces.Page, bool) {
	if page.Context.OnNotFoundPage {
		return page, false
	}
	if page.Kind != "" && page.Kind != interfaces.PageKindNotFound {
		return page, false
	}

	route := Classify(page.Path)
	if route.Kind == KindPassthrough {
		return page, false
	}

	rewritten := page
	rewritten.Kind = interfaces.PageKindNotFound
	rewritten.Context.OnNotFoundPage = true
	if route.Kind == KindLocalized {
		rewritten.MatchPath = MatchPath(route.Locale)
		rewritten.Locale = route.Locale
		rewritten.Context.Locale = route.Locale
	}
	return rewritten, true
}

// OnCreatePage deletes page and recreates it as a catch-all route when its
// path is a not-found page. It reports whether the page was replaced.
func (l *Localizer) OnCreatePage(ctx context.Context, page interfaces.Page, emitter interfaces.PageEmitter) (bool, error) {
	rewritten, ok := l.Rewrite(page)
	if !ok {
		return false, nil
	}

	if err := emitter.DeletePage(ctx, page); err != nil {
		return false, fmt.Errorf("notfound: delete %s: %w", page.Path, err)
	}
	if err := emitter.CreatePage(ctx, rewritten); err != nil {
		return false, fmt.Errorf("notfound: recreate %s: %w", page.Path, err)
	}

	l.logger.Debug("notfound.page.localized",
		"path", page.Path,
		"match_path", rewritten.MatchPath,
		"route", Classify(page.Path).Kind.String(),
	)
	return true, nil
}
