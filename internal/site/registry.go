package site

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-sitegen/internal/metrics"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	// ErrDuplicatePath reports two pages claiming the same path.
	ErrDuplicatePath = errors.New("site: duplicate page path")
	// ErrPageNotFound reports a delete for a path that was never created.
	ErrPageNotFound = errors.New("site: page not found")
)

// Hook runs after every page creation. Hooks may delete and recreate the page
// through emitter; the recreated page is not passed through the hooks again.
type Hook interface {
	OnCreatePage(ctx context.Context, page interfaces.Page, emitter interfaces.PageEmitter) (bool, error)
}

// Registry collects the pages and redirects of one build. It is not safe for
// concurrent use; categories run one after another.
type Registry struct {
	pages     map[string]interfaces.Page
	order     []string
	redirects []interfaces.Redirect
	hooks     []Hook
	hooking   map[string]struct{}
	recorder  metrics.Recorder
}

var _ interfaces.PageEmitter = (*Registry)(nil)

// NewRegistry creates an empty registry running hooks in order.
func NewRegistry(recorder metrics.Recorder, hooks ...Hook) *Registry {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Registry{
		pages:    map[string]interfaces.Page{},
		hooks:    hooks,
		hooking:  map[string]struct{}{},
		recorder: recorder,
	}
}

// CreatePage stores page and runs the hooks for it.
func (r *Registry) CreatePage(ctx context.Context, page interfaces.Page) error {
	if _, exists := r.pages[page.Path]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, page.Path)
	}
	r.pages[page.Path] = page
	r.order = append(r.order, page.Path)

	if _, reentrant := r.hooking[page.Path]; reentrant {
		return nil
	}

	r.hooking[page.Path] = struct{}{}
	defer delete(r.hooking, page.Path)

	for _, hook := range r.hooks {
		replaced, err := hook.OnCreatePage(ctx, page, r)
		if err != nil {
			return err
		}
		if replaced {
			r.recorder.IncNotFoundRewrite(rewriteLabel(r.pages[page.Path]))
			return nil
		}
	}
	return nil
}

// DeletePage removes the page stored under page.Path.
func (r *Registry) DeletePage(_ context.Context, page interfaces.Page) error {
	if _, exists := r.pages[page.Path]; !exists {
		return fmt.Errorf("%w: %s", ErrPageNotFound, page.Path)
	}
	delete(r.pages, page.Path)
	if idx := slices.Index(r.order, page.Path); idx >= 0 {
		r.order = slices.Delete(r.order, idx, idx+1)
	}
	return nil
}

// CreateRedirect records a redirect rule.
func (r *Registry) CreateRedirect(_ context.Context, redirect interfaces.Redirect) error {
	r.redirects = append(r.redirects, redirect)
	return nil
}

// Pages returns the stored pages in creation order.
func (r *Registry) Pages() []interfaces.Page {
	out := make([]interfaces.Page, 0, len(r.order))
	for _, path := range r.order {
		out = append(out, r.pages[path])
	}
	return out
}

// Page returns the page stored under path.
func (r *Registry) Page(path string) (interfaces.Page, bool) {
	page, ok := r.pages[path]
	return page, ok
}

// Redirects returns the recorded redirect rules.
func (r *Registry) Redirects() []interfaces.Redirect {
	return slices.Clone(r.redirects)
}

func rewriteLabel(page interfaces.Page) string {
	if page.MatchPath != "" {
		return "localized"
	}
	return "default"
}
