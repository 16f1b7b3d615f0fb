// Package pageplan turns locale-keyed paths and content nodes into page
// directives, pairing every page with its twins in the other locales.
package pageplan

import (
	"context"
	"fmt"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/locale"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Directive describes one page to create.
type Directive = interfaces.Page

// Builder produces directives for one content category at a time. It holds no
// per-build state and may be reused.
type Builder struct {
	codec  *locale.Codec
	logger interfaces.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a builder over the codec's locale set.
func NewBuilder(codec *locale.Codec, opts ...Option) *Builder {
	b := &Builder{codec: codec, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// FromPaths builds one directive per locale for a single logical page whose
// unprefixed path differs by locale. Every locale of the set must have an
// entry.
func (b *Builder) FromPaths(paths map[string]string, template string, kind interfaces.PageKind) ([]Directive, error) {
	locales := b.codec.Locales()
	encoded := make(map[string]string, len(locales))
	for _, code := range locales {
		raw, ok := paths[code]
		if !ok {
			return nil, &MissingPathEntryError{Locale: code}
		}
		encoded[code] = b.codec.Encode(raw, code)
	}

	directives := make([]Directive, 0, len(locales))
	for _, code := range locales {
		alternates := make(map[string]string, len(locales)-1)
		for _, other := range b.codec.Others(code) {
			alternates[other] = encoded[other]
		}
		directives = append(directives, b.directive(encoded[code], template, kind, code, "", alternates))
	}
	return directives, nil
}

// FromNodes builds one directive per node. Nodes are grouped by GroupKey and
// each node must have a sibling in every other locale of the set.
func (b *Builder) FromNodes(nodes []*content.Node, template string, kind interfaces.PageKind) ([]Directive, error) {
	groups, err := b.group(nodes)
	if err != nil {
		return nil, err
	}

	directives := make([]Directive, 0, len(nodes))
	for _, node := range nodes {
		if node == nil {
			continue
		}
		alternates := make(map[string]string, len(b.codec.Alternates()))
		for _, other := range b.codec.Others(node.Locale) {
			sibling, ok := groups.sibling(node.GroupKey, other)
			if !ok {
				return nil, &MissingTranslationError{GroupKey: node.GroupKey, Locale: other}
			}
			alternates[other] = b.codec.EncodeFromSlug(sibling.Slug, other)
		}
		path := b.codec.EncodeFromSlug(node.Slug, node.Locale)
		directives = append(directives, b.directive(path, template, kind, node.Locale, node.ID, alternates))
	}
	return directives, nil
}

// Emit hands directives to emitter in order, stopping at the first failure.
func (b *Builder) Emit(ctx context.Context, emitter interfaces.PageEmitter, directives []Directive) error {
	for _, directive := range directives {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emitter.CreatePage(ctx, directive); err != nil {
			return fmt.Errorf("pageplan: create page %s: %w", directive.Path, err)
		}
	}
	return nil
}

func (b *Builder) directive(path, template string, kind interfaces.PageKind, code, id string, alternates map[string]string) Directive {
	first := ""
	if others := b.codec.Others(code); len(others) > 0 {
		first = alternates[others[0]]
	}

	b.logger.Debug("pageplan.directive.created",
		"path", path,
		"locale", code,
		"page_kind", string(kind),
		"alternates", len(alternates),
	)

	return Directive{
		Path:     path,
		Template: template,
		Kind:     kind,
		Locale:   code,
		Context: interfaces.PageContext{
			ID:                  id,
			Locale:              code,
			AlternateLocalePath: first,
			AlternatePaths:      alternates,
		},
	}
}

type groupIndex map[string]map[string]*content.Node

func (g groupIndex) sibling(groupKey, code string) (*content.Node, bool) {
	node, ok := g[groupKey][code]
	return node, ok
}

func (b *Builder) group(nodes []*content.Node) (groupIndex, error) {
	groups := groupIndex{}
	for _, node := range nodes {
		if node == nil {
			continue
		}
		if !b.codec.Supports(node.Locale) {
			return nil, fmt.Errorf("%w: node %s has locale %q", ErrUnsupportedLocale, node.ID, node.Locale)
		}
		byLocale, ok := groups[node.GroupKey]
		if !ok {
			byLocale = map[string]*content.Node{}
			groups[node.GroupKey] = byLocale
		}
		if existing, dup := byLocale[node.Locale]; dup {
			return nil, fmt.Errorf("%w: group %q locale %q (%s, %s)", ErrDuplicateTranslation, node.GroupKey, node.Locale, existing.ID, node.ID)
		}
		byLocale[node.Locale] = node
	}
	return groups, nil
}
