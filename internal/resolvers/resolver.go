// Package resolvers computes derived fields over the content graph: tag
// kinds, synthesized ingredient tags and locale-scoped lookups.
package resolvers

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/locale"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ErrParentRequired reports an ingredients text record without a recipe.
var ErrParentRequired = errors.New("resolvers: parent recipe is required")

// Resolver answers derived field queries. It keeps no mutable state and is
// safe for concurrent use.
type Resolver struct {
	query  interfaces.ContentQuery
	codec  *locale.Codec
	logger interfaces.Logger
}

// New builds a resolver over a read-only content query.
func New(query interfaces.ContentQuery, codec *locale.Codec, logger interfaces.Logger) *Resolver {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Resolver{query: query, codec: codec, logger: logger}
}

// ScaleWhitelists returns the whitelist entries sharing the locale of the
// recipe that owns ingredientsText. There is no default locale fallback.
func (r *Resolver) ScaleWhitelists(ctx context.Context, ingredientsText *content.Node) ([]*content.Node, error) {
	if ingredientsText == nil || ingredientsText.Parent == "" {
		return nil, ErrParentRequired
	}
	parent, err := r.query.GetNodeByID(ctx, ingredientsText.Parent, content.TypeRecipe)
	if err != nil {
		return nil, fmt.Errorf("resolvers: parent of %s: %w", ingredientsText.ID, err)
	}

	entries, err := r.query.FindAll(ctx, content.TypeScaleWhitelist, content.Filter{Locale: parent.Locale})
	if err != nil {
		return nil, fmt.Errorf("resolvers: scale whitelist: %w", err)
	}

	out := make([]*content.Node, 0, len(entries))
	for _, entry := range entries {
		if entry.Locale == parent.Locale {
			out = append(out, entry)
		}
	}
	return out, nil
}

// AllIngredientTags lists the distinct ingredient tags of every recipe.
//
// With a locale only recipes in that locale are scanned. Without one, each
// locale of the set is scanned on its own and the lists are concatenated.
// Duplicates collapse within a locale only; the same text in two locales
// yields two tags. Order follows the repository scan.
func (r *Resolver) AllIngredientTags(ctx context.Context, code *string) ([]Tag, error) {
	if code != nil {
		return r.ingredientTagsFor(ctx, *code)
	}

	var out []Tag
	for _, current := range r.codec.Locales() {
		tags, err := r.ingredientTagsFor(ctx, current)
		if err != nil {
			return nil, err
		}
		out = append(out, tags...)
	}
	return out, nil
}

func (r *Resolver) ingredientTagsFor(ctx context.Context, code string) ([]Tag, error) {
	recipes, err := r.query.FindAll(ctx, content.TypeRecipe, content.Filter{Locale: code})
	if err != nil {
		return nil, fmt.Errorf("resolvers: recipes for %s: %w", code, err)
	}

	seen := map[string]struct{}{}
	out := []Tag{}
	for _, recipe := range recipes {
		if recipe.Locale != code {
			continue
		}
		for _, raw := range recipe.Tags {
			if _, ok := seen[raw]; ok {
				continue
			}
			tag, err := IngredientTag(raw, code)
			if err != nil {
				return nil, fmt.Errorf("recipe %s: %w", recipe.ID, err)
			}
			seen[raw] = struct{}{}
			out = append(out, tag)
		}
	}

	r.logger.Debug("resolvers.ingredient_tags.collected", "locale", code, "recipes", len(recipes), "tags", len(out))
	return out, nil
}

// RecordTags lists the first-class tag records of every kind, optionally
// narrowed to one locale, as tags.
func (r *Resolver) RecordTags(ctx context.Context, code *string) ([]Tag, error) {
	filter := content.Filter{}
	if code != nil {
		filter.Locale = *code
	}

	var out []Tag
	for _, contentType := range []string{
		content.TypeRecipeCourseTag,
		content.TypeRecipeSpecialConsiderationTag,
		content.TypeRecipeSeasonTag,
	} {
		nodes, err := r.query.FindAll(ctx, contentType, filter)
		if err != nil {
			return nil, fmt.Errorf("resolvers: %s: %w", contentType, err)
		}
		for _, node := range nodes {
			tag, err := TagFromRecord(node)
			if err != nil {
				return nil, err
			}
			out = append(out, tag)
		}
	}
	return out, nil
}

// AllTags is RecordTags followed by AllIngredientTags.
func (r *Resolver) AllTags(ctx context.Context, code *string) ([]Tag, error) {
	records, err := r.RecordTags(ctx, code)
	if err != nil {
		return nil, err
	}
	ingredients, err := r.AllIngredientTags(ctx, code)
	if err != nil {
		return nil, err
	}
	return append(records, ingredients...), nil
}
