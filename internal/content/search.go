package content

import (
	"context"
	"fmt"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// ApplicationTranslations marks the translations record that carries
// site-wide strings.
const ApplicationTranslations = "Application"

// SearchSlugs returns the translated search slug per locale, read from the
// application translations records.
func SearchSlugs(ctx context.Context, query interfaces.ContentQuery) (map[string]string, error) {
	nodes, err := query.FindAll(ctx, TypeTranslations, Filter{})
	if err != nil {
		return nil, fmt.Errorf("content: search slugs: %w", err)
	}

	out := map[string]string{}
	for _, node := range nodes {
		if target, _ := node.Payload["for"].(string); target != ApplicationTranslations {
			continue
		}
		search, _ := node.Payload["search"].(map[string]any)
		value, _ := search["slug"].(string)
		if value == "" {
			continue
		}
		out[node.Locale] = value
	}
	return out, nil
}
