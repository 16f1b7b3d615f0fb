package site

import (
	"testing"

	"github.com/goliatone/go-sitegen/internal/content"
)

func siteNodes() []*content.Node {
	return []*content.Node{
		{ID: "t-en", Type: content.TypeTranslations, Locale: "en", Payload: map[string]any{"for": "Application", "search": map[string]any{"slug": "search"}}},
		{ID: "t-es", Type: content.TypeTranslations, Locale: "es", Payload: map[string]any{"for": "Application", "search": map[string]any{"slug": "buscar"}}},
		{ID: "r1-en", GroupKey: "r1", Type: content.TypeRecipe, Locale: "en", Slug: "cake"},
		{ID: "r1-es", GroupKey: "r1", Type: content.TypeRecipe, Locale: "es", Slug: "pastel"},
		{ID: "p1-en", GroupKey: "p1", Type: content.TypePage, Locale: "en", Slug: "about"},
		{ID: "p1-es", GroupKey: "p1", Type: content.TypePage, Locale: "es", Slug: "acerca"},
		{ID: "c1-en", GroupKey: "c1", Type: content.TypeRecipeCourseTag, Locale: "en", Slug: "desserts"},
		{ID: "c1-es", GroupKey: "c1", Type: content.TypeRecipeCourseTag, Locale: "es", Slug: "postres"},
	}
}

func newSiteRepository(t *testing.T, nodes ...*content.Node) *content.MemoryRepository {
	t.Helper()
	repo, err := content.NewMemoryRepository(nodes...)
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}
	return repo
}
