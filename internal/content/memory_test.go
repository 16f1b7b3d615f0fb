package content

import (
	"context"
	"errors"
	"testing"
)

func recipeNode(id, group, locale, slug string, tags ...string) *Node {
	return &Node{
		ID:       id,
		GroupKey: group,
		Type:     TypeRecipe,
		Locale:   locale,
		Slug:     slug,
		Tags:     tags,
		Payload:  map[string]any{"title": slug},
	}
}

func TestMemoryRepositoryFindAllFiltersByTypeAndLocale(t *testing.T) {
	repo, err := NewMemoryRepository(
		recipeNode("r1-en", "r1", "en", "cake"),
		recipeNode("r1-es", "r1", "es", "pastel"),
		&Node{ID: "p1-en", GroupKey: "p1", Type: TypePage, Locale: "en", Slug: "about"},
		recipeNode("r2-en", "r2", "en", "bread"),
	)
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}

	all, err := repo.FindAll(context.Background(), TypeRecipe, Filter{})
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 recipes, got %d", len(all))
	}
	if all[0].ID != "r1-en" || all[2].ID != "r2-en" {
		t.Fatalf("expected insertion order, got %s..%s", all[0].ID, all[2].ID)
	}

	english, err := repo.FindAll(context.Background(), TypeRecipe, Filter{Locale: "en"})
	if err != nil {
		t.Fatalf("FindAll en: %v", err)
	}
	if len(english) != 2 {
		t.Fatalf("expected 2 english recipes, got %d", len(english))
	}
}

func TestMemoryRepositoryReturnsCopies(t *testing.T) {
	repo, err := NewMemoryRepository(recipeNode("r1-en", "r1", "en", "cake", "egg"))
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}

	node, err := repo.GetNodeByID(context.Background(), "r1-en", TypeRecipe)
	if err != nil {
		t.Fatalf("GetNodeByID: %v", err)
	}
	node.Tags[0] = "mutated"
	node.Payload["title"] = "mutated"

	again, err := repo.GetNodeByID(context.Background(), "r1-en", TypeRecipe)
	if err != nil {
		t.Fatalf("GetNodeByID: %v", err)
	}
	if again.Tags[0] != "egg" || again.Payload["title"] != "cake" {
		t.Fatalf("repository state leaked through returned node: %+v", again)
	}
}

func TestMemoryRepositoryGetNodeByIDMisses(t *testing.T) {
	repo, err := NewMemoryRepository(recipeNode("r1-en", "r1", "en", "cake"))
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}

	cases := []struct {
		name        string
		id          string
		contentType string
	}{
		{name: "unknown id", id: "missing", contentType: TypeRecipe},
		{name: "type mismatch", id: "r1-en", contentType: TypePage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := repo.GetNodeByID(context.Background(), tc.id, tc.contentType)
			if !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
			var notFound *NotFoundError
			if !errors.As(err, &notFound) || notFound.Key != tc.id {
				t.Fatalf("expected NotFoundError for %q, got %v", tc.id, err)
			}
		})
	}
}

func TestMemoryRepositoryAddRejectsInvalidNodes(t *testing.T) {
	repo, err := NewMemoryRepository(recipeNode("r1-en", "r1", "en", "cake"))
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}

	if err := repo.Add(recipeNode("r1-en", "r1", "en", "cake")); !errors.Is(err, ErrDuplicateNode) {
		t.Fatalf("expected ErrDuplicateNode, got %v", err)
	}
	if err := repo.Add(&Node{Type: TypeRecipe}); !errors.Is(err, ErrNodeIDRequired) {
		t.Fatalf("expected ErrNodeIDRequired, got %v", err)
	}
	if got := len(repo.All()); got != 1 {
		t.Fatalf("expected repository to keep 1 node, got %d", got)
	}
}

func TestMemoryRepositoryHonoursCancellation(t *testing.T) {
	repo, _ := NewMemoryRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := repo.FindAll(ctx, TypeRecipe, Filter{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
