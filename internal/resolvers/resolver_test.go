package resolvers

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/locale"
)

// fakeQuery serves fixed nodes and records the filters it saw.
type fakeQuery struct {
	mu      sync.Mutex
	nodes   []*content.Node
	filters []content.Filter
	err     error
}

func (f *fakeQuery) FindAll(_ context.Context, contentType string, filter content.Filter) ([]*content.Node, error) {
	f.mu.Lock()
	f.filters = append(f.filters, filter)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*content.Node
	for _, node := range f.nodes {
		if node.Type != contentType {
			continue
		}
		if filter.Locale != "" && node.Locale != filter.Locale {
			continue
		}
		out = append(out, node)
	}
	return out, nil
}

func (f *fakeQuery) GetNodeByID(_ context.Context, id string, contentType string) (*content.Node, error) {
	for _, node := range f.nodes {
		if node.ID == id && node.Type == contentType {
			return node, nil
		}
	}
	return nil, &content.NotFoundError{Resource: contentType, Key: id}
}

func strPtr(v string) *string { return &v }

func newResolver(nodes ...*content.Node) (*Resolver, *fakeQuery) {
	query := &fakeQuery{nodes: nodes}
	return New(query, locale.MustNew("en", "es"), nil), query
}

func TestIngredientTagSynthesis(t *testing.T) {
	tags, err := IngredientTags(&content.Node{ID: "r1", Locale: "en", Tags: []string{"tomato"}})
	if err != nil {
		t.Fatalf("IngredientTags: %v", err)
	}
	want := Tag{ID: "tomato", Title: "Tomato", Kind: TagKindIngredient, Locale: "en"}
	if len(tags) != 1 || tags[0] != want {
		t.Fatalf("got %+v want %+v", tags, want)
	}
	if !tags[0].Kind.Synthesized() {
		t.Fatalf("ingredient tags are synthesized")
	}
}

func TestCapitalize(t *testing.T) {
	cases := map[string]string{
		"tomato":    "Tomato",
		"Egg":       "Egg",
		"ñame":      "Ñame",
		"olive oil": "Olive oil",
		"2 eggs":    "2 eggs",
		"sUGAR":     "SUGAR",
	}
	for in, want := range cases {
		got, err := Capitalize(in)
		if err != nil {
			t.Fatalf("Capitalize(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("Capitalize(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := Capitalize(""); !errors.Is(err, ErrEmptyTag) {
		t.Fatalf("expected ErrEmptyTag, got %v", err)
	}
}

func TestIngredientTagsRejectsEmptyStrings(t *testing.T) {
	_, err := IngredientTags(&content.Node{ID: "r1", Locale: "en", Tags: []string{"egg", ""}})
	if !errors.Is(err, ErrEmptyTag) {
		t.Fatalf("expected ErrEmptyTag, got %v", err)
	}
}

func TestKindOfIsConstant(t *testing.T) {
	cases := map[string]TagKind{
		content.TypeRecipeCourseTag:               TagKindCourse,
		content.TypeRecipeSpecialConsiderationTag: TagKindSpecialConsideration,
		content.TypeRecipeSeasonTag:               TagKindSeason,
	}
	for contentType, want := range cases {
		for _, node := range []*content.Node{
			{ID: "a", Type: contentType},
			{ID: "b", Type: contentType, Payload: map[string]any{"kind": "season", "title": "Other"}},
		} {
			tag, err := TagFromRecord(node)
			if err != nil {
				t.Fatalf("TagFromRecord(%s): %v", contentType, err)
			}
			if tag.Kind != want {
				t.Fatalf("kind for %s = %q, want %q", contentType, tag.Kind, want)
			}
		}
		if kind, ok := KindOf(contentType); !ok || kind != want {
			t.Fatalf("KindOf(%s) = %q, %v", contentType, kind, ok)
		}
	}

	if _, ok := KindOf(content.TypeRecipe); ok {
		t.Fatalf("recipes carry no tag kind")
	}
	if _, err := TagFromRecord(&content.Node{ID: "r", Type: content.TypeRecipe}); !errors.Is(err, ErrNotATag) {
		t.Fatalf("expected ErrNotATag, got %v", err)
	}
}

func TestAllIngredientTags(t *testing.T) {
	resolver, _ := newResolver(
		&content.Node{ID: "r1", Type: content.TypeRecipe, Locale: "en", Tags: []string{"egg", "egg"}},
		&content.Node{ID: "r2", Type: content.TypeRecipe, Locale: "es", Tags: []string{"egg"}},
	)

	t.Run("without locale keeps cross-locale duplicates", func(t *testing.T) {
		tags, err := resolver.AllIngredientTags(context.Background(), nil)
		if err != nil {
			t.Fatalf("AllIngredientTags: %v", err)
		}
		if len(tags) != 2 {
			t.Fatalf("expected 2 tags, got %+v", tags)
		}
		if tags[0].Locale != "en" || tags[1].Locale != "es" || tags[0].ID != "egg" || tags[1].ID != "egg" {
			t.Fatalf("unexpected tags %+v", tags)
		}
	})

	t.Run("with locale", func(t *testing.T) {
		tags, err := resolver.AllIngredientTags(context.Background(), strPtr("en"))
		if err != nil {
			t.Fatalf("AllIngredientTags: %v", err)
		}
		if len(tags) != 1 || tags[0].ID != "egg" || tags[0].Locale != "en" {
			t.Fatalf("expected exactly one egg tag, got %+v", tags)
		}
	})
}

func TestAllIngredientTagsPreservesScanOrder(t *testing.T) {
	resolver, _ := newResolver(
		&content.Node{ID: "r1", Type: content.TypeRecipe, Locale: "en", Tags: []string{"milk", "Egg"}},
		&content.Node{ID: "r2", Type: content.TypeRecipe, Locale: "en", Tags: []string{"egg", "milk", "flour"}},
	)

	tags, err := resolver.AllIngredientTags(context.Background(), strPtr("en"))
	if err != nil {
		t.Fatalf("AllIngredientTags: %v", err)
	}
	want := []string{"milk", "Egg", "egg", "flour"}
	if len(tags) != len(want) {
		t.Fatalf("got %+v", tags)
	}
	for i, id := range want {
		if tags[i].ID != id {
			t.Fatalf("tag %d = %q, want %q", i, tags[i].ID, id)
		}
	}
}

func TestAllIngredientTagsPropagatesQueryErrors(t *testing.T) {
	query := &fakeQuery{err: errors.New("offline")}
	resolver := New(query, locale.MustNew("en", "es"), nil)
	if _, err := resolver.AllIngredientTags(context.Background(), nil); err == nil {
		t.Fatalf("expected query failure to surface")
	}
}

func TestScaleWhitelists(t *testing.T) {
	resolver, query := newResolver(
		&content.Node{ID: "r1-es", Type: content.TypeRecipe, Locale: "es"},
		&content.Node{ID: "w-en", Type: content.TypeScaleWhitelist, Locale: "en"},
		&content.Node{ID: "w-es-1", Type: content.TypeScaleWhitelist, Locale: "es"},
		&content.Node{ID: "w-es-2", Type: content.TypeScaleWhitelist, Locale: "es"},
	)

	text := &content.Node{ID: "ing-1", Type: content.TypeRecipeIngredientsText, Parent: "r1-es"}
	entries, err := resolver.ScaleWhitelists(context.Background(), text)
	if err != nil {
		t.Fatalf("ScaleWhitelists: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "w-es-1" || entries[1].ID != "w-es-2" {
		t.Fatalf("unexpected entries %+v", entries)
	}
	if len(query.filters) != 1 || query.filters[0].Locale != "es" {
		t.Fatalf("expected one locale scoped scan, got %+v", query.filters)
	}
}

func TestScaleWhitelistsWithoutParent(t *testing.T) {
	resolver, _ := newResolver()

	if _, err := resolver.ScaleWhitelists(context.Background(), &content.Node{ID: "ing"}); !errors.Is(err, ErrParentRequired) {
		t.Fatalf("expected ErrParentRequired, got %v", err)
	}
	_, err := resolver.ScaleWhitelists(context.Background(), &content.Node{ID: "ing", Parent: "missing"})
	if !errors.Is(err, content.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAllTagsCombinesKinds(t *testing.T) {
	resolver, _ := newResolver(
		&content.Node{ID: "c1", Type: content.TypeRecipeCourseTag, Locale: "en", Payload: map[string]any{"title": "Dessert"}},
		&content.Node{ID: "s1", Type: content.TypeRecipeSeasonTag, Locale: "en", Payload: map[string]any{"title": "Winter"}},
		&content.Node{ID: "c2", Type: content.TypeRecipeCourseTag, Locale: "es", Payload: map[string]any{"title": "Postre"}},
		&content.Node{ID: "r1", Type: content.TypeRecipe, Locale: "en", Tags: []string{"egg"}},
	)

	tags, err := resolver.AllTags(context.Background(), strPtr("en"))
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	kinds := []TagKind{TagKindCourse, TagKindSeason, TagKindIngredient}
	if len(tags) != len(kinds) {
		t.Fatalf("got %+v", tags)
	}
	for i, kind := range kinds {
		if tags[i].Kind != kind {
			t.Fatalf("tag %d kind %q, want %q", i, tags[i].Kind, kind)
		}
	}
	if tags[0].Title != "Dessert" {
		t.Fatalf("expected record title, got %q", tags[0].Title)
	}
}

func TestResolverConcurrentUse(t *testing.T) {
	resolver, _ := newResolver(
		&content.Node{ID: "r1", Type: content.TypeRecipe, Locale: "en", Tags: []string{"egg", "milk"}},
		&content.Node{ID: "r2", Type: content.TypeRecipe, Locale: "es", Tags: []string{"huevo"}},
	)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tags, err := resolver.AllIngredientTags(context.Background(), nil)
			if err == nil && len(tags) != 3 {
				err = errors.New("unexpected tag count")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent AllIngredientTags: %v", err)
		}
	}
}
