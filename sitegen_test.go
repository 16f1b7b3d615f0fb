package sitegen_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
	"gocloud.dev/blob/memblob"
)

func recipeSite() fstest.MapFS {
	return fstest.MapFS{
		"translations/application.md":    {Data: []byte("---\nfor: Application\nsearch:\n  slug: search\n---\n")},
		"translations/application.es.md": {Data: []byte("---\nfor: Application\nsearch:\n  slug: buscar\n---\n")},
		"recipe/cake.md":                 {Data: []byte("---\ngroup: cake\ntitle: Chocolate Cake\ntags: [egg]\n---\n")},
		"recipe/cake.es.md":              {Data: []byte("---\ngroup: cake\ntitle: Pastel de Chocolate\ntags: [huevo]\n---\n")},
	}
}

func newModule(t *testing.T, fsys fstest.MapFS, opts ...di.Option) *sitegen.Module {
	t.Helper()
	cfg := sitegen.DefaultConfig()
	cfg.Logging.Level = "error"
	module, err := sitegen.New(cfg, append([]di.Option{di.WithContentFS(fsys)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { module.Close(context.Background()) })
	return module
}

func TestModuleBuildPlansLocalizedPages(t *testing.T) {
	module := newModule(t, recipeSite())

	result, err := module.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	byPath := map[string]sitegen.Page{}
	for _, page := range result.Pages {
		byPath[page.Path] = page
	}

	cake, ok := byPath["/chocolate-cake/"]
	if !ok {
		t.Fatalf("expected english recipe page, got %+v", result.Pages)
	}
	if cake.Context.AlternateLocalePath != "/es/pastel-de-chocolate/" {
		t.Fatalf("unexpected alternate path %q", cake.Context.AlternateLocalePath)
	}

	notFound, ok := byPath["/es/404/"]
	if !ok {
		t.Fatalf("expected localized 404 page")
	}
	if notFound.MatchPath != "/es/*" || !notFound.Context.OnNotFoundPage {
		t.Fatalf("expected localized not found rewrite, got %+v", notFound)
	}
	if result.PagesByKind[interfaces.PageKindRecipe] != 2 {
		t.Fatalf("expected 2 recipe pages, got %v", result.PagesByKind)
	}
}

func TestModuleBuildHandlerWritesArtifacts(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	defer bucket.Close()

	module := newModule(t, recipeSite(), di.WithBucket(bucket))
	handler, err := module.BuildHandler(ctx)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	if err := handler.Execute(ctx, sitegen.BuildSiteCommand{}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	data, err := bucket.ReadAll(ctx, "_redirects")
	if err != nil {
		t.Fatalf("read redirects: %v", err)
	}
	if !strings.Contains(string(data), "/es/* /es/404/ 404") {
		t.Fatalf("expected localized 404 rule, got %q", data)
	}
}

func TestModuleBuildHandlerReportsMissingTranslation(t *testing.T) {
	fsys := recipeSite()
	delete(fsys, "recipe/cake.es.md")
	module := newModule(t, fsys)

	handler, err := module.BuildHandler(context.Background())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	err = handler.Execute(context.Background(), sitegen.BuildSiteCommand{DryRun: true})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestModuleTagsHandler(t *testing.T) {
	module := newModule(t, recipeSite())
	handler, err := module.TagsHandler(context.Background())
	if err != nil {
		t.Fatalf("TagsHandler: %v", err)
	}

	var tags []sitegen.Tag
	es := "es"
	err = handler.Execute(context.Background(), sitegen.ResolveTagsCommand{
		Locale:         &es,
		ResultCallback: func(got []sitegen.Tag) { tags = got },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(tags) != 1 || tags[0].Title != "Huevo" || tags[0].Locale != "es" {
		t.Fatalf("unexpected tags %+v", tags)
	}
}

func TestModuleCountsCommandOutcomes(t *testing.T) {
	ctx := context.Background()
	cfg := sitegen.DefaultConfig()
	cfg.Logging.Level = "error"
	cfg.Metrics.Enabled = true
	cfg.Metrics.File = filepath.Join(t.TempDir(), "sitegen.prom")

	module, err := sitegen.New(cfg, di.WithContentFS(recipeSite()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer module.Close(ctx)

	handler, err := module.BuildHandler(ctx)
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	if err := handler.Execute(ctx, sitegen.BuildSiteCommand{DryRun: true}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if err := module.FlushMetrics(); err != nil {
		t.Fatalf("FlushMetrics: %v", err)
	}

	data, err := os.ReadFile(cfg.Metrics.File)
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}
	want := `sitegen_command_outcomes_total{operation="site.build",outcome="success"} 1`
	if !strings.Contains(string(data), want) {
		t.Fatalf("expected %q in metrics:\n%s", want, data)
	}
}
