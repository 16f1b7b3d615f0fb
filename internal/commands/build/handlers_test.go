package buildcmd

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-sitegen/internal/pageplan"
	"github.com/goliatone/go-sitegen/internal/resolvers"
	"github.com/goliatone/go-sitegen/internal/site"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

func TestBuildSiteHandler_Execute_Build(t *testing.T) {
	cmd := loadBuildFixture(t, "build_basic.json")

	builder := &fakeBuilder{result: &site.BuildResult{Pages: []interfaces.Page{{Path: "/"}, {Path: "/es/"}}}}
	writer := &fakeWriter{artifacts: []string{"pages.json", "_redirects"}}
	publisher := &fakePublisher{}
	var requestedDir string

	handler := NewBuildSiteHandler(BuildDependencies{
		Builder: builder,
		Writers: func(dir string) (ArtifactWriter, error) {
			requestedDir = dir
			return writer, nil
		},
		Publisher: publisher,
	}, nil)

	callbackInvoked := false
	cmd.ResultCallback = func(env ResultEnvelope) {
		callbackInvoked = true
		if env.Result == nil || len(env.Result.Pages) != 2 {
			t.Fatalf("expected build result, got %#v", env.Result)
		}
		if len(env.Artifacts) != 2 {
			t.Fatalf("expected artifacts, got %v", env.Artifacts)
		}
		if env.Metadata["published"] != true {
			t.Fatalf("expected published metadata, got %v", env.Metadata)
		}
	}

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if requestedDir != "public" {
		t.Fatalf("expected output dir public, got %q", requestedDir)
	}
	if writer.calls != 1 || publisher.calls != 1 {
		t.Fatalf("expected one write and one publish, got %d %d", writer.calls, publisher.calls)
	}
	if !callbackInvoked {
		t.Fatal("expected callback to be invoked")
	}
}

func TestBuildSiteHandler_Execute_DryRunSkipsWriter(t *testing.T) {
	cmd := loadBuildFixture(t, "build_dry_run.json")

	writerOpened := false
	handler := NewBuildSiteHandler(BuildDependencies{
		Builder: &fakeBuilder{result: &site.BuildResult{}},
		Writers: func(string) (ArtifactWriter, error) {
			writerOpened = true
			return &fakeWriter{}, nil
		},
	}, nil)

	var envelope ResultEnvelope
	cmd.ResultCallback = func(env ResultEnvelope) { envelope = env }

	if err := handler.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("execute dry run: %v", err)
	}
	if writerOpened {
		t.Fatal("expected dry run not to open a writer")
	}
	if envelope.Result == nil || envelope.Metadata["dry_run"] != true {
		t.Fatalf("unexpected envelope %+v", envelope)
	}
}

func TestBuildSiteHandler_Execute_MissingTranslationIsValidationFault(t *testing.T) {
	buildErr := &pageplan.MissingTranslationError{GroupKey: "r1", Locale: "es"}
	writer := &fakeWriter{}
	handler := NewBuildSiteHandler(BuildDependencies{
		Builder: &fakeBuilder{err: buildErr},
		Writers: func(string) (ArtifactWriter, error) { return writer, nil },
	}, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if writer.calls != 0 {
		t.Fatal("expected no output after a failed build")
	}
}

func TestBuildSiteHandler_Execute_RequiresBuilder(t *testing.T) {
	handler := NewBuildSiteHandler(BuildDependencies{}, nil)

	err := handler.Execute(context.Background(), BuildSiteCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestBuildSiteHandler_Execute_WriterFailure(t *testing.T) {
	handler := NewBuildSiteHandler(BuildDependencies{
		Builder: &fakeBuilder{result: &site.BuildResult{}},
		Writers: func(string) (ArtifactWriter, error) { return nil, errors.New("disk full") },
	}, nil)

	if err := handler.Execute(context.Background(), BuildSiteCommand{}); err == nil {
		t.Fatal("expected writer failure")
	}
}

func TestBuildSiteCommandValidate(t *testing.T) {
	cmd := loadBuildFixture(t, "build_invalid_output.json")
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for parent output dir")
	}

	blank := BuildSiteCommand{OutputDir: "  "}
	if err := blank.Validate(); err == nil {
		t.Fatal("expected validation error for blank output dir")
	}

	if err := (BuildSiteCommand{OutputDir: "dist/site"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
}

func TestResolveTagsHandler_Execute(t *testing.T) {
	es := "es"
	resolver := &fakeResolver{tags: []resolvers.Tag{{Locale: "es", ID: "huevo", Title: "Huevo", Kind: resolvers.TagKindIngredient}}}
	handler := NewResolveTagsHandler(resolver, nil)

	var got []resolvers.Tag
	err := handler.Execute(context.Background(), ResolveTagsCommand{
		Locale:         &es,
		ResultCallback: func(tags []resolvers.Tag) { got = tags },
	})
	if err != nil {
		t.Fatalf("execute tags: %v", err)
	}
	if resolver.locale == nil || *resolver.locale != "es" {
		t.Fatalf("expected locale to be forwarded, got %v", resolver.locale)
	}
	if len(got) != 1 || got[0].Title != "Huevo" {
		t.Fatalf("unexpected tags %+v", got)
	}
}

func TestResolveTagsHandler_Execute_EmptyTag(t *testing.T) {
	handler := NewResolveTagsHandler(&fakeResolver{err: resolvers.ErrEmptyTag}, nil)

	err := handler.Execute(context.Background(), ResolveTagsCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestResolveTagsCommandValidate(t *testing.T) {
	var cmd ResolveTagsCommand
	loadFixture(t, "tags_invalid_locale.json", &cmd)
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected validation error for uppercase locale")
	}
	if err := (ResolveTagsCommand{}).Validate(); err != nil {
		t.Fatalf("expected nil locale to be valid, got %v", err)
	}
}

func loadBuildFixture(t *testing.T, name string) BuildSiteCommand {
	t.Helper()
	var cmd BuildSiteCommand
	loadFixture(t, name, &cmd)
	return cmd
}

func loadFixture(t *testing.T, name string, target any) {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture %s: %v", name, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		t.Fatalf("unmarshal fixture %s: %v", name, err)
	}
}

type fakeBuilder struct {
	result *site.BuildResult
	err    error
}

func (f *fakeBuilder) Build(context.Context) (*site.BuildResult, error) {
	return f.result, f.err
}

type fakeWriter struct {
	artifacts []string
	calls     int
}

func (f *fakeWriter) Write(context.Context, *site.BuildResult) ([]string, error) {
	f.calls++
	return f.artifacts, nil
}

type fakePublisher struct {
	calls int
}

func (f *fakePublisher) Publish(context.Context, *site.BuildResult, []string) error {
	f.calls++
	return nil
}

type fakeResolver struct {
	tags   []resolvers.Tag
	err    error
	locale *string
}

func (f *fakeResolver) AllIngredientTags(_ context.Context, locale *string) ([]resolvers.Tag, error) {
	f.locale = locale
	return f.tags, f.err
}
