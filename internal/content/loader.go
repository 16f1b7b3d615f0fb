package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/validation"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// ErrUnknownContentType reports a content directory that maps to no known type.
var ErrUnknownContentType = errors.New("content: unknown content type")

// ErrReservedSlug reports a page-producing record whose slug would take the
// place of the not-found page.
var ErrReservedSlug = errors.New("content: slug is reserved")

const notFoundSlug = "404"

// generatedIDNamespace seeds ids for files that omit one.
var generatedIDNamespace = uuid.MustParse("0c6f8d52-98f5-4a6b-a3c9-7d1e5b2f4e60")

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	DefaultLocale string
	Locales       []string
	Markdown      markdown.ParseOptions
	Logger        interfaces.Logger
}

// Loader reads a content directory into nodes.
type Loader struct {
	docs      *markdown.Loader
	parser    *markdown.GoldmarkParser
	validator *validation.Validator
	logger    interfaces.Logger
}

// NewLoader compiles the embedded payload schemas and prepares the loader.
func NewLoader(fsys fs.FS, opts LoaderOptions) (*Loader, error) {
	validator, err := validation.NewValidator(embeddedSchemas())
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Loader{
		docs: markdown.NewLoader(fsys, markdown.LoaderConfig{
			DefaultLocale: opts.DefaultLocale,
			Locales:       opts.Locales,
		}),
		parser:    markdown.NewGoldmarkParser(opts.Markdown),
		validator: validator,
		logger:    logger,
	}, nil
}

// Load parses every document and converts it into a node. The first invalid
// document aborts the load.
func (l *Loader) Load(ctx context.Context) ([]*Node, error) {
	docs, err := l.docs.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]*Node, 0, len(docs))
	for _, doc := range docs {
		node, err := l.nodeFromDocument(doc)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	l.logger.Debug("content.loader.loaded", "documents", len(docs))
	return nodes, nil
}

// LoadInto loads the tree and appends it to repo.
func (l *Loader) LoadInto(ctx context.Context, repo *MemoryRepository) error {
	nodes, err := l.Load(ctx)
	if err != nil {
		return err
	}
	return repo.Add(nodes...)
}

func (l *Loader) nodeFromDocument(doc *markdown.Document) (*Node, error) {
	if !slices.Contains(KnownTypes(), doc.Type) {
		return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownContentType, doc.Type, doc.FilePath)
	}

	fm := doc.FrontMatter
	payload := make(map[string]any, len(fm.Custom)+2)
	for key, value := range fm.Custom {
		payload[key] = value
	}
	if fm.Title != "" {
		payload["title"] = fm.Title
	}
	if strings.TrimSpace(string(doc.Body)) != "" {
		html, err := l.parser.Parse(doc.Body)
		if err != nil {
			return nil, fmt.Errorf("content: render %s: %w", doc.FilePath, err)
		}
		payload["body_html"] = string(html)
	}

	if err := l.validator.Validate(doc.Type, payload); err != nil {
		return nil, fmt.Errorf("content: %s: %w", doc.FilePath, err)
	}

	nodeSlug := strings.TrimSpace(fm.Slug)
	if nodeSlug == "" && fm.Title != "" {
		normalized, err := slug.Normalize(fm.Title)
		if err != nil {
			return nil, fmt.Errorf("content: slug for %s: %w", doc.FilePath, err)
		}
		nodeSlug = normalized
	}
	if producesPage(doc.Type) && strings.Trim(nodeSlug, "/") == notFoundSlug {
		return nil, fmt.Errorf("%w: %q (%s)", ErrReservedSlug, nodeSlug, doc.FilePath)
	}

	id := strings.TrimSpace(fm.ID)
	if id == "" {
		seed := doc.Type + "/" + doc.Name + "." + doc.Locale
		id = uuid.NewSHA1(generatedIDNamespace, []byte(seed)).String()
	}

	group := strings.TrimSpace(fm.Group)
	if group == "" {
		group = doc.Name
	}

	return &Node{
		ID:       id,
		GroupKey: group,
		Type:     doc.Type,
		Locale:   doc.Locale,
		Slug:     nodeSlug,
		Parent:   strings.TrimSpace(fm.Parent),
		Tags:     fm.Tags,
		Payload:  payload,
	}, nil
}

func producesPage(contentType string) bool {
	switch contentType {
	case TypeRecipe, TypePage, TypeRecipeCourseTag:
		return true
	}
	return false
}

func embeddedSchemas() map[string][]byte {
	entries, err := fs.ReadDir(schemaFS, "schemas")
	if err != nil {
		return nil
	}
	out := make(map[string][]byte, len(entries))
	for _, entry := range entries {
		data, err := fs.ReadFile(schemaFS, path.Join("schemas", entry.Name()))
		if err != nil {
			continue
		}
		out[strings.TrimSuffix(entry.Name(), ".json")] = data
	}
	return out
}
