package markdown

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"
)

// ErrUnexpectedLayout reports a Markdown file outside a content type directory.
var ErrUnexpectedLayout = errors.New("markdown loader: file must live under a content type directory")

// Document is one parsed content file. Files are laid out as
// <type>/<name>.<locale>.md; a file without a locale suffix belongs to the
// default locale.
type Document struct {
	FilePath    string
	Type        string
	Name        string
	Locale      string
	FrontMatter FrontMatter
	Body        []byte
	Checksum    []byte
}

// LoaderConfig configures document discovery.
type LoaderConfig struct {
	DefaultLocale string
	// Locales enumerates the codes recognised as file name suffixes.
	Locales []string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
}

// Loader turns a content tree into documents.
type Loader struct {
	fs            fs.FS
	defaultLocale string
	locales       []string
	pattern       string
}

// NewLoader constructs a Loader over filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	return &Loader{
		fs:            filesystem,
		defaultLocale: cfg.DefaultLocale,
		locales:       slices.Clone(cfg.Locales),
		pattern:       pattern,
	}
}

// LoadFile reads and parses a single document.
func (l *Loader) LoadFile(ctx context.Context, rel string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel = path.Clean(strings.TrimPrefix(rel, "/"))
	contentType, name, ok := strings.Cut(rel, "/")
	if !ok || contentType == "" || name == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnexpectedLayout, rel)
	}

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("markdown loader read %s: %w", rel, err)
	}

	fm, body, err := ParseFrontMatter(data)
	if err != nil {
		return nil, fmt.Errorf("markdown loader %s: %w", rel, err)
	}

	name, locale := l.splitLocale(strings.TrimSuffix(name, path.Ext(name)))
	sum := sha256.Sum256(data)

	return &Document{
		FilePath:    rel,
		Type:        contentType,
		Name:        name,
		Locale:      locale,
		FrontMatter: fm,
		Body:        body,
		Checksum:    sum[:],
	}, nil
}

// LoadAll walks the whole tree and returns documents sorted by file path.
// Files at the root are ignored.
func (l *Loader) LoadAll(ctx context.Context) ([]*Document, error) {
	var docs []*Document

	walkErr := fs.WalkDir(l.fs, ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !strings.Contains(p, "/") || !l.matchesPattern(p) {
			return nil
		}

		doc, err := l.LoadFile(ctx, p)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].FilePath < docs[j].FilePath
	})
	return docs, nil
}

func (l *Loader) matchesPattern(p string) bool {
	match, err := path.Match(l.pattern, path.Base(p))
	return err == nil && match
}

func (l *Loader) splitLocale(base string) (string, string) {
	idx := strings.LastIndex(base, ".")
	if idx > 0 {
		candidate := base[idx+1:]
		if slices.Contains(l.locales, candidate) {
			return base[:idx], candidate
		}
	}
	return base, l.defaultLocale
}
