package site

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const manifestVersion = 1

// WriterOptions names the artifacts a Writer produces. Empty names skip the
// artifact.
type WriterOptions struct {
	Manifest      string
	Redirects     string
	WriteStubs    bool
	DefaultLocale string
}

// DefaultWriterOptions returns the stock artifact names.
func DefaultWriterOptions(defaultLocale string) WriterOptions {
	return WriterOptions{
		Manifest:      "pages.json",
		Redirects:     "_redirects",
		DefaultLocale: defaultLocale,
	}
}

// Writer persists a build result into a blob bucket.
type Writer struct {
	bucket *blob.Bucket
	opts   WriterOptions
}

// OpenBucket opens dir as a file-backed bucket, creating it when missing.
func OpenBucket(dir string) (*blob.Bucket, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("site: output dir %s: %w", dir, err)
	}
	bucket, err := fileblob.OpenBucket(abs, &fileblob.Options{CreateDir: true})
	if err != nil {
		return nil, fmt.Errorf("site: open output dir %s: %w", abs, err)
	}
	return bucket, nil
}

// NewWriter creates a writer over bucket. The caller owns the bucket.
func NewWriter(bucket *blob.Bucket, opts WriterOptions) *Writer {
	return &Writer{bucket: bucket, opts: opts}
}

type manifestFile struct {
	Version     int                   `json:"version"`
	GeneratedAt time.Time             `json:"generated_at"`
	Pages       []interfaces.Page     `json:"pages"`
	Redirects   []interfaces.Redirect `json:"redirects"`
}

// Write stores the manifest, the redirect rules and, when enabled, one data
// stub per page. It returns the keys written.
func (w *Writer) Write(ctx context.Context, result *BuildResult) ([]string, error) {
	if result == nil {
		return nil, nil
	}
	var written []string

	if w.opts.Manifest != "" {
		data, err := json.MarshalIndent(manifestFile{
			Version:     manifestVersion,
			GeneratedAt: result.GeneratedAt,
			Pages:       result.Pages,
			Redirects:   result.Redirects,
		}, "", "  ")
		if err != nil {
			return written, fmt.Errorf("site: encode manifest: %w", err)
		}
		if err := w.write(ctx, w.opts.Manifest, data, "application/json"); err != nil {
			return written, err
		}
		written = append(written, w.opts.Manifest)
	}

	if w.opts.Redirects != "" {
		data := []byte(RedirectRules(result.Redirects, result.Pages))
		if err := w.write(ctx, w.opts.Redirects, data, "text/plain"); err != nil {
			return written, err
		}
		written = append(written, w.opts.Redirects)
	}

	if w.opts.WriteStubs {
		for _, page := range result.Pages {
			key := stubOutputPath(page.Path, page.Locale, w.opts.DefaultLocale)
			data, err := json.Marshal(page)
			if err != nil {
				return written, fmt.Errorf("site: encode %s: %w", page.Path, err)
			}
			if err := w.write(ctx, key, data, "application/json"); err != nil {
				return written, err
			}
			written = append(written, key)
		}
	}
	return written, nil
}

func (w *Writer) write(ctx context.Context, key string, data []byte, contentType string) error {
	err := w.bucket.WriteAll(ctx, key, data, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("site: write %s: %w", key, err)
	}
	return nil
}

// RedirectRules renders redirects and catch-all not-found routes in the
// Netlify _redirects format. Locale scoped catch-alls precede the default one.
func RedirectRules(redirects []interfaces.Redirect, pages []interfaces.Page) string {
	var b strings.Builder
	for _, redirect := range redirects {
		status := "302"
		if redirect.IsPermanent {
			status = "301"
		}
		if redirect.Force {
			status += "!"
		}
		fmt.Fprintf(&b, "%s %s %s\n", redirect.FromPath, redirect.ToPath, status)
	}

	var fallback *interfaces.Page
	for i, page := range pages {
		if !page.Context.OnNotFoundPage {
			continue
		}
		if page.MatchPath == "" {
			fallback = &pages[i]
			continue
		}
		fmt.Fprintf(&b, "%s %s 404\n", page.MatchPath, page.Path)
	}
	if fallback != nil {
		fmt.Fprintf(&b, "/* %s 404\n", fallback.Path)
	}
	return b.String()
}
