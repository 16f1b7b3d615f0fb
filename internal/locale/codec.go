// Package locale encodes and decodes locale-qualified site paths. The default
// locale is unprefixed; every other locale owns a two-letter leading segment.
package locale

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

var (
	// ErrDefaultLocaleRequired indicates the codec was built without a default locale.
	ErrDefaultLocaleRequired = errors.New("locale: default locale is required")
	// ErrInvalidCode indicates a locale code is not a two-letter lowercase language code.
	ErrInvalidCode = errors.New("locale: invalid locale code")
	// ErrDuplicateCode indicates a locale code was declared twice.
	ErrDuplicateCode = errors.New("locale: duplicate locale code")
)

// Codec holds the fixed, ordered locale set. It is immutable once built and
// safe for concurrent use.
type Codec struct {
	defaultLocale string
	alternates    []string
	all           []string
}

// New builds a codec from the default locale and the ordered alternates.
func New(defaultLocale string, alternates ...string) (*Codec, error) {
	defaultLocale = strings.TrimSpace(defaultLocale)
	if defaultLocale == "" {
		return nil, ErrDefaultLocaleRequired
	}

	all := make([]string, 0, len(alternates)+1)
	for _, code := range append([]string{defaultLocale}, alternates...) {
		code = strings.TrimSpace(code)
		if err := validateCode(code); err != nil {
			return nil, err
		}
		if slices.Contains(all, code) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, code)
		}
		all = append(all, code)
	}

	return &Codec{
		defaultLocale: all[0],
		alternates:    slices.Clone(all[1:]),
		all:           all,
	}, nil
}

// MustNew is New for static configuration; it panics on error.
func MustNew(defaultLocale string, alternates ...string) *Codec {
	codec, err := New(defaultLocale, alternates...)
	if err != nil {
		panic(err)
	}
	return codec
}

func validateCode(code string) error {
	if len(code) != 2 || strings.ToLower(code) != code {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	base, err := language.ParseBase(code)
	if err != nil || base.String() != code {
		return fmt.Errorf("%w: %q", ErrInvalidCode, code)
	}
	return nil
}

// Locales returns the ordered locale set, default first.
func (c *Codec) Locales() []string {
	return slices.Clone(c.all)
}

// Default returns the unprefixed locale.
func (c *Codec) Default() string {
	return c.defaultLocale
}

// Alternates returns every non-default locale in declaration order.
func (c *Codec) Alternates() []string {
	return slices.Clone(c.alternates)
}

// IsDefault reports whether locale is the default locale.
func (c *Codec) IsDefault(locale string) bool {
	return locale == c.defaultLocale
}

// Supports reports whether locale belongs to the locale set.
func (c *Codec) Supports(locale string) bool {
	return slices.Contains(c.all, locale)
}

// Others returns every locale of the set except the given one, in order.
func (c *Codec) Others(locale string) []string {
	out := make([]string, 0, len(c.all))
	for _, code := range c.all {
		if code != locale {
			out = append(out, code)
		}
	}
	return out
}

// Encode localizes an unprefixed path. The default locale leaves the path
// untouched; any other locale is prefixed with /{locale}. The result always
// starts and ends with a slash.
func (c *Codec) Encode(path, locale string) string {
	clean := normalizePath(path)
	if c.IsDefault(locale) {
		return clean
	}
	return "/" + locale + clean
}

// EncodeFromSlug localizes the path derived from a content slug.
func (c *Codec) EncodeFromSlug(slug, locale string) string {
	return c.Encode("/"+strings.TrimSpace(slug)+"/", locale)
}

// DecodeLocale returns the locale owning pathname. Paths without a known
// non-default leading segment belong to the default locale.
func (c *Codec) DecodeLocale(pathname string) string {
	segment := leadingSegment(pathname)
	if segment != "" && !c.IsDefault(segment) && c.Supports(segment) {
		return segment
	}
	return c.defaultLocale
}

// Link is one entry of a language switcher.
type Link struct {
	Locale string
	Path   string
	Active bool
}

// SwitcherLinks lists one link per locale: the current locale points at path,
// every other locale at its alternate path. Locales without an alternate path
// are skipped.
func (c *Codec) SwitcherLinks(current, path string, alternatePaths map[string]string) []Link {
	links := make([]Link, 0, len(c.all))
	for _, code := range c.all {
		if code == current {
			links = append(links, Link{Locale: code, Path: path, Active: true})
			continue
		}
		target, ok := alternatePaths[code]
		if !ok || target == "" {
			continue
		}
		links = append(links, Link{Locale: code, Path: target})
	}
	return links
}

func normalizePath(path string) string {
	clean := strings.Trim(strings.TrimSpace(path), "/")
	if clean == "" {
		return "/"
	}
	return "/" + clean + "/"
}

func leadingSegment(pathname string) string {
	trimmed := strings.TrimLeft(strings.TrimSpace(pathname), "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}
