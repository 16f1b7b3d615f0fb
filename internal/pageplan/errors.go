package pageplan

import (
	"errors"
	"fmt"
)

var (
	ErrMissingTranslation   = errors.New("pageplan: missing translation")
	ErrMissingPathEntry     = errors.New("pageplan: missing path entry")
	ErrUnsupportedLocale    = errors.New("pageplan: unsupported locale")
	ErrDuplicateTranslation = errors.New("pageplan: duplicate translation")
)

// MissingTranslationError names the (group, locale) pair with no sibling node.
type MissingTranslationError struct {
	GroupKey string
	Locale   string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("pageplan: group %q has no %q translation", e.GroupKey, e.Locale)
}

func (e *MissingTranslationError) Unwrap() error {
	return ErrMissingTranslation
}

// MissingPathEntryError names the locale absent from a path map.
type MissingPathEntryError struct {
	Locale string
}

func (e *MissingPathEntryError) Error() string {
	return fmt.Sprintf("pageplan: path map has no entry for locale %q", e.Locale)
}

func (e *MissingPathEntryError) Unwrap() error {
	return ErrMissingPathEntry
}
