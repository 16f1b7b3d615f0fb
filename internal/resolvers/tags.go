package resolvers

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/goliatone/go-sitegen/internal/content"
)

var (
	// ErrEmptyTag is returned when an empty tag string reaches Capitalize.
	ErrEmptyTag = errors.New("resolvers: empty tag")
	// ErrNotATag reports a record whose type carries no tag kind.
	ErrNotATag = errors.New("resolvers: record is not a tag")
)

// TagKind discriminates the four tag variants. All variants share the Tag
// field set.
type TagKind string

const (
	TagKindCourse               TagKind = "course"
	TagKindSpecialConsideration TagKind = "specialConsideration"
	TagKindSeason               TagKind = "season"
	TagKindIngredient           TagKind = "ingredient"
)

// Synthesized reports whether tags of this kind have no backing record.
func (k TagKind) Synthesized() bool {
	return k == TagKindIngredient
}

// Tag is the common view over first-class tag records and synthesized
// ingredient tags.
type Tag struct {
	Locale string  `json:"locale"`
	Title  string  `json:"title"`
	ID     string  `json:"id"`
	Kind   TagKind `json:"kind"`
}

var recordKinds = map[string]TagKind{
	content.TypeRecipeCourseTag:               TagKindCourse,
	content.TypeRecipeSpecialConsiderationTag: TagKindSpecialConsideration,
	content.TypeRecipeSeasonTag:               TagKindSeason,
}

// KindOf returns the constant kind for a first-class tag content type. It
// never looks at record contents.
func KindOf(contentType string) (TagKind, bool) {
	kind, ok := recordKinds[contentType]
	return kind, ok
}

// TagFromRecord converts a first-class tag record.
func TagFromRecord(node *content.Node) (Tag, error) {
	if node == nil {
		return Tag{}, ErrNotATag
	}
	kind, ok := KindOf(node.Type)
	if !ok {
		return Tag{}, fmt.Errorf("%w: %s (%s)", ErrNotATag, node.ID, node.Type)
	}
	return Tag{
		Locale: node.Locale,
		Title:  content.Title(node),
		ID:     node.ID,
		Kind:   kind,
	}, nil
}

// Capitalize upper-cases the first character and leaves the rest untouched.
func Capitalize(raw string) (string, error) {
	if raw == "" {
		return "", ErrEmptyTag
	}
	first, size := utf8.DecodeRuneInString(raw)
	return string(unicode.ToUpper(first)) + raw[size:], nil
}

// IngredientTag synthesizes the tag for one raw ingredient string.
func IngredientTag(raw, locale string) (Tag, error) {
	title, err := Capitalize(raw)
	if err != nil {
		return Tag{}, err
	}
	return Tag{
		Locale: locale,
		Title:  title,
		ID:     raw,
		Kind:   TagKindIngredient,
	}, nil
}

// IngredientTags synthesizes one tag per raw string on recipe, in order.
func IngredientTags(recipe *content.Node) ([]Tag, error) {
	if recipe == nil {
		return nil, nil
	}
	tags := make([]Tag, 0, len(recipe.Tags))
	for _, raw := range recipe.Tags {
		tag, err := IngredientTag(raw, recipe.Locale)
		if err != nil {
			return nil, fmt.Errorf("recipe %s: %w", recipe.ID, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
