package content

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Node is one locale-specific record of the content graph.
type Node = interfaces.ContentNode

// Filter narrows FindAll scans.
type Filter = interfaces.ContentFilter

// Content types known to the site.
const (
	TypeRecipe                        = "recipe"
	TypePage                          = "page"
	TypeRecipeCourseTag               = "recipeCourseTag"
	TypeRecipeSpecialConsiderationTag = "recipeSpecialConsiderationTag"
	TypeRecipeSeasonTag               = "recipeSeasonTag"
	TypeRecipeIngredientsText         = "recipeIngredientsText"
	TypeScaleWhitelist                = "scaleWhitelist"
	TypeTranslations                  = "translations"
)

// KnownTypes lists every content type the loader accepts.
func KnownTypes() []string {
	return []string{
		TypeRecipe,
		TypePage,
		TypeRecipeCourseTag,
		TypeRecipeSpecialConsiderationTag,
		TypeRecipeSeasonTag,
		TypeRecipeIngredientsText,
		TypeScaleWhitelist,
		TypeTranslations,
	}
}

var (
	// ErrNotFound is the sentinel unwrapped from NotFoundError.
	ErrNotFound = errors.New("content: record not found")
	// ErrDuplicateNode indicates two records share an identifier.
	ErrDuplicateNode = errors.New("content: duplicate node id")
	// ErrNodeIDRequired indicates a record was stored without an identifier.
	ErrNodeIDRequired = errors.New("content: node id is required")
)

// NotFoundError is returned when a lookup misses.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("content: %s not found", e.Resource)
	}
	return fmt.Sprintf("content: %s %q not found", e.Resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// Title returns the payload title of a node, if any.
func Title(node *Node) string {
	if node == nil {
		return ""
	}
	title, _ := node.Payload["title"].(string)
	return title
}

func cloneNode(src *Node) *Node {
	if src == nil {
		return nil
	}
	copied := *src
	copied.Tags = slices.Clone(src.Tags)
	copied.Payload = maps.Clone(src.Payload)
	return &copied
}
