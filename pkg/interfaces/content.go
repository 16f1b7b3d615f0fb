package interfaces

import "context"

// ContentNode is one locale-specific record of the content graph. GroupKey links
// the same logical entity across locales.
type ContentNode struct {
	ID       string         `json:"id"`
	GroupKey string         `json:"group_key"`
	Type     string         `json:"type"`
	Locale   string         `json:"locale"`
	Slug     string         `json:"slug,omitempty"`
	Parent   string         `json:"parent,omitempty"`
	Tags     []string       `json:"tags,omitempty"`
	Payload  map[string]any `json:"payload,omitempty"`
}

// ContentFilter narrows FindAll scans. Empty fields match every record.
type ContentFilter struct {
	Locale string
}

// ContentQuery is the read-only view over the content graph consumed by the
// page planner and the derived field resolvers. Scan order is not guaranteed
// to be stable across invocations.
type ContentQuery interface {
	FindAll(ctx context.Context, contentType string, filter ContentFilter) ([]*ContentNode, error)
	GetNodeByID(ctx context.Context, id string, contentType string) (*ContentNode, error)
}
