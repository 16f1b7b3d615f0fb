package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block shared by every content file.
type FrontMatter struct {
	ID     string
	Group  string
	Slug   string
	Title  string
	Parent string
	Tags   []string
	// Custom holds every key not listed above.
	Custom map[string]any
}

// ParseFrontMatter extracts metadata and the Markdown body from source.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	ID     string         `yaml:"id"`
	Group  string         `yaml:"group"`
	Slug   string         `yaml:"slug"`
	Title  string         `yaml:"title"`
	Parent string         `yaml:"parent"`
	Tags   []string       `yaml:"tags"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	custom := make(map[string]any, len(env.Custom))
	for key, value := range env.Custom {
		custom[key] = normalizeValue(value)
	}
	return FrontMatter{
		ID:     env.ID,
		Group:  env.Group,
		Slug:   env.Slug,
		Title:  env.Title,
		Parent: env.Parent,
		Tags:   append([]string(nil), env.Tags...),
		Custom: custom,
	}
}

// normalizeValue converts the map[any]any values produced by the YAML decoder
// into map[string]any so payloads encode as JSON.
func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[fmt.Sprint(key)] = normalizeValue(nested)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, nested := range typed {
			out[key] = normalizeValue(nested)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, nested := range typed {
			out[i] = normalizeValue(nested)
		}
		return out
	default:
		return value
	}
}
