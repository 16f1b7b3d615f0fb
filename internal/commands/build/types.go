package buildcmd

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitegen/internal/resolvers"
	"github.com/goliatone/go-sitegen/internal/site"
)

const (
	buildSiteMessageType   = "sitegen.site.build"
	resolveTagsMessageType = "sitegen.tags.resolve"
)

var localePattern = regexp.MustCompile(`^[a-z]{2}$`)

// ResultCallback receives the outcome of a build. It is optional and invoked synchronously from
// the handler, including after a failed build so callers can report partial timings.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a build command.
type ResultEnvelope struct {
	Result    *site.BuildResult
	Artifacts []string
	Metadata  map[string]any
}

// BuildSiteCommand runs the full page plan and, unless DryRun is set, writes the artifacts.
type BuildSiteCommand struct {
	OutputDir      string         `json:"output_dir,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects output directories that escape upwards.
func (m BuildSiteCommand) Validate() error {
	errs := validation.Errors{}
	if dir := m.OutputDir; dir != "" {
		if strings.TrimSpace(dir) == "" {
			errs["output_dir"] = validation.NewError("sitegen.site.build.output_dir_blank", "output_dir must not be blank")
		} else if hasParentSegment(dir) {
			errs["output_dir"] = validation.NewError("sitegen.site.build.output_dir_parent", "output_dir must not contain '..' segments")
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// TagsCallback receives the resolved tags.
type TagsCallback func([]resolvers.Tag)

// ResolveTagsCommand lists the aggregate ingredient tags, for one locale or all of them.
type ResolveTagsCommand struct {
	Locale         *string      `json:"locale,omitempty"`
	ResultCallback TagsCallback `json:"-"`
}

// Type implements command.Message.
func (ResolveTagsCommand) Type() string { return resolveTagsMessageType }

// Validate ensures the locale, when present, is a two-letter code.
func (m ResolveTagsCommand) Validate() error {
	if m.Locale == nil {
		return nil
	}
	return validation.Errors{
		"locale": validation.Validate(*m.Locale,
			validation.Required,
			validation.Match(localePattern).Error("locale must be a two-letter lowercase code"),
		),
	}.Filter()
}

func hasParentSegment(dir string) bool {
	for _, segment := range strings.FieldsFunc(dir, func(r rune) bool { return r == '/' || r == '\\' }) {
		if segment == ".." {
			return true
		}
	}
	return false
}
