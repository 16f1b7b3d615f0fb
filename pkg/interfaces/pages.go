package interfaces

import "context"

// PageKind classifies a page at creation time so later hooks do not need to
// re-derive it from the path.
type PageKind string

const (
	PageKindHome      PageKind = "home"
	PageKindSearch    PageKind = "search"
	PageKindRecipe    PageKind = "recipe"
	PageKindPage      PageKind = "page"
	PageKindCourseTag PageKind = "courseTag"
	PageKindNotFound  PageKind = "notFound"
)

// PageContext is the data handed to the page template.
type PageContext struct {
	ID     string `json:"id,omitempty"`
	Locale string `json:"locale,omitempty"`
	// AlternateLocalePath is the twin page in the first alternate locale.
	AlternateLocalePath string `json:"alternateLocalePath,omitempty"`
	// AlternatePaths maps every other locale to its twin page path.
	AlternatePaths map[string]string `json:"alternatePaths,omitempty"`
	OnNotFoundPage bool              `json:"onNotFoundPage,omitempty"`
}

// Page describes one page to emit.
type Page struct {
	Path      string      `json:"path"`
	Template  string      `json:"template"`
	Kind      PageKind    `json:"kind,omitempty"`
	Locale    string      `json:"locale,omitempty"`
	MatchPath string      `json:"matchPath,omitempty"`
	Context   PageContext `json:"context"`
}

// Redirect is a static redirect rule. The FromPath may end with a wildcard
// whose capture is forwarded through the :splat placeholder.
type Redirect struct {
	FromPath    string `json:"fromPath"`
	ToPath      string `json:"toPath"`
	IsPermanent bool   `json:"isPermanent"`
	Force       bool   `json:"force"`
}

// PageEmitter is the page-emission surface of the build orchestrator.
type PageEmitter interface {
	CreatePage(ctx context.Context, page Page) error
	DeletePage(ctx context.Context, page Page) error
	CreateRedirect(ctx context.Context, redirect Redirect) error
}
