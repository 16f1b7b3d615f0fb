package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	rootModule      = "sitegen"
	contentModule   = "sitegen.content"
	pagePlanModule  = "sitegen.pageplan"
	notFoundModule  = "sitegen.notfound"
	resolversModule = "sitegen.resolvers"
	siteModule      = "sitegen.site"
)

const (
	fieldPagePath   = "page_path"
	fieldPageLocale = "locale"
	fieldPageKind   = "page_kind"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger carries
// the module identifier as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// ContentLogger returns the logger namespace reserved for content graph access.
func ContentLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, contentModule)
}

// PagePlanLogger returns the logger namespace reserved for page planning.
func PagePlanLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, pagePlanModule)
}

// NotFoundLogger returns the logger namespace used by the not-found localizer.
func NotFoundLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, notFoundModule)
}

// ResolversLogger returns the logger namespace used by derived field resolvers.
func ResolversLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, resolversModule)
}

// SiteLogger returns the logger namespace used by the build orchestrator.
func SiteLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, siteModule)
}

// WithPageContext enriches the logger with page path, locale and kind.
// Empty values are ignored.
func WithPageContext(logger interfaces.Logger, path, locale string, kind interfaces.PageKind) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldPagePath] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields[fieldPageLocale] = trimmed
	}
	if kind != "" {
		fields[fieldPageKind] = string(kind)
	}
	return WithFields(logger, fields)
}

// WithFields attaches a copy of fields when the logger implements
// interfaces.FieldsLogger. Other loggers are returned unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fl, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}
	return fl.WithFields(maps.Clone(fields))
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
