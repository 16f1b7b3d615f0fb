package runtimeconfig

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrDefaultLocaleRequired = errors.New("sitegen config: default locale is required")
var ErrDefaultLocaleNotListed = errors.New("sitegen config: default locale must be part of the locale set")
var ErrLocaleDuplicated = errors.New("sitegen config: locale listed twice")
var ErrContentDirRequired = errors.New("sitegen config: content directory is required")
var ErrStorageUnknown = errors.New("sitegen config: content storage is invalid")
var ErrStorageDSNRequired = errors.New("sitegen config: sqlite storage requires a dsn")
var ErrOutputDirRequired = errors.New("sitegen config: output directory is required")
var ErrRedirectInvalid = errors.New("sitegen config: redirect requires from and to")
var ErrMetricsFileRequired = errors.New("sitegen config: metrics file is required when metrics are enabled")
var ErrLoggingProviderRequired = errors.New("sitegen config: logging provider is required")
var ErrLoggingProviderUnknown = errors.New("sitegen config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("sitegen config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("sitegen config: logging format is invalid")

// Config aggregates everything a build needs. Values come from DefaultConfig,
// then an optional YAML file, then SITEGEN_* environment variables.
type Config struct {
	DefaultLocale string   `yaml:"default_locale" env:"DEFAULT_LOCALE"`
	// Locales is the ordered locale set, default included.
	Locales   []string         `yaml:"locales"   env:"LOCALES" envSeparator:","`
	Content   ContentConfig    `yaml:"content"   envPrefix:"CONTENT_"`
	Output    OutputConfig     `yaml:"output"    envPrefix:"OUTPUT_"`
	Redirects []RedirectConfig `yaml:"redirects"`
	Templates TemplatesConfig  `yaml:"templates"`
	Logging   LoggingConfig    `yaml:"logging"   envPrefix:"LOG_"`
	Metrics   MetricsConfig    `yaml:"metrics"   envPrefix:"METRICS_"`
	Notify    NotifyConfig     `yaml:"notify"    envPrefix:"NOTIFY_"`
	Commands  CommandsConfig   `yaml:"commands"  envPrefix:"COMMANDS_"`
}

// ContentConfig selects where content is read from and how it is stored.
type ContentConfig struct {
	Dir string `yaml:"dir" env:"DIR"`
	// Storage is "memory" or "sqlite".
	Storage  string         `yaml:"storage"   env:"STORAGE"`
	DSN      string         `yaml:"dsn"       env:"DSN"`
	Cache    bool           `yaml:"cache"     env:"CACHE"`
	CacheTTL time.Duration  `yaml:"cache_ttl" env:"CACHE_TTL"`
	Markdown MarkdownConfig `yaml:"markdown"`
}

// MarkdownConfig mirrors markdown.ParseOptions.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	SafeMode   bool     `yaml:"safe_mode"`
}

// OutputConfig names the build artifacts.
type OutputConfig struct {
	Dir        string `yaml:"dir"         env:"DIR"`
	Manifest   string `yaml:"manifest"    env:"MANIFEST"`
	Redirects  string `yaml:"redirects"   env:"REDIRECTS"`
	WriteStubs bool   `yaml:"write_stubs" env:"WRITE_STUBS"`
}

// RedirectConfig is one static redirect rule.
type RedirectConfig struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Permanent bool   `yaml:"permanent"`
	Force     bool   `yaml:"force"`
}

// TemplatesConfig overrides template names per page kind.
type TemplatesConfig struct {
	Home      string `yaml:"home"`
	Search    string `yaml:"search"`
	Recipe    string `yaml:"recipe"`
	Page      string `yaml:"page"`
	CourseTag string `yaml:"course_tag"`
	NotFound  string `yaml:"not_found"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"   env:"PROVIDER"`
	Level     string   `yaml:"level"      env:"LEVEL"`
	Format    string   `yaml:"format"     env:"FORMAT"`
	AddSource bool     `yaml:"add_source" env:"ADD_SOURCE"`
	Focus     []string `yaml:"focus"      env:"FOCUS" envSeparator:","`
}

// MetricsConfig enables the Prometheus textfile dump.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"ENABLED"`
	File    string `yaml:"file"    env:"FILE"`
}

// NotifyConfig names the pubsub topic that receives build events. Empty
// disables notifications.
type NotifyConfig struct {
	Topic string `yaml:"topic" env:"TOPIC"`
}

// CommandsConfig captures command-layer behaviour.
type CommandsConfig struct {
	Timeout time.Duration `yaml:"timeout" env:"TIMEOUT"`
}

// DefaultConfig returns the configuration of the recipe site.
func DefaultConfig() Config {
	return Config{
		DefaultLocale: "en",
		Locales:       []string{"en", "es"},
		Content: ContentConfig{
			Dir:      "content",
			Storage:  "memory",
			CacheTTL: time.Minute,
		},
		Output: OutputConfig{
			Dir:       "public",
			Manifest:  "pages.json",
			Redirects: "_redirects",
		},
		Redirects: []RedirectConfig{
			{
				From:  "https://carolastable.netlify.app/*",
				To:    "https://www.carolastable.com/:splat",
				Force: true,
			},
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
		Metrics: MetricsConfig{
			File: "sitegen.prom",
		},
		Commands: CommandsConfig{
			Timeout: time.Minute,
		},
	}
}

// Alternates returns the locale set minus the default, in order.
func (cfg Config) Alternates() []string {
	out := make([]string, 0, len(cfg.Locales))
	for _, code := range cfg.Locales {
		if code != cfg.DefaultLocale {
			out = append(out, code)
		}
	}
	return out
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DefaultLocale) == "" {
		return ErrDefaultLocaleRequired
	}
	if !slices.Contains(cfg.Locales, cfg.DefaultLocale) {
		return fmt.Errorf("%w: %s", ErrDefaultLocaleNotListed, cfg.DefaultLocale)
	}
	seen := map[string]struct{}{}
	for _, code := range cfg.Locales {
		if _, dup := seen[code]; dup {
			return fmt.Errorf("%w: %s", ErrLocaleDuplicated, code)
		}
		seen[code] = struct{}{}
	}
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	switch normalize(cfg.Content.Storage) {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(cfg.Content.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageUnknown, cfg.Content.Storage)
	}
	if strings.TrimSpace(cfg.Output.Dir) == "" {
		return ErrOutputDirRequired
	}
	for i, redirect := range cfg.Redirects {
		if strings.TrimSpace(redirect.From) == "" || strings.TrimSpace(redirect.To) == "" {
			return fmt.Errorf("%w: entry %d", ErrRedirectInvalid, i)
		}
	}
	if cfg.Metrics.Enabled && strings.TrimSpace(cfg.Metrics.File) == "" {
		return ErrMetricsFileRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
