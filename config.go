package sitegen

import "github.com/goliatone/go-sitegen/internal/runtimeconfig"

var (
	ErrDefaultLocaleRequired   = runtimeconfig.ErrDefaultLocaleRequired
	ErrDefaultLocaleNotListed  = runtimeconfig.ErrDefaultLocaleNotListed
	ErrLocaleDuplicated        = runtimeconfig.ErrLocaleDuplicated
	ErrContentDirRequired      = runtimeconfig.ErrContentDirRequired
	ErrStorageUnknown          = runtimeconfig.ErrStorageUnknown
	ErrStorageDSNRequired      = runtimeconfig.ErrStorageDSNRequired
	ErrOutputDirRequired       = runtimeconfig.ErrOutputDirRequired
	ErrRedirectInvalid         = runtimeconfig.ErrRedirectInvalid
	ErrMetricsFileRequired     = runtimeconfig.ErrMetricsFileRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ContentConfig   = runtimeconfig.ContentConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	OutputConfig    = runtimeconfig.OutputConfig
	RedirectConfig  = runtimeconfig.RedirectConfig
	TemplatesConfig = runtimeconfig.TemplatesConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	MetricsConfig   = runtimeconfig.MetricsConfig
	NotifyConfig    = runtimeconfig.NotifyConfig
	CommandsConfig  = runtimeconfig.CommandsConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads path (optional) over the defaults and applies SITEGEN_*
// environment overrides.
func LoadConfig(path string) (Config, error) {
	return runtimeconfig.LoadFile(path)
}
