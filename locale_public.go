package sitegen

import "github.com/goliatone/go-sitegen/internal/locale"

// LocaleCodec maps site paths to locales and back.
type LocaleCodec = locale.Codec

// LocaleLink is one entry of a language switcher.
type LocaleLink = locale.Link

// NewLocaleCodec builds a codec for defaultLocale followed by alternates.
func NewLocaleCodec(defaultLocale string, alternates ...string) (*LocaleCodec, error) {
	return locale.New(defaultLocale, alternates...)
}
