package site

import (
	"path"
	"strings"
)

const stubFileName = "page-data.json"

// stubOutputPath maps a page route to its data stub key. Default locale pages
// live at the bucket root; other locales are nested under their code even when
// the route already carries the prefix.
func stubOutputPath(route string, locale string, defaultLocale string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	locale = strings.TrimSpace(locale)
	defaultLocale = strings.TrimSpace(defaultLocale)

	if locale == "" {
		locale = defaultLocale
	}

	if locale == "" || strings.EqualFold(locale, defaultLocale) {
		if clean == "" {
			return stubFileName
		}
		return path.Join(clean, stubFileName)
	}

	segments := []string{}
	if clean != "" {
		segments = strings.Split(clean, "/")
		if strings.EqualFold(segments[0], locale) {
			segments = segments[1:]
		}
	}
	if len(segments) == 0 {
		return path.Join(locale, stubFileName)
	}
	return path.Join(locale, path.Join(segments...), stubFileName)
}
