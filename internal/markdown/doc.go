// Package markdown discovers locale-tagged Markdown content files, extracts
// their frontmatter and renders their bodies to HTML.
package markdown
