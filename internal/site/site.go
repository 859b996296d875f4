// Package site holds the static page metadata and locale strings.
package site

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"running-page/internal/config"
)

// NavLink is a resolved navigation entry
type NavLink struct {
	Name string
	URL  string
}

// Metadata is everything the page header shows
type Metadata struct {
	Title       string
	URL         string
	Logo        string
	Description template.HTML
	NavLinks    []NavLink
	BasePath    string
}

// FromConfig builds the metadata, rendering the markdown description to
// sanitized HTML
func FromConfig(cfg *config.Config) (*Metadata, error) {
	desc, err := RenderMarkdown(cfg.SiteDescription)
	if err != nil {
		return nil, fmt.Errorf("failed to render site description: %w", err)
	}

	base := normalizeBasePath(cfg.BasePath)
	links := make([]NavLink, len(cfg.NavLinks))
	for i, l := range cfg.NavLinks {
		links[i] = NavLink{Name: l.Name, URL: resolveURL(base, l.URL)}
	}

	return &Metadata{
		Title:       cfg.SiteTitle,
		URL:         cfg.SiteURL,
		Logo:        cfg.SiteLogo,
		Description: desc,
		NavLinks:    links,
		BasePath:    base,
	}, nil
}

var policy = bluemonday.UGCPolicy()

// RenderMarkdown converts markdown to HTML safe to embed in the page
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

// normalizeBasePath turns "/" and "" into "" and strips trailing slashes
func normalizeBasePath(p string) string {
	p = strings.TrimRight(strings.TrimSpace(p), "/")
	if p != "" && !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// resolveURL prefixes site-relative URLs with the base path
func resolveURL(base, u string) string {
	if strings.HasPrefix(u, "/") && !strings.HasPrefix(u, "//") {
		return base + u
	}
	return u
}

// Path joins the base path with a site-relative path
func (m *Metadata) Path(p string) string {
	return resolveURL(m.BasePath, p)
}
