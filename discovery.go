package newsdigest

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// DefaultLimit is the default maximum number of candidates per run.
const DefaultLimit = 20

// DefaultExcludes are the URL patterns dropped from every listing.
var DefaultExcludes = []string{`/video/`, `/gallery/`}

// LinkSource discovers article candidates from a listing surface
// (homepage markup, a JSON collection, a sitemap or a feed).
// Implementations return candidates already passed through CollectCandidates.
// Any error is a discovery failure and ends the run.
type LinkSource interface {
	Discover(ctx context.Context) ([]Candidate, error)
}

// SeenSet reports URLs that earlier runs already stored.
type SeenSet interface {
	Seen(url string) bool
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp

	// Seen, if set, drops URLs stored by earlier runs.
	Seen SeenSet
}

// NewURLFilter compiles exclusion patterns into a filter.
func NewURLFilter(excludes []string) (*URLFilter, error) {
	f := &URLFilter{}
	for _, pattern := range excludes {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		f.Exclude = append(f.Exclude, re)
	}
	return f, nil
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	// If include patterns exist, URL must match at least one
	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	if f.Seen != nil && f.Seen.Seen(url) {
		return false
	}

	return true
}

// CollectCandidates filters, deduplicates and caps raw listing links.
//
// Links failing the filter are dropped before deduplication. Duplicates
// are detected by exact URL string; the first occurrence wins, so a URL
// listed under two categories keeps the category encountered first.
// Discovery order is preserved and Rank is set to the output position.
// A limit <= 0 means DefaultLimit.
func CollectCandidates(links []Candidate, filter *URLFilter, limit int) []Candidate {
	if limit <= 0 {
		limit = DefaultLimit
	}

	seen := make(map[string]bool, len(links))
	candidates := make([]Candidate, 0, min(len(links), limit))
	for _, link := range links {
		if len(candidates) >= limit {
			break
		}
		if link.URL == "" || !filter.Match(link.URL) {
			continue
		}
		if seen[link.URL] {
			continue
		}
		seen[link.URL] = true

		link.Rank = len(candidates)
		candidates = append(candidates, link)
	}
	return candidates
}

// ResolveURL turns a site-rooted or relative href into an absolute URL
// against base. Absolute hrefs are returned unchanged. Fragments are
// stripped. Returns an empty string for unparseable or non-HTTP hrefs.
func ResolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}

// CategoryFromPath returns the first path segment of rawURL when it is one
// of categories, otherwise an empty string.
func CategoryFromPath(rawURL string, categories []string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	first, _, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	for _, c := range categories {
		if c == first {
			return c
		}
	}
	return ""
}
