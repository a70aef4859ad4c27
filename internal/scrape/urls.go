package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// BaseURL is the site root every relative href resolves against.
const BaseURL = "https://www.freshersworld.com"

// JobsPerPage is the page-size parameter sent on every paginated request and
// the reference count for the pagination yield heuristic.
const JobsPerPage = 20

// defaultCategorySlug is used when a query carries neither keyword, location
// nor category.
const defaultCategorySlug = "it-software"

// keywordCategories maps keyword substrings to category slugs. Order matters:
// the first entry whose substring occurs in the keyword wins.
var keywordCategories = []struct {
	substr string
	slug   string
}{
	{"java", "it-software"},
	{"python", "it-software"},
	{"developer", "it-software"},
	{"software", "it-software"},
	{"engineer", "it-software"},
	{"bank", "bank"},
	{"government", "government"},
	{"govt", "government"},
	{"sarkari", "government"},
	{"teach", "teaching"},
	{"faculty", "teaching"},
	{"bpo", "bpo"},
	{"call center", "bpo"},
	{"sales", "sales-marketing"},
	{"marketing", "sales-marketing"},
	{"account", "accounting-finance"},
	{"finance", "accounting-finance"},
	{"nurse", "healthcare"},
	{"medical", "healthcare"},
	{"pharma", "healthcare"},
	{"hr", "human-resources"},
	{"design", "design"},
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and collapses every non-alphanumeric run into a
// single hyphen.
func Slugify(s string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
	return strings.Trim(slug, "-")
}

// BuildStartURL derives the first listing URL from a search query. Exactly
// one branch fires, in priority order: keyword via the category table, then
// location slug, then direct category slug, then the default category.
func BuildStartURL(query SearchQuery) string {
	if kw := strings.ToLower(strings.TrimSpace(query.Keyword)); kw != "" {
		for _, entry := range keywordCategories {
			if strings.Contains(kw, entry.substr) {
				return categoryURL(entry.slug)
			}
		}
		return categoryURL(defaultCategorySlug)
	}
	if loc := strings.TrimSpace(query.Location); loc != "" {
		return BaseURL + "/jobs-in-" + Slugify(loc)
	}
	if cat := strings.TrimSpace(query.Category); cat != "" {
		return categoryURL(Slugify(cat))
	}
	return categoryURL(defaultCategorySlug)
}

func categoryURL(slug string) string {
	return BaseURL + "/jobs/category/" + slug
}

// BuildPaginatedURL returns baseURL with the page-size and offset parameters
// set for the given 1-based page number. Calling it twice with the same
// inputs yields the same URL.
func BuildPaginatedURL(baseURL string, pageNumber int) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	q := u.Query()
	q.Set("limit", fmt.Sprintf("%d", JobsPerPage))
	q.Set("offset", fmt.Sprintf("%d", (pageNumber-1)*JobsPerPage))
	u.RawQuery = q.Encode()
	return u.String()
}

// ResolveAbsolute resolves href against base and returns the absolute URL,
// or "" for a malformed href so callers can skip it silently.
func ResolveAbsolute(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		if !ref.IsAbs() {
			return ""
		}
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// StripQuery drops the query string and fragment from rawURL, returning the
// unparameterized base that pagination is derived from.
func StripQuery(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx >= 0 {
		return rawURL[:idx]
	}
	return rawURL
}
