package scrape

import (
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jobCardSelector matches container elements that wrap a single job summary
// on a listing page. Used as a recall backstop for link discovery and as the
// source of lightweight records when detail collection is disabled.
const jobCardSelector = `.job-container, .job-card, .job-listing, .jobs-list, [class*="job-item"]`

var (
	// A location-slug path immediately followed by a numeric segment is a
	// paginated listing, not a job posting. It looks like a detail URL
	// lexically, so this rejection must run before the detail-shape checks.
	listingShapePattern = regexp.MustCompile(`^/jobs-in-[a-z0-9-]+/[0-9]+$`)

	// Job-detail shapes: a descriptive slug ending in a 6-8 digit id, either
	// hyphen-joined in the final segment or as its own trailing segment.
	detailSlugIDPattern = regexp.MustCompile(`(^|/)[a-z][a-z0-9-]*-[0-9]{6,8}$`)
	detailPathIDPattern = regexp.MustCompile(`/[a-z][a-z0-9-]*/[0-9]{6,8}$`)
)

// excludedPathFragments lists known non-job path pieces: category pages,
// institutional/profile pages, user-account pages, and static info pages.
var excludedPathFragments = []string{
	"/jobs/category/",
	"/category/",
	"/companies/",
	"/company/",
	"/institutes/",
	"/employer",
	"/recruiter",
	"/login",
	"/register",
	"/user/",
	"/my-profile",
	"/about",
	"/contact",
	"/privacy",
	"/terms",
	"/faq",
}

// IsJobDetailHref classifies an href by URL shape alone: listing-shaped and
// known non-job paths are rejected, and only the job-detail shape is
// accepted.
func IsJobDetailHref(href string) bool {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return false
	}
	path := strings.ToLower(strings.TrimSuffix(ref.Path, "/"))
	if path == "" {
		return false
	}
	if listingShapePattern.MatchString(path) {
		return false
	}
	for _, fragment := range excludedPathFragments {
		if strings.Contains(path, fragment) {
			return false
		}
	}
	return detailSlugIDPattern.MatchString(path) || detailPathIDPattern.MatchString(path)
}

// DiscoverJobLinks scans a listing document for job-detail URLs. Every
// anchor is evaluated against the shape classifier; a second pass over
// anchors inside job-card containers catches links the markup obscures.
// The result is absolutized, deduplicated, and sorted for determinism.
func DiscoverJobLinks(doc *goquery.Document, pageURL *url.URL) []string {
	seen := make(map[string]struct{})

	collect := func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || !IsJobDetailHref(href) {
			return
		}
		abs := ResolveAbsolute(href, pageURL)
		if abs == "" {
			return
		}
		seen[abs] = struct{}{}
	}

	doc.Find("a[href]").Each(collect)
	doc.Find(jobCardSelector).Find("a[href]").Each(collect)

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}
