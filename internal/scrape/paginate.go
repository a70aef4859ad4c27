package scrape

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageInfo is the pagination resolver's verdict for a listing page.
type PageInfo struct {
	HasNext bool
	NextURL string
}

// nextLinkLabels are anchor texts that act as a "next page" control when no
// rel=next link exists.
var nextLinkLabels = map[string]struct{}{
	"next": {},
	">":    {},
	"»":    {},
}

// ResolveNextPage decides whether a further listing page exists, in a fixed
// order: an explicit next link wins, then numbered pagination controls, then
// the yield heuristic (a page producing at least half the expected per-page
// link count suggests offset-based pagination with no visible controls).
// The heuristic accepts an occasional wasted fetch of an empty page over
// silently truncating results.
func ResolveNextPage(doc *goquery.Document, pageURL *url.URL, currentPage int, baseListingURL string, linksFound int) PageInfo {
	if next := explicitNextLink(doc, pageURL); next != "" {
		return PageInfo{HasNext: true, NextURL: next}
	}

	if maxVisiblePage(doc) > currentPage {
		return PageInfo{HasNext: true, NextURL: BuildPaginatedURL(StripQuery(baseListingURL), currentPage+1)}
	}

	if linksFound >= JobsPerPage/2 {
		return PageInfo{HasNext: true, NextURL: BuildPaginatedURL(StripQuery(baseListingURL), currentPage+1)}
	}

	return PageInfo{}
}

func explicitNextLink(doc *goquery.Document, pageURL *url.URL) string {
	if href, ok := doc.Find(`a.next, a[rel="next"]`).First().Attr("href"); ok {
		return ResolveAbsolute(href, pageURL)
	}
	var next string
	doc.Find(".pagination a, a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		label := strings.ToLower(strings.TrimSpace(a.Text()))
		if _, ok := nextLinkLabels[label]; !ok {
			return true
		}
		href, ok := a.Attr("href")
		if !ok {
			return true
		}
		next = ResolveAbsolute(href, pageURL)
		return next == ""
	})
	return next
}

func maxVisiblePage(doc *goquery.Document) int {
	maxPage := 0
	doc.Find(`.pagination a, .page-numbers a, [class*="pagination"] a`).Each(func(_ int, a *goquery.Selection) {
		if n, err := strconv.Atoi(strings.TrimSpace(a.Text())); err == nil && n > maxPage {
			maxPage = n
		}
	})
	return maxPage
}
