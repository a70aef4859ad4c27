package fetch

import (
	"strconv"

	"github.com/gocolly/colly/v2"

	"github.com/jobsweep/jobsweep/internal/scrape"
)

// Context keys used to carry target metadata through colly requests.
const (
	ctxKeyKind    = "kind"
	ctxKeyPage    = "page"
	ctxKeyBase    = "base"
	ctxKeyReferer = "referer"
	ctxKeyAttempt = "attempt"
)

// encodeTarget stores a crawl target and its bookkeeping into a colly
// context so the response handler can reconstruct it.
func encodeTarget(ctx *colly.Context, target scrape.CrawlTarget, referer string, attempt int) {
	ctx.Put(ctxKeyKind, string(target.Kind))
	ctx.Put(ctxKeyPage, strconv.Itoa(target.PageNumber))
	ctx.Put(ctxKeyBase, target.BaseListingURL)
	ctx.Put(ctxKeyReferer, referer)
	ctx.Put(ctxKeyAttempt, strconv.Itoa(attempt))
}

// decodeTarget reconstructs the crawl target for the given URL from a colly
// context. Missing metadata degrades to a page-1 listing, never an error.
func decodeTarget(ctx *colly.Context, url string) scrape.CrawlTarget {
	kind := scrape.TargetKind(ctx.Get(ctxKeyKind))
	if kind != scrape.KindDetail {
		kind = scrape.KindListing
	}
	page, err := strconv.Atoi(ctx.Get(ctxKeyPage))
	if err != nil || page < 1 {
		page = 1
	}
	return scrape.CrawlTarget{
		URL:            url,
		Kind:           kind,
		PageNumber:     page,
		BaseListingURL: ctx.Get(ctxKeyBase),
	}
}

func decodeAttempt(ctx *colly.Context) int {
	attempt, err := strconv.Atoi(ctx.Get(ctxKeyAttempt))
	if err != nil || attempt < 0 {
		return 0
	}
	return attempt
}
