package scrape

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jobsweep/jobsweep/internal/metrics"
)

// Enqueue schedules a follow-up crawl target; it is supplied per document by
// the fetch engine.
type Enqueue func(target CrawlTarget) error

// RecordSink is the append-only store records are handed to, exactly once
// per persisted record. Writes succeed or fail as a whole batch.
type RecordSink interface {
	Append(ctx context.Context, records []JobRecord) error
}

// Controller is the crawl orchestration state machine. It owns all mutation
// of the shared CrawlState and decides, per processed document, what gets
// enqueued next: detail pages, the next listing page, or nothing.
type Controller struct {
	state          *CrawlState
	sink           RecordSink
	collectDetails bool
	logger         *zap.Logger
}

// NewController wires the controller to its run state and sink.
func NewController(state *CrawlState, sink RecordSink, collectDetails bool, logger *zap.Logger) *Controller {
	return &Controller{
		state:          state,
		sink:           sink,
		collectDetails: collectDetails,
		logger:         logger,
	}
}

// Seeds builds the initial LISTING targets: explicit start URLs when given,
// otherwise the single URL derived from the search query. Seeds are marked
// visited so a discovered link back to them is never re-enqueued.
func (c *Controller) Seeds(query SearchQuery, startURLs []string) []CrawlTarget {
	urls := startURLs
	if len(urls) == 0 {
		urls = []string{BuildStartURL(query)}
	}
	targets := make([]CrawlTarget, 0, len(urls))
	for _, u := range urls {
		if !c.state.MarkVisited(u) {
			continue
		}
		targets = append(targets, CrawlTarget{
			URL:            u,
			Kind:           KindListing,
			PageNumber:     1,
			BaseListingURL: StripQuery(u),
		})
	}
	return targets
}

// HandlePage processes one fetched document. It never returns an error: bad
// pages degrade to warnings and the run continues.
func (c *Controller) HandlePage(ctx context.Context, target CrawlTarget, doc *goquery.Document, enqueue Enqueue) {
	pageURL, err := url.Parse(target.URL)
	if err != nil {
		c.logger.Warn("unparseable target url", zap.String("url", target.URL), zap.Error(err))
		return
	}
	switch target.Kind {
	case KindListing:
		c.handleListing(ctx, target, doc, pageURL, enqueue)
	case KindDetail:
		c.handleDetail(ctx, target, doc, pageURL)
	default:
		c.logger.Warn("unknown target kind", zap.String("kind", string(target.Kind)))
	}
}

// HandleFailure records a target the fetch engine gave up on after retries.
// A detail target carries a budget reservation made at enqueue time; it must
// be returned here or the remaining budget shrinks with every dead link. The
// run never aborts because of a single failed page.
func (c *Controller) HandleFailure(target CrawlTarget, err error) {
	if target.Kind == KindDetail {
		c.state.ReleaseBudget()
	}
	metrics.ObservePage(string(target.Kind), "failed")
	c.logger.Error("fetch failed after retries",
		zap.String("kind", string(target.Kind)),
		zap.String("url", target.URL),
		zap.Error(err),
	)
}

func (c *Controller) handleListing(ctx context.Context, target CrawlTarget, doc *goquery.Document, pageURL *url.URL, enqueue Enqueue) {
	metrics.ObservePage(string(KindListing), "ok")

	links := DiscoverJobLinks(doc, pageURL)
	newLinks := c.state.FilterNew(links)
	metrics.ObserveLinksDiscovered(len(newLinks))
	c.logger.Info("listing processed",
		zap.Int("page", target.PageNumber),
		zap.String("url", target.URL),
		zap.Int("links", len(links)),
		zap.Int("new_links", len(newLinks)),
	)

	if c.collectDetails {
		c.enqueueDetails(newLinks, enqueue)
	} else {
		c.persistListingCards(ctx, doc, pageURL)
	}

	if c.state.TargetReached() || target.PageNumber >= c.state.MaxPages() || len(newLinks) == 0 {
		return
	}
	info := ResolveNextPage(doc, pageURL, target.PageNumber, target.BaseListingURL, len(links))
	if !info.HasNext || info.NextURL == "" {
		return
	}
	if !c.state.MarkVisited(info.NextURL) {
		return
	}
	next := CrawlTarget{
		URL:            info.NextURL,
		Kind:           KindListing,
		PageNumber:     target.PageNumber + 1,
		BaseListingURL: target.BaseListingURL,
	}
	if err := enqueue(next); err != nil {
		c.logger.Warn("enqueue next page failed", zap.String("url", info.NextURL), zap.Error(err))
		return
	}
	c.logger.Info("next listing page enqueued", zap.Int("page", next.PageNumber), zap.String("url", next.URL))
}

func (c *Controller) enqueueDetails(newLinks []string, enqueue Enqueue) {
	granted := c.state.ReserveBudget(len(newLinks))
	enqueued := 0
	for _, link := range newLinks[:granted] {
		err := enqueue(CrawlTarget{URL: link, Kind: KindDetail})
		if err != nil {
			c.state.ReleaseBudget()
			c.logger.Warn("enqueue detail failed", zap.String("url", link), zap.Error(err))
			continue
		}
		enqueued++
	}
	if enqueued > 0 {
		c.logger.Info("detail pages enqueued", zap.Int("count", enqueued))
	}
}

func (c *Controller) persistListingCards(ctx context.Context, doc *goquery.Document, pageURL *url.URL) {
	granted := c.state.ReserveBudget(doc.Find(jobCardSelector).Length())
	if granted == 0 {
		return
	}
	records := ExtractListingCards(doc, pageURL, granted)
	for i := len(records); i < granted; i++ {
		c.state.ReleaseBudget()
	}
	if len(records) == 0 {
		return
	}
	if err := c.sink.Append(ctx, records); err != nil {
		for range records {
			c.state.ReleaseBudget()
		}
		c.logger.Error("persist listing cards failed", zap.Int("count", len(records)), zap.Error(err))
		return
	}
	var total int
	for range records {
		total = c.state.CommitSaved()
	}
	metrics.ObserveRecordsSaved(len(records))
	c.logger.Info("listing cards saved", zap.Int("count", len(records)), zap.Int("total", total))
}

func (c *Controller) handleDetail(ctx context.Context, target CrawlTarget, doc *goquery.Document, pageURL *url.URL) {
	metrics.ObservePage(string(KindDetail), "ok")

	// Late guard against stale queue entries once the budget is met.
	if c.state.TargetReached() {
		c.state.ReleaseBudget()
		c.logger.Debug("detail skipped, results limit reached", zap.String("url", target.URL))
		return
	}

	structured := ExtractStructured(doc)
	markup := ExtractMarkup(doc, pageURL)
	record, err := Merge(structured, markup, target.URL)
	if err != nil {
		c.state.ReleaseBudget()
		metrics.ObserveRecordDropped("no_title")
		c.logger.Warn("record dropped", zap.String("url", target.URL), zap.Error(err))
		return
	}

	if err := c.sink.Append(ctx, []JobRecord{record}); err != nil {
		c.state.ReleaseBudget()
		c.logger.Error("persist record failed", zap.String("url", target.URL), zap.Error(err))
		return
	}
	total := c.state.CommitSaved()
	metrics.ObserveRecordsSaved(1)
	c.logger.Info("record saved",
		zap.String("title", record.Title),
		zap.String("company", record.Company),
		zap.Int("total", total),
	)
}
