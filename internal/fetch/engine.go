// Package fetch implements the fetch-and-dispatch engine the crawl core
// runs on: an async colly collector with bounded parallelism, retry with
// jittered backoff, rotated request headers, and optional proxy switching.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/proxy"
	"go.uber.org/zap"

	"github.com/jobsweep/jobsweep/internal/metrics"
	"github.com/jobsweep/jobsweep/internal/scrape"
)

// Config holds the engine's transport and scheduling knobs.
type Config struct {
	AllowedDomains []string
	Concurrency    int
	MaxRetries     int
	RequestTimeout time.Duration
	Delay          time.Duration
	Proxies        []string
}

// Handler is invoked once per successfully fetched document, together with a
// capability to enqueue follow-up targets.
type Handler func(ctx context.Context, target scrape.CrawlTarget, doc *goquery.Document, enqueue scrape.Enqueue)

// FailureHandler is invoked once per target after the retry ceiling is
// exhausted.
type FailureHandler func(target scrape.CrawlTarget, err error)

// Engine dispatches crawl targets over a bounded worker pool and delivers
// each parsed document to the core's handler.
type Engine struct {
	collector *colly.Collector
	cfg       Config
	logger    *zap.Logger
	retry     *retryPolicy

	runCtx    context.Context
	handler   Handler
	onFailure FailureHandler
}

// NewEngine constructs a configured engine. Targets are dispatched
// asynchronously; Run blocks until the queue drains.
func NewEngine(cfg Config, logger *zap.Logger) (*Engine, error) {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(cfg.AllowedDomains...),
		colly.Async(true),
	)
	// Retries re-submit the same URL; enqueue dedup is owned by the crawl
	// state, not the collector.
	collector.AllowURLRevisit = true
	collector.WithTransport(&http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          128,
		MaxIdleConnsPerHost:   32,
		MaxConnsPerHost:       cfg.Concurrency * 2,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		ForceAttemptHTTP2:     true,
	})
	collector.SetRequestTimeout(cfg.RequestTimeout)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: cfg.Concurrency,
		Delay:       cfg.Delay,
	}); err != nil {
		return nil, err
	}

	if len(cfg.Proxies) > 0 {
		switcher, err := proxy.RoundRobinProxySwitcher(cfg.Proxies...)
		if err != nil {
			return nil, err
		}
		collector.SetProxyFunc(switcher)
	}

	e := &Engine{
		collector: collector,
		cfg:       cfg,
		logger:    logger,
		retry:     newRetryPolicy(cfg.MaxRetries),
	}
	collector.OnRequest(e.handleRequest)
	collector.OnResponse(e.handleResponse)
	collector.OnError(e.handleError)
	return e, nil
}

// Run seeds the collector and blocks until every dispatched target has been
// processed or the context is canceled.
func (e *Engine) Run(ctx context.Context, seeds []scrape.CrawlTarget, handler Handler, onFailure FailureHandler) {
	e.runCtx = ctx
	e.handler = handler
	e.onFailure = onFailure

	for _, seed := range seeds {
		if err := e.request(seed, "", 0); err != nil {
			e.logger.Error("seed dispatch failed", zap.String("url", seed.URL), zap.Error(err))
		}
	}
	e.collector.Wait()
}

func (e *Engine) request(target scrape.CrawlTarget, referer string, attempt int) error {
	cctx := colly.NewContext()
	encodeTarget(cctx, target, referer, attempt)
	return e.collector.Request(http.MethodGet, target.URL, nil, cctx, nil)
}

// enqueueFrom returns the enqueue capability handed to the core for a
// document fetched from sourceURL; follow-up requests carry it as referer.
func (e *Engine) enqueueFrom(sourceURL string) scrape.Enqueue {
	return func(target scrape.CrawlTarget) error {
		return e.request(target, sourceURL, 0)
	}
}

func (e *Engine) handleRequest(r *colly.Request) {
	if e.runCtx != nil && e.runCtx.Err() != nil {
		r.Abort()
		return
	}
	r.Headers.Set("User-Agent", nextUserAgent())
	if referer := r.Ctx.Get(ctxKeyReferer); referer != "" {
		r.Headers.Set("Referer", referer)
	}
}

func (e *Engine) handleResponse(r *colly.Response) {
	target := decodeTarget(r.Ctx, r.Request.URL.String())
	if r.StatusCode != http.StatusOK || len(r.Body) == 0 {
		e.fail(target, fmt.Errorf("unusable response: status %d, %d body bytes", r.StatusCode, len(r.Body)))
		return
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
	if err != nil {
		e.fail(target, err)
		return
	}
	e.handler(e.runCtx, target, doc, e.enqueueFrom(target.URL))
}

func (e *Engine) handleError(r *colly.Response, err error) {
	target := decodeTarget(r.Ctx, r.Request.URL.String())
	attempt := decodeAttempt(r.Ctx)

	if !e.retry.ShouldRetry(err, r.StatusCode, attempt) {
		e.fail(target, err)
		return
	}

	backoff := e.retry.Backoff(attempt)
	metrics.ObserveFetchRetry()
	e.logger.Warn("fetch retry scheduled",
		zap.String("url", target.URL),
		zap.Int("attempt", attempt+1),
		zap.Duration("backoff", backoff),
		zap.Error(err),
	)
	// Blocking here occupies one collector worker for the backoff window,
	// which keeps Wait() accounting correct without a side queue.
	time.Sleep(backoff)
	if rerr := e.request(target, r.Ctx.Get(ctxKeyReferer), attempt+1); rerr != nil {
		e.fail(target, rerr)
	}
}

func (e *Engine) fail(target scrape.CrawlTarget, err error) {
	if e.onFailure != nil {
		e.onFailure(target, err)
		return
	}
	e.logger.Error("fetch failed", zap.String("url", target.URL), zap.Error(err))
}
