package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobsweep/jobsweep/internal/scrape"
)

func TestNewEngineDefaults(t *testing.T) {
	t.Parallel()

	engine, err := NewEngine(Config{AllowedDomains: []string{"www.freshersworld.com"}}, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 10, engine.cfg.Concurrency)
	require.Equal(t, 60*time.Second, engine.cfg.RequestTimeout)
	require.True(t, engine.collector.AllowURLRevisit)
}

func TestNewEngineRejectsBadProxy(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{Proxies: []string{"://not-a-proxy"}}, zap.NewNop())
	require.Error(t, err)
}

func TestEngineRunDeliversDocuments(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><h1 class="page-title">Listing</h1></body></html>`))
	}))
	defer srv.Close()

	host, err := url.Parse(srv.URL)
	require.NoError(t, err)

	engine, err := NewEngine(Config{
		AllowedDomains: []string{host.Hostname()},
		Concurrency:    2,
	}, zap.NewNop())
	require.NoError(t, err)

	var mu sync.Mutex
	var handled []scrape.CrawlTarget
	var titles []string
	handler := func(_ context.Context, target scrape.CrawlTarget, doc *goquery.Document, _ scrape.Enqueue) {
		mu.Lock()
		defer mu.Unlock()
		handled = append(handled, target)
		titles = append(titles, doc.Find(".page-title").Text())
	}

	seed := scrape.CrawlTarget{URL: srv.URL + "/jobs-in-test", Kind: scrape.KindListing, PageNumber: 1}
	engine.Run(context.Background(), []scrape.CrawlTarget{seed}, handler, nil)

	require.Len(t, handled, 1)
	require.Equal(t, seed.URL, handled[0].URL)
	require.Equal(t, scrape.KindListing, handled[0].Kind)
	require.Equal(t, []string{"Listing"}, titles)
}

func TestEngineRunEmptyBodyInvokesFailureCallback(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	host, err := url.Parse(srv.URL)
	require.NoError(t, err)

	engine, err := NewEngine(Config{
		AllowedDomains: []string{host.Hostname()},
		Concurrency:    1,
	}, zap.NewNop())
	require.NoError(t, err)

	var mu sync.Mutex
	handled := 0
	var failed []scrape.CrawlTarget
	handler := func(context.Context, scrape.CrawlTarget, *goquery.Document, scrape.Enqueue) {
		mu.Lock()
		handled++
		mu.Unlock()
	}
	onFailure := func(target scrape.CrawlTarget, err error) {
		mu.Lock()
		failed = append(failed, target)
		mu.Unlock()
	}

	seed := scrape.CrawlTarget{URL: srv.URL + "/jobs/empty-1234567", Kind: scrape.KindDetail}
	engine.Run(context.Background(), []scrape.CrawlTarget{seed}, handler, onFailure)

	require.Equal(t, 0, handled)
	require.Len(t, failed, 1, "an unusable response must surface through the failure callback")
	require.Equal(t, seed.URL, failed[0].URL)
}

func TestEngineRunFailureCallbackAfterRetries(t *testing.T) {
	t.Parallel()

	var reqMu sync.Mutex
	requests := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqMu.Lock()
		requests++
		reqMu.Unlock()
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	host, err := url.Parse(srv.URL)
	require.NoError(t, err)

	engine, err := NewEngine(Config{
		AllowedDomains: []string{host.Hostname()},
		Concurrency:    1,
		MaxRetries:     1,
	}, zap.NewNop())
	require.NoError(t, err)

	var failMu sync.Mutex
	var failed []scrape.CrawlTarget
	var failErrs []error
	onFailure := func(target scrape.CrawlTarget, err error) {
		failMu.Lock()
		defer failMu.Unlock()
		failed = append(failed, target)
		failErrs = append(failErrs, err)
	}

	seed := scrape.CrawlTarget{URL: srv.URL + "/jobs/x-1234567", Kind: scrape.KindDetail}
	engine.Run(context.Background(), []scrape.CrawlTarget{seed}, func(context.Context, scrape.CrawlTarget, *goquery.Document, scrape.Enqueue) {}, onFailure)

	require.Len(t, failed, 1, "one failure callback per exhausted target")
	require.Equal(t, seed.URL, failed[0].URL)
	require.Error(t, failErrs[0])
	reqMu.Lock()
	defer reqMu.Unlock()
	require.Equal(t, 2, requests, "initial attempt plus one retry")
}
