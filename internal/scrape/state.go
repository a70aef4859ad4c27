package scrape

import (
	"math"
	"sync"
)

// CrawlState is the only mutable state shared across concurrent fetch
// workers: the saved-record count, in-flight budget reservations, and the
// visited-URL set. Every check-then-act sequence runs as a single critical
// section so two workers can neither jointly overshoot the result budget at
// enqueue time nor enqueue the same URL twice.
type CrawlState struct {
	mu            sync.Mutex
	saved         int
	pending       int
	resultsWanted int
	maxPages      int
	visited       map[string]struct{}
}

// StateSnapshot is a point-in-time copy of the run's progress counters.
type StateSnapshot struct {
	Saved         int `json:"saved"`
	Pending       int `json:"pending"`
	ResultsWanted int `json:"results_wanted"`
	MaxPages      int `json:"max_pages"`
	VisitedURLs   int `json:"visited_urls"`
}

// NewCrawlState builds the per-run state. A resultsWanted <= 0 means
// unbounded collection; maxPages <= 0 falls back to a single page.
func NewCrawlState(resultsWanted, maxPages int) *CrawlState {
	if resultsWanted <= 0 {
		resultsWanted = math.MaxInt
	}
	if maxPages <= 0 {
		maxPages = 1
	}
	return &CrawlState{
		resultsWanted: resultsWanted,
		maxPages:      maxPages,
		visited:       make(map[string]struct{}),
	}
}

// MarkVisited records a URL as scheduled and reports whether it was new.
func (s *CrawlState) MarkVisited(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visited[url]; ok {
		return false
	}
	s.visited[url] = struct{}{}
	return true
}

// FilterNew marks every given URL visited and returns, in order, only the
// ones that were not already known. The whole operation is one critical
// section.
func (s *CrawlState) FilterNew(urls []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	fresh := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := s.visited[u]; ok {
			continue
		}
		s.visited[u] = struct{}{}
		fresh = append(fresh, u)
	}
	return fresh
}

// ReserveBudget claims up to n units of the remaining result budget,
// counting both saved records and reservations not yet resolved. Returns
// how many units were actually granted.
func (s *CrawlState) ReserveBudget(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.resultsWanted - s.saved - s.pending
	if remaining <= 0 || n <= 0 {
		return 0
	}
	if n > remaining {
		n = remaining
	}
	s.pending += n
	return n
}

// ReleaseBudget returns one reserved unit that did not produce a record.
func (s *CrawlState) ReleaseBudget() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending > 0 {
		s.pending--
	}
}

// CommitSaved converts one reserved unit into a saved record and returns
// the new saved total.
func (s *CrawlState) CommitSaved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending > 0 {
		s.pending--
	}
	s.saved++
	return s.saved
}

// TargetReached reports whether the saved count has met the result budget.
func (s *CrawlState) TargetReached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved >= s.resultsWanted
}

// Saved returns the current saved-record count.
func (s *CrawlState) Saved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved
}

// MaxPages returns the listing-page ceiling for this run.
func (s *CrawlState) MaxPages() int {
	return s.maxPages
}

// Snapshot returns a copy of the progress counters for status reporting.
func (s *CrawlState) Snapshot() StateSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := s.resultsWanted
	if wanted == math.MaxInt {
		wanted = -1
	}
	return StateSnapshot{
		Saved:         s.saved,
		Pending:       s.pending,
		ResultsWanted: wanted,
		MaxPages:      s.maxPages,
		VisitedURLs:   len(s.visited),
	}
}
