// Package sink provides append-only stores for extracted job records.
package sink

import (
	"context"
	"sync"

	"github.com/jobsweep/jobsweep/internal/scrape"
)

// Sink is an append-only record store. A batch succeeds or fails as a
// whole; no read-back is required by callers.
type Sink interface {
	Append(ctx context.Context, records []scrape.JobRecord) error
	Close(ctx context.Context) error
}

// Memory is an in-memory sink for tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	records []scrape.JobRecord
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{}
}

// Append stores the batch.
func (m *Memory) Append(_ context.Context, records []scrape.JobRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

// Close is a no-op.
func (m *Memory) Close(context.Context) error { return nil }

// Records returns a copy of everything appended so far.
func (m *Memory) Records() []scrape.JobRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]scrape.JobRecord, len(m.records))
	copy(out, m.records)
	return out
}
