package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jobsweep/jobsweep/internal/scrape"
)

// JSONLConfig captures the parameters for the JSON-lines file sink.
type JSONLConfig struct {
	// Path is the output file; parent directories are created as needed.
	Path string `mapstructure:"path" yaml:"path"`
}

// JSONL appends records to a local file, one JSON object per line.
type JSONL struct {
	mu     sync.Mutex
	file   *os.File
	writer *bufio.Writer
	logger *zap.Logger
}

// NewJSONL opens (or creates) the output file in append mode.
func NewJSONL(cfg JSONLConfig, logger *zap.Logger) (*JSONL, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	file, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open output file: %w", err)
	}
	return &JSONL{
		file:   file,
		writer: bufio.NewWriter(file),
		logger: logger,
	}, nil
}

// Append writes the batch as one line per record. The whole batch is flushed
// before returning so a crash never loses an acknowledged record.
func (j *JSONL) Append(ctx context.Context, records []scrape.JobRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := j.writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := j.writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := j.writer.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

// Close flushes buffered output and closes the file.
func (j *JSONL) Close(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	flushErr := j.writer.Flush()
	closeErr := j.file.Close()
	j.file = nil
	if flushErr != nil {
		return fmt.Errorf("flush records: %w", flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close output file: %w", closeErr)
	}
	j.logger.Debug("jsonl sink closed")
	return nil
}
