package hub

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dhlab-no/trpexport/internal/dataset"
)

// Publisher materializes a record stream and uploads it as a dataset repo.
type Publisher struct {
	client     *Client
	log        *slog.Logger
	batchBytes int64 // max payload per commit before a flush
}

func NewPublisher(client *Client, log *slog.Logger, batchBytes int64) *Publisher {
	return &Publisher{
		client:     client,
		log:        log,
		batchBytes: batchBytes,
	}
}

// Push consumes records, stages them in a temporary imagefolder tree, and
// uploads the tree to repo in batched commits. It returns the number of
// records pushed. Any extraction or upload error aborts the push; nothing
// is retained on failure beyond commits already accepted by the hub.
func (p *Publisher) Push(ctx context.Context, repo, configName string, records iter.Seq2[dataset.Record, error]) (int, error) {
	stage, err := os.MkdirTemp("", "trpexport-stage-*")
	if err != nil {
		return 0, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(stage)

	w, err := dataset.NewWriter(stage, configName)
	if err != nil {
		return 0, err
	}
	for rec, err := range records {
		if err != nil {
			return 0, err
		}
		if err := w.Add(rec); err != nil {
			return 0, err
		}
	}
	if err := w.Close(); err != nil {
		return 0, err
	}
	p.log.Info("dataset staged", "records", w.Count(), "config", configName)

	if err := p.uploadTree(ctx, repo, stage); err != nil {
		return 0, err
	}
	return w.Count(), nil
}

// uploadTree commits every file under stage, batching by payload size.
func (p *Publisher) uploadTree(ctx context.Context, repo, stage string) error {
	var batch []CommitFile
	var batchSize int64
	committed := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		summary := fmt.Sprintf("Upload %d files", len(batch))
		if err := p.commitWithRetry(ctx, repo, summary, batch); err != nil {
			return err
		}
		committed += len(batch)
		p.log.Info("commit accepted", "files", len(batch), "bytes", batchSize, "total", committed)
		batch = nil
		batchSize = 0
		return nil
	}

	err := filepath.WalkDir(stage, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read staged file: %w", err)
		}
		rel, err := filepath.Rel(stage, path)
		if err != nil {
			return err
		}
		batch = append(batch, CommitFile{Path: filepath.ToSlash(rel), Content: content})
		batchSize += int64(len(content))
		if batchSize >= p.batchBytes {
			return flush()
		}
		return nil
	})
	if err != nil {
		return err
	}
	return flush()
}

func (p *Publisher) commitWithRetry(ctx context.Context, repo, summary string, files []CommitFile) error {
	var lastErr error
	for attempt := range MaxRetries {
		lastErr = p.client.Commit(ctx, repo, "main", summary, files)
		if lastErr == nil || !IsRetryable(lastErr) {
			return lastErr
		}
		p.log.Warn("retryable commit error", "attempt", attempt, "error", lastErr)
		select {
		case <-time.After(Backoff(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
