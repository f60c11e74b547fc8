package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	kerrors "github.com/tobagin/secrets/internal/errors"
)

// BulkOptions tunes GetBulkContents.
type BulkOptions struct {
	// WarmupCount entries are decrypted one at a time before the pool
	// starts, so gpg-agent has the key unlocked before parallel requests.
	WarmupCount   int
	MaxConcurrent int
	Pacing        time.Duration
	Timeout       time.Duration
}

// DefaultBulkOptions returns a warm-up of 3, 2 workers, 100ms pacing and a
// 45 second per-entry timeout.
func DefaultBulkOptions() BulkOptions {
	return BulkOptions{
		WarmupCount:   3,
		MaxConcurrent: 2,
		Pacing:        100 * time.Millisecond,
		Timeout:       45 * time.Second,
	}
}

func (o BulkOptions) withDefaults() BulkOptions {
	d := DefaultBulkOptions()
	if o == (BulkOptions{}) {
		return d
	}
	if o.WarmupCount < 0 {
		o.WarmupCount = 0
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = d.MaxConcurrent
	}
	if o.Pacing < 0 {
		o.Pacing = 0
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	return o
}

// BulkResult is the outcome of decrypting one entry in a batch.
type BulkResult struct {
	OK      bool
	Content string
	Err     string
}

// GetBulkContents decrypts paths and returns exactly one result per
// distinct path. Cached entries are served first. The rest go through a
// sequential warm-up followed by a pool of min(maxWorkers, MaxConcurrent)
// workers. A failing entry never aborts the batch; a cancelled context
// marks the entries not yet started as failed.
func (s *Store) GetBulkContents(ctx context.Context, paths []string, maxWorkers int) map[string]BulkResult {
	results := make(map[string]BulkResult, len(paths))
	var mu sync.Mutex
	record := func(path string, r BulkResult) {
		mu.Lock()
		results[path] = r
		mu.Unlock()
	}

	done := s.cache.BeginBulk()
	defer done()

	var pending []string
	seen := make(map[string]bool, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true

		if err := ValidatePath(p); err != nil {
			results[p] = failed(err)
			continue
		}
		if content, ok := s.cache.Get(p); ok {
			results[p] = BulkResult{OK: true, Content: content}
			continue
		}
		pending = append(pending, p)
	}
	if len(pending) == 0 {
		return results
	}

	s.log.Infof("Decrypting %d entries (%d cached)", len(pending), len(results))
	s.warmAgent(ctx)

	warm := min(s.bulk.WarmupCount, len(pending))
	for i, p := range pending[:warm] {
		if i > 0 && !s.pause(ctx) {
			break
		}
		record(p, s.decryptOne(ctx, p))
	}

	workers := s.bulk.MaxConcurrent
	if maxWorkers > 0 {
		workers = min(maxWorkers, workers)
	}

	g := new(errgroup.Group)
	g.SetLimit(workers)
	for _, p := range pending[warm:] {
		if ctx.Err() != nil {
			break
		}
		p := p
		g.Go(func() error {
			record(p, s.decryptOne(ctx, p))
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range pending {
		if _, ok := results[p]; !ok {
			results[p] = failed(ctx.Err())
		}
	}
	return results
}

func (s *Store) decryptOne(ctx context.Context, path string) BulkResult {
	if err := ctx.Err(); err != nil {
		return failed(err)
	}
	content, err := s.getContent(ctx, path, s.bulk.Timeout)
	if err != nil {
		s.log.Debugf("Bulk decrypt of %s failed: %v", path, err)
		return failed(err)
	}
	return BulkResult{OK: true, Content: content}
}

// warmAgent signs once with the store's key so the passphrase prompt
// happens before any decryption. Failure only costs an extra prompt later.
func (s *Store) warmAgent(ctx context.Context) {
	keyID := ""
	if ids, err := s.GPGIDs(); err == nil && len(ids) > 0 {
		keyID = ids[0]
	}
	if err := s.gpg.WarmAgent(ctx, keyID); err != nil {
		s.log.Warnf("Could not warm gpg-agent: %v", err)
	}
}

func (s *Store) pause(ctx context.Context) bool {
	if s.bulk.Pacing <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(s.bulk.Pacing)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func failed(err error) BulkResult {
	if err == nil {
		err = kerrors.ErrCommandFailed
	}
	return BulkResult{Err: kerrors.UserMessage(err)}
}
