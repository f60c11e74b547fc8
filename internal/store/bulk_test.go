package store

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func bulkEntries(n int) (map[string]string, []string) {
	entries := make(map[string]string, n)
	paths := make([]string, 0, n)
	for i := 0; i < n; i++ {
		p := fmt.Sprintf("site/%02d", i)
		entries[p] = "pw-" + p
		paths = append(paths, p)
	}
	return entries, paths
}

func TestGetBulkContents_OneResultPerPath(t *testing.T) {
	entries, paths := bulkEntries(8)
	s, runner, _ := newTestStore(t, entries)

	results := s.GetBulkContents(context.Background(), paths, 4)

	if len(results) != len(paths) {
		t.Fatalf("Expected %d results, got %d", len(paths), len(results))
	}
	for _, p := range paths {
		r := results[p]
		if !r.OK || r.Content != "pw-"+p {
			t.Errorf("Unexpected result for %s: %+v", p, r)
		}
	}

	shows := 0
	for _, c := range runner.calls() {
		if c.Name != "pass" || len(c.Args) == 0 || c.Args[0] != "show" {
			continue
		}
		shows++
		if c.Timeout != time.Second {
			t.Errorf("Expected bulk timeout %s for %s, got %s", time.Second, c, c.Timeout)
		}
	}
	if shows != len(paths) {
		t.Errorf("Expected %d decryptions, got %d", len(paths), shows)
	}
}

func TestGetBulkContents_WarmsAgentThenWarmsUpSequentially(t *testing.T) {
	entries, paths := bulkEntries(10)
	s, runner, _ := newTestStore(t, entries)
	runner.delay = 5 * time.Millisecond

	s.GetBulkContents(context.Background(), paths, 8)

	calls := runner.calls()
	if !isCommand(calls[0], "gpg", "--yes", "--clearsign", "--local-user", "ABCDEF0123456789") {
		t.Fatalf("Expected agent warm-up first, got %s", calls[0])
	}

	runner.mu.Lock()
	defer runner.mu.Unlock()
	if len(runner.showFlight) != 10 {
		t.Fatalf("Expected 10 decryptions, got %d", len(runner.showFlight))
	}
	for i, n := range runner.showFlight[:3] {
		if n != 1 {
			t.Errorf("Warm-up decryption %d ran with %d in flight", i, n)
		}
	}
	if runner.maxFlight > 2 {
		t.Errorf("Expected at most 2 concurrent decryptions, saw %d", runner.maxFlight)
	}
}

func TestGetBulkContents_WarmupNeverExceedsInput(t *testing.T) {
	entries, paths := bulkEntries(2)
	s, runner, _ := newTestStore(t, entries)

	results := s.GetBulkContents(context.Background(), paths, 2)
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if n := runner.countShows(); n != 2 {
		t.Errorf("Expected 2 decryptions, got %d", n)
	}
}

func TestGetBulkContents_RespectsRequestedWorkers(t *testing.T) {
	entries, paths := bulkEntries(8)
	s, runner, _ := newTestStore(t, entries)
	runner.delay = 2 * time.Millisecond

	s.GetBulkContents(context.Background(), paths, 1)

	if runner.maxFlight != 1 {
		t.Errorf("Expected serial decryption with one worker, saw %d in flight", runner.maxFlight)
	}
}

func TestGetBulkContents_ServesCachedEntries(t *testing.T) {
	entries, paths := bulkEntries(3)
	s, runner, _ := newTestStore(t, entries)

	s.GetBulkContents(context.Background(), paths, 2)
	before := len(runner.calls())

	results := s.GetBulkContents(context.Background(), paths, 2)
	if len(runner.calls()) != before {
		t.Errorf("Expected cached entries to need no subprocess, saw %d new calls", len(runner.calls())-before)
	}
	for _, p := range paths {
		if !results[p].OK {
			t.Errorf("Expected cached result for %s", p)
		}
	}
}

func TestGetBulkContents_PerEntryFailures(t *testing.T) {
	entries, paths := bulkEntries(5)
	s, runner, _ := newTestStore(t, entries)
	runner.fail[paths[1]] = true
	runner.fail[paths[4]] = true

	input := append([]string{"../escape", paths[0]}, paths...)
	results := s.GetBulkContents(context.Background(), input, 2)

	if len(results) != 6 {
		t.Fatalf("Expected one result per distinct path (6), got %d", len(results))
	}
	if r := results["../escape"]; r.OK || r.Err != "Invalid password path." {
		t.Errorf("Expected invalid path failure, got %+v", r)
	}
	for i, p := range paths {
		wantOK := i != 1 && i != 4
		if results[p].OK != wantOK {
			t.Errorf("Result for %s: expected OK=%v, got %+v", p, wantOK, results[p])
		}
	}
	if s.cache.BulkMode() {
		t.Error("Expected bulk mode to end after GetBulkContents")
	}
}

func TestGetBulkContents_CancelledContext(t *testing.T) {
	entries, paths := bulkEntries(6)
	s, runner, _ := newTestStore(t, entries)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := s.GetBulkContents(ctx, paths, 2)
	if len(results) != 6 {
		t.Fatalf("Expected 6 results, got %d", len(results))
	}
	for p, r := range results {
		if r.OK {
			t.Errorf("Expected %s to fail after cancellation", p)
		}
	}
	if n := runner.countShows(); n != 0 {
		t.Errorf("Expected no decryptions after cancellation, got %d", n)
	}
}
