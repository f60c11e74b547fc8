package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tobagin/secrets/internal/app"
	"github.com/tobagin/secrets/internal/audit"
	kerrors "github.com/tobagin/secrets/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by local user name.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Path filters entries by entry path or folder prefix.
	Path string

	// FailedOnly keeps only unsuccessful operations.
	FailedOnly bool

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log.
//
// Returns ErrNoAuditLog if no audit log exists.
// Returns ErrInvalidDateFormat if the date format is invalid.
func Log(ctx context.Context, a *app.Context, opts LogOptions) (*LogResult, error) {
	entries, err := a.Audit.ReadEntries()
	if err != nil {
		return nil, err
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	if len(entries) == 0 {
		result.Entries = entries
		return result, nil
	}

	filtered := entries

	if opts.User != "" {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return strings.EqualFold(e.User, opts.User)
		})
	}

	if opts.Operations != "" {
		ops := make(map[string]bool)
		for _, op := range strings.Split(opts.Operations, ",") {
			ops[strings.ToLower(strings.TrimSpace(op))] = true
		}
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return ops[strings.ToLower(e.Operation)]
		})
	}

	if opts.Path != "" {
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			return e.Path == opts.Path || strings.HasPrefix(e.Path, opts.Path+"/") || e.Target == opts.Path
		})
	}

	if opts.FailedOnly {
		filtered = filterEntries(filtered, func(e audit.Entry) bool { return !e.OK })
	}

	if opts.Since != "" {
		sinceTime, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			t, err := e.Time()
			return err == nil && !t.Before(sinceTime)
		})
	}

	if opts.Until != "" {
		untilTime, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day by setting to end of day.
		untilTime = untilTime.Add(24*time.Hour - time.Nanosecond)
		filtered = filterEntries(filtered, func(e audit.Entry) bool {
			t, err := e.Time()
			return err == nil && !t.After(untilTime)
		})
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// When reversed, limit takes first N (most recent).
			filtered = filtered[:opts.Limit]
		} else {
			// When not reversed, limit takes last N (most recent).
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func filterEntries(entries []audit.Entry, keep func(audit.Entry) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	if err != nil {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails formats the subject of a log entry.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case "move":
		return fmt.Sprintf("%s -> %s", e.Path, e.Target)
	case "warm":
		if e.Path != "" {
			return fmt.Sprintf("%d entries in %s", e.Count, e.Path)
		}
		return fmt.Sprintf("%d entries", e.Count)
	case "init":
		return e.Target
	default:
		return e.Path
	}
}
