package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	kerrors "github.com/tobagin/secrets/internal/errors"
	"github.com/tobagin/secrets/internal/utils"
)

// TimestampFormat is the layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	User      string `json:"user"` // Local account running the app.
	Operation string `json:"op"`

	Path   string `json:"path,omitempty"`
	Target string `json:"target,omitempty"` // For mv.
	Count  int    `json:"count,omitempty"`  // For bulk operations.
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Time parses the entry timestamp.
func (e Entry) Time() (time.Time, error) {
	return time.Parse(TimestampFormat, e.Timestamp)
}

// Log appends entries to a JSON Lines file.
type Log struct {
	mu      sync.Mutex
	path    string
	enabled bool
	user    string

	now func() time.Time
}

// New returns a Log writing to path. A disabled log records nothing but
// can still be read.
func New(path string, enabled bool) *Log {
	user, _ := utils.GetUsername()
	return &Log{path: path, enabled: enabled, user: user, now: time.Now}
}

// Path returns the path to the audit log file.
func (l *Log) Path() string {
	return l.path
}

// Enabled reports whether Record writes anything.
func (l *Log) Enabled() bool {
	return l.enabled
}

// Entry returns an entry for op with the user filled in.
func (l *Log) Entry(op string) Entry {
	return Entry{User: l.user, Operation: op}
}

// Record appends entry with the outcome err.
// If writing fails the error is swallowed. Operations should not fail just
// because audit logging failed.
func (l *Log) Record(entry Entry, err error) {
	if !l.enabled || l.path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = l.now().UTC().Format(TimestampFormat)
	}
	entry.OK = err == nil
	if err != nil {
		entry.Error = kerrors.UserMessage(err)
	}

	data, mErr := json.Marshal(entry)
	if mErr != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if mkErr := os.MkdirAll(filepath.Dir(l.path), 0700); mkErr != nil {
		return
	}
	f, oErr := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if oErr != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// ReadEntries reads all entries from the audit log.
// Returns ErrNoAuditLog if the log doesn't exist.
func (l *Log) ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, kerrors.ErrNoAuditLog
	}
	if err != nil {
		return nil, err
	}
	return ParseEntries(data)
}

// Prune removes entries older than retention. A retention of zero or less
// keeps everything.
func (l *Log) Prune(retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	entries, _ := ParseEntries(data)
	cutoff := l.now().Add(-retention)

	var kept strings.Builder
	removed := 0
	for _, e := range entries {
		if ts, err := e.Time(); err == nil && ts.Before(cutoff) {
			removed++
			continue
		}
		line, err := json.Marshal(e)
		if err != nil {
			continue
		}
		kept.Write(line)
		kept.WriteByte('\n')
	}
	if removed == 0 {
		return 0, nil
	}

	if err := utils.WriteFileAtomic(l.path, []byte(kept.String()), 0600); err != nil {
		return 0, err
	}
	return removed, nil
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
