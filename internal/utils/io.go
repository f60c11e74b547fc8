package utils

import (
	"fmt"
	"io"
	"os"
)

// MaxEntrySize bounds the entry content accepted from stdin.
const MaxEntrySize = 1 << 20

// ReadStdin reads piped entry content from stdin. It fails when stdin is a
// terminal, is empty, or holds more than MaxEntrySize bytes.
func ReadStdin() ([]byte, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return nil, fmt.Errorf("no data provided on stdin (hint: pipe the entry content to this command)")
	}
	return readLimited(os.Stdin, MaxEntrySize)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	switch {
	case len(data) == 0:
		return nil, fmt.Errorf("stdin is empty")
	case int64(len(data)) > limit:
		return nil, fmt.Errorf("entry content exceeds %d bytes", limit)
	}
	return data, nil
}
