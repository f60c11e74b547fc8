package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARNING"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel accepts debug, info, warning/warn and error/critical.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warning", "warn":
		return LevelWarn, nil
	case "error", "critical":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

type Logger struct {
	Verbose bool
	Debug   bool

	// File, when set, receives every record at or above FileLevel.
	File      io.Writer
	FileLevel Level
}

// Options configures New.
type Options struct {
	Verbose bool
	Debug   bool

	Level      string
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	Compress   bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a Logger. When opts.Dir is empty only console output is
// produced. The returned closer releases the log file.
func New(opts Options) (Logger, io.Closer, error) {
	l := Logger{Verbose: opts.Verbose || opts.Debug, Debug: opts.Debug}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return l, nopCloser{}, err
	}
	l.FileLevel = level

	if opts.Dir == "" {
		return l, nopCloser{}, nil
	}

	if err := os.MkdirAll(opts.Dir, 0700); err != nil {
		return l, nopCloser{}, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := opts.FileName
	if name == "" {
		name = "secrets.log"
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(opts.Dir, name),
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   opts.Compress,
		LocalTime:  true,
	}
	l.File = rotator

	return l, rotator, nil
}

func (l Logger) Infof(msg string, args ...any) {
	if l.Verbose {
		fmt.Fprintf(os.Stdout, color.GreenString("[info] ")+msg+"\n", args...)
	}
	l.record(LevelInfo, msg, args...)
}

func (l Logger) Debugf(msg string, args ...any) {
	if l.Debug {
		fmt.Fprintf(os.Stdout, color.CyanString("[debug] ")+msg+"\n", args...)
	}
	l.record(LevelDebug, msg, args...)
}

func (l Logger) Warnf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.YellowString("[warn] ")+msg+"\n", args...)
	l.record(LevelWarn, msg, args...)
}

func (l Logger) Errorf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, color.RedString("[error] ")+msg+"\n", args...)
	l.record(LevelError, msg, args...)
}

// record writes one line to the file sink. Each line is a single Write so
// concurrent goroutines never interleave within a record.
func (l Logger) record(level Level, msg string, args ...any) {
	if l.File == nil || level < l.FileLevel {
		return
	}
	line := fmt.Sprintf("%s %-7s %s\n",
		time.Now().Format("2006-01-02T15:04:05.000Z07:00"),
		level.String(),
		fmt.Sprintf(msg, args...))
	_, _ = io.WriteString(l.File, line)
}
