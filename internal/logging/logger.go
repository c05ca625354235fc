// Package logging provides the levelled, prefixed loggers used across mdsync.
//
// Console output goes through a standard log.Logger with a component prefix
// ("[engine] ", "[watch] ") and lipgloss-styled level tags. An optional
// rotating file sink receives the same lines without styling.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the sink every component logs through.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the tag printed for the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps a config string to a Level, defaulting to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Options configures New.
type Options struct {
	// Prefix is prepended to every line, e.g. "[engine] ".
	Prefix string

	// Level is the minimum severity written.
	Level Level

	// Writer receives console output (default: os.Stderr).
	Writer io.Writer

	// NoColor disables level styling even on a terminal.
	NoColor bool

	// File, when set, also writes plain lines to a rotating log file.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// StdLogger implements Logger on top of log.Logger.
type StdLogger struct {
	console *log.Logger
	file    *log.Logger
	closer  io.Closer
	level   Level
	tags    map[Level]string
}

// New creates a StdLogger from opts.
func New(opts Options) *StdLogger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	renderer := lipgloss.NewRenderer(w)
	if opts.NoColor || !IsTerminal(w) {
		renderer.SetColorProfile(termenv.Ascii)
	}

	l := &StdLogger{
		console: log.New(w, opts.Prefix, log.LstdFlags),
		level:   opts.Level,
		tags:    levelTags(renderer),
	}

	if opts.File != "" {
		maxSize := opts.MaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    maxSize,
			MaxBackups: opts.MaxBackups,
		}
		l.file = log.New(rotating, opts.Prefix, log.LstdFlags)
		l.closer = rotating
	}

	return l
}

// With returns a logger sharing l's sinks and level but using prefix.
func (l *StdLogger) With(prefix string) *StdLogger {
	clone := *l
	clone.console = log.New(l.console.Writer(), prefix, l.console.Flags())
	if l.file != nil {
		clone.file = log.New(l.file.Writer(), prefix, l.file.Flags())
	}
	clone.closer = nil
	return &clone
}

// Close releases the log file, if any.
func (l *StdLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

func (l *StdLogger) Debugf(format string, args ...any) { l.emit(LevelDebug, format, args) }
func (l *StdLogger) Infof(format string, args ...any)  { l.emit(LevelInfo, format, args) }
func (l *StdLogger) Warnf(format string, args ...any)  { l.emit(LevelWarn, format, args) }
func (l *StdLogger) Errorf(format string, args ...any) { l.emit(LevelError, format, args) }

func (l *StdLogger) emit(level Level, format string, args []any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.console.Printf("%s %s", l.tags[level], msg)
	if l.file != nil {
		l.file.Printf("%-5s %s", level, msg)
	}
}

func levelTags(r *lipgloss.Renderer) map[Level]string {
	colors := map[Level]lipgloss.Color{
		LevelDebug: lipgloss.Color("#6B7280"),
		LevelInfo:  lipgloss.Color("#10B981"),
		LevelWarn:  lipgloss.Color("#F59E0B"),
		LevelError: lipgloss.Color("#EF4444"),
	}

	tags := make(map[Level]string, len(colors))
	for level, color := range colors {
		style := r.NewStyle().Foreground(color).Bold(level >= LevelWarn)
		tags[level] = style.Render(fmt.Sprintf("%-5s", level))
	}
	return tags
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	return New(Options{Writer: io.Discard, NoColor: true, Level: LevelError + 1})
}

// Entry is one line captured by Memory.
type Entry struct {
	Level   Level
	Message string
}

// Memory records log lines in memory; tests use it to assert on output.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemory returns an empty Memory logger.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Debugf(format string, args ...any) { m.record(LevelDebug, format, args) }
func (m *Memory) Infof(format string, args ...any)  { m.record(LevelInfo, format, args) }
func (m *Memory) Warnf(format string, args ...any)  { m.record(LevelWarn, format, args) }
func (m *Memory) Errorf(format string, args ...any) { m.record(LevelError, format, args) }

func (m *Memory) record(level Level, format string, args []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: fmt.Sprintf(format, args...)})
}

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Contains reports whether a line at level contains substr.
func (m *Memory) Contains(level Level, substr string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
