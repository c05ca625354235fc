package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStdLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Prefix: "[test] ", Writer: &buf, Level: LevelWarn, NoColor: true})

	l.Infof("hidden %d", 1)
	l.Warnf("shown %d", 2)
	l.Errorf("shown %d", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info line should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "[test] ") {
		t.Errorf("prefix missing:\n%s", out)
	}
	for _, want := range []string{"WARN", "shown 2", "ERROR", "shown 3"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestStdLogger_With(t *testing.T) {
	var buf bytes.Buffer
	base := New(Options{Prefix: "[root] ", Writer: &buf, NoColor: true})
	base.With("[engine] ").Infof("hello")

	if !strings.Contains(buf.String(), "[engine] ") {
		t.Errorf("With() should switch the prefix:\n%s", buf.String())
	}
}

func TestStdLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdsync.log")
	var console bytes.Buffer

	l := New(Options{Writer: &console, NoColor: true, File: path})
	l.Errorf("disk full")
	if err := l.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "ERROR disk full") {
		t.Errorf("log file missing line:\n%s", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"bogus":   LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	m.Errorf("Directory does not exist: %s", "/nope")

	if !m.Contains(LevelError, "/nope") {
		t.Error("Contains() should find the recorded error")
	}
	if m.Contains(LevelWarn, "/nope") {
		t.Error("Contains() should respect the level")
	}
}
