package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := strings.TrimRight(b.buf.String(), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestRegistry_LineFormat(t *testing.T) {
	out := &syncBuffer{}
	reg := New(Options{Name: "anicat", Level: "INFO", Console: out})

	reg.Logger("anime").Info("hello")

	lines := out.lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), lines)
	}
	parts := strings.Split(lines[0], " - ")
	if len(parts) != 6 {
		t.Fatalf("expected 6 segments, got %d: %q", len(parts), lines[0])
	}
	if parts[1] != "anicat.anime" {
		t.Fatalf("expected child logger name, got %q", parts[1])
	}
	if parts[2] != "INFO" {
		t.Fatalf("expected INFO, got %q", parts[2])
	}
	if !strings.HasPrefix(parts[3], "logging/logging_test.go:") {
		t.Fatalf("expected caller location, got %q", parts[3])
	}
	if !strings.Contains(parts[4], "TestRegistry_LineFormat") {
		t.Fatalf("expected function name, got %q", parts[4])
	}
	if parts[5] != "hello" {
		t.Fatalf("expected message, got %q", parts[5])
	}
}

func TestRegistry_FieldsTrailMessage(t *testing.T) {
	out := &syncBuffer{}
	reg := New(Options{Console: out})

	reg.Logger("").Info("done", zap.Int("count", 2))

	lines := out.lines()
	if len(lines) != 1 || !strings.HasSuffix(lines[0], `done - {"count": 2}`) {
		t.Fatalf("unexpected line: %q", lines)
	}
}

func TestRegistry_Threshold(t *testing.T) {
	out := &syncBuffer{}
	reg := New(Options{Level: "warning", Console: out})

	log := reg.Logger("x")
	log.Info("dropped")
	log.Warn("kept")

	lines := out.lines()
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "kept") {
		t.Fatalf("expected only the warning line, got %q", lines)
	}
}

func TestRegistry_InitIsIdempotent(t *testing.T) {
	out := &syncBuffer{}
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	reg := New(Options{Console: out, FilePath: path})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.Init()
			_ = reg.Logger("svc")
		}()
	}
	wg.Wait()

	sinks := reg.Sinks()
	if len(sinks) != 2 || sinks[0] != SinkConsole || sinks[1] != SinkFile {
		t.Fatalf("expected one console and one file sink, got %v", sinks)
	}

	reg.Logger("svc").Info("once")
	if err := reg.Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n := len(out.lines()); n != 1 {
		t.Fatalf("expected exactly one console line, got %d", n)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if got := strings.Count(string(b), "once"); got != 1 {
		t.Fatalf("expected one file line, got %d: %q", got, b)
	}
}

func TestRegistry_NoFileSinkWhenPathEmpty(t *testing.T) {
	reg := New(Options{Console: &syncBuffer{}})
	if sinks := reg.Sinks(); len(sinks) != 1 || sinks[0] != SinkConsole {
		t.Fatalf("expected console only, got %v", sinks)
	}
}

func TestRegistry_UnwritableFileFailsInit(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}
	reg := New(Options{Console: &syncBuffer{}, FilePath: filepath.Join(blocker, "app.log")})

	if err := reg.Init(); err == nil {
		t.Fatal("expected init error for a path under a regular file")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected Logger to panic on a failed registry")
		}
	}()
	_ = reg.Logger("x")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"DEBUG":    zapcore.DebugLevel,
		"info":     zapcore.InfoLevel,
		"Warning":  zapcore.WarnLevel,
		"warn":     zapcore.WarnLevel,
		"ERROR":    zapcore.ErrorLevel,
		"critical": zapcore.ErrorLevel,
		"bogus":    zapcore.InfoLevel,
		"":         zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestShortFunction(t *testing.T) {
	if got := shortFunction("github.com/example/anime-catalog/internal/platform/logging.TestX"); got != "logging.TestX" {
		t.Fatalf("unexpected %q", got)
	}
	if got := shortFunction(""); got != "-" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestInstallAndGet(t *testing.T) {
	out := &syncBuffer{}
	if !Install(New(Options{Name: "anicat", Level: "debug", Console: out})) {
		t.Fatal("expected first install to win")
	}
	if Install(New(Options{Name: "other"})) {
		t.Fatal("expected second install to be rejected")
	}

	Get("anime").Debug("via default")
	lines := out.lines()
	if len(lines) != 1 || !strings.Contains(lines[0], " - anicat.anime - DEBUG - ") {
		t.Fatalf("expected line from the installed registry, got %q", lines)
	}
	if Default().Logger("") == nil {
		t.Fatal("expected root logger")
	}
}
