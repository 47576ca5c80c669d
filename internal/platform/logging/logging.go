// Package logging owns the process-wide logger registry: one root zap logger
// with a console sink and an optional rotating file sink, plus named children.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/example/anime-catalog/internal/platform/config"
)

const (
	SinkConsole = "console"
	SinkFile    = "file"
)

// Options configures a Registry. Zero values fall back to sensible defaults.
type Options struct {
	Name        string
	Level       string
	Development bool
	FilePath    string
	MaxSizeMB   int
	MaxBackups  int
	MaxAgeDays  int
	Compress    bool

	// Console overrides stdout, mainly for tests.
	Console io.Writer
}

// OptionsFrom maps the application config onto registry options.
func OptionsFrom(cfg config.AppConfig) Options {
	return Options{
		Name:        strings.ToLower(cfg.AppName),
		Level:       cfg.Log.Level,
		Development: cfg.Debug,
		FilePath:    cfg.Log.FilePath,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
		Compress:    cfg.Log.Compress,
	}
}

// Registry builds its root logger on first use and hands out named children
// that share the root's sinks. Sinks are attached exactly once.
type Registry struct {
	opts Options

	once  sync.Once
	err   error
	root  *zap.Logger
	sinks []string
	syncs []zapcore.WriteSyncer
}

func New(opts Options) *Registry {
	if strings.TrimSpace(opts.Name) == "" {
		opts.Name = "anicat"
	}
	return &Registry{opts: opts}
}

// Init attaches the sinks. Later calls return the first call's result.
func (r *Registry) Init() error {
	r.once.Do(func() {
		r.err = r.build()
	})
	return r.err
}

// Logger returns the root logger for an empty name and "<root>.<name>" otherwise.
// It panics if the registry could not be initialized.
func (r *Registry) Logger(name string) *zap.Logger {
	if err := r.Init(); err != nil {
		panic(fmt.Errorf("logging: registry unusable: %w", err))
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return r.root
	}
	return r.root.Named(name)
}

// Sinks lists the attached sinks in attach order.
func (r *Registry) Sinks() []string {
	if r.Init() != nil {
		return nil
	}
	return append([]string(nil), r.sinks...)
}

func (r *Registry) Sync() error {
	if r.Init() != nil {
		return nil
	}
	var firstErr error
	for _, ws := range r.syncs {
		if err := ws.Sync(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Registry) build() error {
	level := ParseLevel(r.opts.Level)
	enc := newLineEncoder()

	console := r.opts.Console
	if console == nil {
		console = os.Stdout
	}
	consoleWS := zapcore.Lock(zapcore.AddSync(console))
	cores := []zapcore.Core{zapcore.NewCore(enc, consoleWS, level)}
	r.sinks = append(r.sinks, SinkConsole)
	r.syncs = append(r.syncs, consoleWS)

	if path := strings.TrimSpace(r.opts.FilePath); path != "" {
		fileWS, err := openFileSink(r.opts, path)
		if err != nil {
			return err
		}
		cores = append(cores, zapcore.NewCore(enc.Clone(), fileWS, level))
		r.sinks = append(r.sinks, SinkFile)
		r.syncs = append(r.syncs, fileWS)
	}

	opts := []zap.Option{zap.AddCaller()}
	if r.opts.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	r.root = zap.New(zapcore.NewTee(cores...), opts...).Named(r.opts.Name)
	return nil
}

func openFileSink(opts Options, path string) (zapcore.WriteSyncer, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("logging: create log directory: %w", err)
		}
	}
	// lumberjack opens lazily; probe now so a bad path fails at startup.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	_ = f.Close()

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}), nil
}

// ParseLevel accepts zap level names in any case plus "warning" and "critical".
// Unknown values map to info.
func ParseLevel(level string) zapcore.Level {
	switch s := strings.ToLower(strings.TrimSpace(level)); s {
	case "warning":
		return zapcore.WarnLevel
	case "critical":
		return zapcore.ErrorLevel
	default:
		lvl := zapcore.InfoLevel
		if err := lvl.Set(s); err != nil {
			return zapcore.InfoLevel
		}
		return lvl
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Install makes r the process-wide registry. It reports false when a registry
// was already installed or built by Default.
func Install(r *Registry) bool {
	installed := false
	defaultOnce.Do(func() {
		defaultReg = r
		installed = true
	})
	return installed
}

// Default returns the process-wide registry, building it from the loaded
// configuration when nothing was installed.
func Default() *Registry {
	defaultOnce.Do(func() {
		cfg, err := config.Load()
		if err != nil {
			cfg = config.Defaults()
		}
		defaultReg = New(OptionsFrom(cfg))
	})
	return defaultReg
}

// Get is shorthand for Default().Logger(name).
func Get(name string) *zap.Logger {
	return Default().Logger(name)
}
