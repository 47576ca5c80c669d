// Package execlog wraps service calls with entry, success and failure log
// lines without touching their arguments, results or errors.
//
// Callers pick the wrapper that matches the call's kind when they build it:
// Blocking for functions that return their result directly, Async for
// functions that hand back a *Future.
package execlog

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/anime-catalog/internal/platform/config"
	"github.com/example/anime-catalog/internal/platform/logging"
)

// ErrNilFuture is the error of a wrapped async call whose function returned
// no Future.
var ErrNilFuture = errors.New("execlog: async function returned a nil future")

// Config is fixed for the lifetime of a wrapped function.
type Config struct {
	Level         zapcore.Level
	IncludeArgs   bool
	IncludeResult bool
	LogErrors     bool
}

func DefaultConfig() Config {
	return Config{Level: zapcore.InfoLevel, IncludeArgs: true, IncludeResult: true, LogErrors: true}
}

// FromSettings builds a Config from the logging section of the app config.
func FromSettings(cfg config.LogConfig) Config {
	return Config{
		Level:         logging.ParseLevel(cfg.Level),
		IncludeArgs:   cfg.IncludeArgs,
		IncludeResult: cfg.IncludeResult,
		LogErrors:     cfg.Errors,
	}
}

type BlockingFunc[A, R any] func(ctx context.Context, arg A) (R, error)

type AsyncFunc[A, R any] func(ctx context.Context, arg A) *Future[R]

// Blocking wraps fn so that each call logs its entry before fn runs and its
// outcome after fn returns. An empty name is derived from fn.
func Blocking[A, R any](log *zap.Logger, cfg Config, name string, fn BlockingFunc[A, R]) BlockingFunc[A, R] {
	c := newCall(log, cfg, name, fn)
	return func(ctx context.Context, arg A) (R, error) {
		start := c.enter(arg)
		res, err := fn(ctx, arg)
		c.exit(start, res, err)
		return res, err
	}
}

// Async wraps fn so that each call logs its entry before fn starts and its
// outcome once fn's Future completes. The returned Future resolves only after
// the outcome line is written.
func Async[A, R any](log *zap.Logger, cfg Config, name string, fn AsyncFunc[A, R]) AsyncFunc[A, R] {
	c := newCall(log, cfg, name, fn)
	return func(ctx context.Context, arg A) *Future[R] {
		start := c.enter(arg)
		inner := fn(ctx, arg)
		if inner == nil {
			var zero R
			c.exit(start, zero, ErrNilFuture)
			return Resolved(zero, ErrNilFuture)
		}
		return Go(func() (R, error) {
			res, err := inner.join()
			c.exit(start, res, err)
			return res, err
		})
	}
}

type call struct {
	log  *zap.Logger
	cfg  Config
	name string
}

func newCall(log *zap.Logger, cfg Config, name string, fn any) call {
	if log == nil {
		log = zap.NewNop()
	}
	if strings.TrimSpace(name) == "" {
		name = FuncName(fn)
	}
	return call{log: log, cfg: cfg, name: name}
}

func (c call) enter(arg any) time.Time {
	msg := "start executing function: " + c.name
	if c.cfg.IncludeArgs {
		msg += " - params: [" + argsOf(arg).String() + "]"
	}
	c.log.Log(c.cfg.Level, msg)
	return time.Now()
}

func (c call) exit(start time.Time, res any, err error) {
	elapsed := zap.Duration("elapsed", time.Since(start))
	if err != nil {
		if c.cfg.LogErrors {
			c.log.Error(fmt.Sprintf("function %s failed - error: %s", c.name, err.Error()), elapsed)
		}
		return
	}
	msg := "function " + c.name + " succeeded"
	if c.cfg.IncludeResult {
		msg += " - result: " + fmt.Sprint(res)
	}
	c.log.Log(c.cfg.Level, msg, elapsed)
}

// FuncName returns the package-qualified name of a function value,
// e.g. "anime.(*Service).searchByTitle".
func FuncName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "unknown"
	}
	rf := runtime.FuncForPC(v.Pointer())
	if rf == nil {
		return "unknown"
	}
	name := rf.Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, "-fm")
}
