package logging

import (
	"strings"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	lineSeparator = " - "
	timeLayout    = "2006-01-02 15:04:05"
)

var linePool = buffer.NewPool()

// lineEncoder writes "time - name - LEVEL - file:line - function - message".
// Context fields are delegated to a console encoder and trail the message as JSON.
type lineEncoder struct {
	zapcore.Encoder
}

func newLineEncoder() zapcore.Encoder {
	return lineEncoder{Encoder: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		ConsoleSeparator: lineSeparator,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
	})}
}

func (e lineEncoder) Clone() zapcore.Encoder {
	return lineEncoder{Encoder: e.Encoder.Clone()}
}

func (e lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	tail, err := e.Encoder.EncodeEntry(zapcore.Entry{Message: ent.Message, Stack: ent.Stack}, fields)
	if err != nil {
		return nil, err
	}
	defer tail.Free()

	line := linePool.Get()
	line.AppendString(ent.Time.Format(timeLayout))
	line.AppendString(lineSeparator)
	line.AppendString(ent.LoggerName)
	line.AppendString(lineSeparator)
	line.AppendString(ent.Level.CapitalString())
	line.AppendString(lineSeparator)
	line.AppendString(ent.Caller.TrimmedPath())
	line.AppendString(lineSeparator)
	line.AppendString(shortFunction(ent.Caller.Function))
	line.AppendString(lineSeparator)
	_, _ = line.Write(tail.Bytes())
	return line, nil
}

func shortFunction(fn string) string {
	if fn == "" {
		return "-"
	}
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	return fn
}
