package execlog

import (
	"fmt"
	"strings"
)

// NamedArg is a key=value argument, rendered in insertion order.
type NamedArg struct {
	Key   string
	Value any
}

// Args is the loggable view of a call's arguments.
type Args struct {
	Positional []any
	Named      []NamedArg
}

// Arguer lets an argument type describe itself for the entry line.
type Arguer interface {
	LogArgs() Args
}

// NoArgs is the argument type of calls that take nothing.
type NoArgs struct{}

// Positional builds Args from values in call order.
func Positional(vals ...any) Args {
	return Args{Positional: vals}
}

// With returns a copy of a with one more named argument.
func (a Args) With(key string, val any) Args {
	named := make([]NamedArg, len(a.Named), len(a.Named)+1)
	copy(named, a.Named)
	a.Named = append(named, NamedArg{Key: key, Value: val})
	return a
}

func (a Args) String() string {
	pos := make([]string, 0, len(a.Positional))
	for _, v := range a.Positional {
		pos = append(pos, fmt.Sprint(v))
	}
	named := make([]string, 0, len(a.Named))
	for _, kv := range a.Named {
		named = append(named, kv.Key+"="+fmt.Sprint(kv.Value))
	}

	segments := make([]string, 0, 2)
	if s := strings.Join(pos, ", "); s != "" {
		segments = append(segments, s)
	}
	if s := strings.Join(named, ", "); s != "" {
		segments = append(segments, s)
	}
	return strings.Join(segments, ", ")
}

func argsOf(arg any) Args {
	switch v := arg.(type) {
	case Args:
		return v
	case *Args:
		if v == nil {
			return Args{}
		}
		return *v
	case NoArgs, *NoArgs:
		return Args{}
	case Arguer:
		return v.LogArgs()
	default:
		return Args{Positional: []any{arg}}
	}
}
