package anime

import (
	"errors"
	"net/http"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/example/anime-catalog/internal/platform/httpclient"
)

type Kind string

const (
	KindTransport      Kind = "transport"
	KindUpstreamStatus Kind = "upstream_status"
	KindDecode         Kind = "decode"
)

const (
	opSearch = "search anime"
	opGet    = "get anime"
)

// Error is the single error type returned by Service. Its message embeds the
// cause; Kind and Unwrap keep the cause reachable for callers that care.
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Op + " failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// GRPCStatus classifies the failure for transport-facing layers.
func (e *Error) GRPCStatus() *status.Status {
	code, reason := codes.Unavailable, "UPSTREAM_UNAVAILABLE"
	switch e.Kind {
	case KindDecode:
		code, reason = codes.Internal, "UPSTREAM_DECODE"
	case KindUpstreamStatus:
		var se *httpclient.StatusError
		if errors.As(e.Err, &se) {
			switch se.StatusCode {
			case http.StatusNotFound:
				code, reason = codes.NotFound, "NOT_FOUND"
			case http.StatusTooManyRequests:
				code, reason = codes.ResourceExhausted, "UPSTREAM_RATE_LIMITED"
			default:
				reason = "UPSTREAM_STATUS"
			}
		}
	}

	st := status.New(code, e.Error())
	info := &errdetails.ErrorInfo{Reason: reason, Domain: "catalog", Metadata: map[string]string{"kind": string(e.Kind)}}
	st2, err := st.WithDetails(info)
	if err != nil {
		return st
	}
	return st2
}

func wrapErr(op string, err error) error {
	return &Error{Op: op, Kind: classify(err), Err: err}
}

func classify(err error) Kind {
	var se *httpclient.StatusError
	if errors.As(err, &se) {
		return KindUpstreamStatus
	}
	var de *httpclient.DecodeError
	if errors.As(err, &de) || errors.Is(err, ErrUnexpectedShape) {
		return KindDecode
	}
	return KindTransport
}
