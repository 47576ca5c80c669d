package httpclient

import "fmt"

// StatusError is returned for any response outside 2xx.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d body=%q", e.Method, e.URL, e.StatusCode, e.Body)
}

type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error: %v body=%q", e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
