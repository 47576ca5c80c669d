package execlog

import "context"

// Future is the pending result of a suspending call.
type Future[R any] struct {
	done chan struct{}
	val  R
	err  error
}

// Go runs fn on its own goroutine and returns its Future.
func Go[R any](fn func() (R, error)) *Future[R] {
	f := &Future[R]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns a Future that is already complete.
func Resolved[R any](val R, err error) *Future[R] {
	f := &Future[R]{done: make(chan struct{}), val: val, err: err}
	close(f.done)
	return f
}

// Done is closed once the result is available.
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the result is available or ctx ends. Giving up on ctx
// does not cancel the underlying call.
func (f *Future[R]) Await(ctx context.Context) (R, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

func (f *Future[R]) join() (R, error) {
	<-f.done
	return f.val, f.err
}
