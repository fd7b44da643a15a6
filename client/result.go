package client

import (
	"context"
	"encoding/json"
	"sync"
)

// Result is the outcome of one request: either Value or Err is meaningful,
// never both.
type Result[T any] struct {
	Value T
	Err   *Error
}

// Ok reports whether the request succeeded.
func (r Result[T]) Ok() bool {
	return r.Err == nil
}

// Get unpacks the result into the usual value, error pair.
func (r Result[T]) Get() (T, error) {
	if r.Err != nil {
		return r.Value, r.Err
	}

	return r.Value, nil
}

// Empty is a result type for requests whose response carries no body worth
// decoding. Any 2xx response, including an empty one, succeeds.
type Empty struct{}

// sink receives the single result of a request.
type sink[T any] interface {
	deliver(Result[T])
}

// once guarantees its sink sees at most one result.
type once[T any] struct {
	once sync.Once
	next sink[T]
}

func (o *once[T]) deliver(r Result[T]) {
	o.once.Do(func() { o.next.deliver(r) })
}

// valueSink hands the result back to a caller blocked in execute.
type valueSink[T any] struct {
	result Result[T]
}

func (s *valueSink[T]) deliver(r Result[T]) {
	s.result = r
}

// callbackSink runs the handler on the client's dispatcher. A dispatcher that
// refuses the work leaves the handler to run on the request goroutine.
type callbackSink[T any] struct {
	client  *Client
	handler func(Result[T])
}

func (s *callbackSink[T]) deliver(r Result[T]) {
	if err := s.client.Dispatcher().Dispatch(func() { s.handler(r) }); err != nil {
		s.client.logger.Warn("dispatcher rejected request callback, running inline", "error", err)
		s.handler(r)
	}
}

// streamSink emits the result and completes the stream.
type streamSink[T any] struct {
	ch chan Result[T]
}

func (s *streamSink[T]) deliver(r Result[T]) {
	s.ch <- r
	close(s.ch)
}

// execute is the single engine behind every completion style.
func execute[T any](ctx context.Context, c *Client, d Descriptor, out sink[T]) {
	if c == nil {
		c = Default()
	}
	out = &once[T]{next: out}

	var value T
	_, allowEmpty := any(value).(Empty)

	decode := func(dec *json.Decoder) error {
		return dec.Decode(&value)
	}

	if err := c.exec(ctx, d, allowEmpty, decode); err != nil {
		var zero T
		out.deliver(Result[T]{Value: zero, Err: err})
		return
	}

	out.deliver(Result[T]{Value: value})
}

// Fetch sends d and waits for its result. A nil c uses [Default].
func Fetch[T any](ctx context.Context, c *Client, d Descriptor) Result[T] {
	var s valueSink[T]
	execute[T](ctx, c, d, &s)

	return s.result
}

// Send sends d and waits, decoding a successful response into T. The error
// is always an *[Error].
func Send[T any](ctx context.Context, c *Client, d Descriptor) (T, error) {
	return Fetch[T](ctx, c, d).Get()
}

// SendAsync sends d on its own goroutine and returns immediately. handler is
// invoked exactly once, on the client's [dispatch.Dispatcher]. If the
// dispatcher rejects it, for example because it was closed, handler runs on
// the request goroutine instead.
func SendAsync[T any](ctx context.Context, c *Client, d Descriptor, handler func(Result[T])) {
	if c == nil {
		c = Default()
	}

	go execute[T](ctx, c, d, &callbackSink[T]{client: c, handler: handler})
}

// Observe sends d on a background goroutine. The returned channel yields
// exactly one result and is then closed; every call issues a new request.
func Observe[T any](ctx context.Context, c *Client, d Descriptor) <-chan Result[T] {
	ch := make(chan Result[T], 1)

	go execute[T](ctx, c, d, &streamSink[T]{ch: ch})

	return ch
}
