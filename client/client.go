package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/adamwoolhether/netcall/client/dispatch"
	"github.com/adamwoolhether/netcall/client/metrics"
	"github.com/adamwoolhether/netcall/client/throttle"
)

// DefaultTimeout bounds every request unless overridden by [WithTimeout] or
// a descriptor implementing [Timeouter].
const DefaultTimeout = 30 * time.Second

// maxLogBodySize caps the amount of response body written to the
// response log line.
const maxLogBodySize = 4 << 10 // 4KB

// Client executes descriptors over HTTP. It holds configuration only, so a
// single Client may be shared by any number of goroutines.
type Client struct {
	c          *http.Client
	timeout    time.Duration
	logger     *slog.Logger
	tracer     trace.Tracer
	dispatcher dispatch.Dispatcher
	metrics    *metrics.Recorder
	useJSONNum bool
	strict     bool
}

func Build(optFns ...Option) (*Client, error) {
	client := &Client{
		c:       &http.Client{},
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		tracer:  noop.NewTracerProvider().Tracer("no-op tracer"),
	}

	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	if opts.client != nil {
		hc := *opts.client
		client.c = &hc
		if hc.Timeout > 0 {
			client.timeout = hc.Timeout
		}
	}
	// Timeouts are applied per call through the request context.
	client.c.Timeout = 0

	if opts.timeout != nil {
		client.timeout = *opts.timeout
	}

	if opts.logger != nil {
		client.logger = opts.logger
	}

	if opts.tracer != nil {
		client.tracer = opts.tracer
	}

	if opts.dispatcher != nil {
		client.dispatcher = opts.dispatcher
	}

	client.metrics = opts.metrics
	client.useJSONNum = opts.useJSONNum
	client.strict = opts.strict

	if opts.noFollowRedirects {
		client.c.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	var transport http.RoundTripper
	switch {
	case opts.rt != nil:
		transport = opts.rt
	case opts.client != nil && opts.client.Transport != nil:
		transport = opts.client.Transport
	default:
		transport = http.DefaultTransport
	}
	if opts.userAgent != "" {
		transport = userAgent{value: opts.userAgent, base: transport}
	}
	if opts.throttle != nil {
		rt, err := throttle.NewRoundTripper(*opts.throttle, func() *slog.Logger { return client.logger }, transport)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		transport = rt
	}
	client.c.Transport = transport

	return client, nil
}

var defaultClient = sync.OnceValue(func() *Client {
	c, err := Build()
	if err != nil {
		panic(err)
	}

	return c
})

// Default returns the process-wide Client built with default options. The
// request functions use it when handed a nil *Client.
func Default() *Client {
	return defaultClient()
}

// Timeout is the per-request timeout applied when a descriptor sets none.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Dispatcher returns where [SendAsync] handlers run.
func (c *Client) Dispatcher() dispatch.Dispatcher {
	if c.dispatcher == nil {
		return dispatch.Main()
	}

	return c.dispatcher
}

// decodeFn decodes a non-empty 2xx response body.
type decodeFn func(dec *json.Decoder) error

// exec runs one request for d: build, trace, round trip, status check and
// decode. Every failure is returned as an *Error; the response log line is
// always written before exec returns.
func (c *Client) exec(ctx context.Context, d Descriptor, allowEmpty bool, decode decodeFn) *Error {
	requestID := uuid.NewString()

	built, err := BuildRequest(d)
	if err != nil {
		e := AsError(err)
		c.logger.Error("request build failed", "request_id", requestID, "kind", e.Kind.String(), "error", e.Error())
		c.metrics.ObserveRequest("", "", e.Kind.String(), 0, 0)
		return e
	}

	timeout := c.timeout
	if built.timeout > 0 {
		timeout = built.timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, span := c.startSpan(ctx, built, requestID)
	defer span.End()

	req, err := built.HTTPRequest(ctx)
	if err != nil {
		e := InvalidURL()
		c.finish(span, requestID, built, 0, nil, 0, e)
		return e
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	c.logger.Info("request", "request_id", requestID, "method", req.Method, "url", req.URL.String(), "headers", req.Header)

	start := time.Now()
	resp, err := c.c.Do(req)
	if err != nil {
		e := transportError(err)
		c.finish(span, requestID, built, 0, nil, time.Since(start), e)
		return e
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := transportError(err)
		c.finish(span, requestID, built, resp.StatusCode, body, time.Since(start), e)
		return e
	}

	e := c.handle(resp.StatusCode, body, allowEmpty, decode)
	c.finish(span, requestID, built, resp.StatusCode, body, time.Since(start), e)

	return e
}

// handle classifies a received response and decodes it on success.
func (c *Client) handle(status int, body []byte, allowEmpty bool, decode decodeFn) *Error {
	if status < 200 || status > 299 {
		return RequestFailed(status)
	}

	if allowEmpty {
		return nil
	}

	if len(body) == 0 {
		return NoData()
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if c.useJSONNum {
		dec.UseNumber()
	}
	if c.strict {
		dec.DisallowUnknownFields()
	}

	if err := decode(dec); err != nil {
		return DecodingFailed(err)
	}

	return nil
}

// startSpan opens the client span for one request.
func (c *Client) startSpan(ctx context.Context, built *BuiltRequest, requestID string) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, "netcall.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", string(built.method)),
			attribute.String("url", built.url.String()),
			attribute.String("request_id", requestID),
		),
	)
}

// finish writes the response log line, records metrics and closes out the
// span's status.
func (c *Client) finish(span trace.Span, requestID string, built *BuiltRequest, status int, body []byte, elapsed time.Duration, e *Error) {
	if len(body) > maxLogBodySize {
		body = body[:maxLogBodySize]
	}

	if status != 0 {
		span.SetAttributes(attribute.Int("http.status_code", status))
	}

	outcome := "ok"
	if e != nil {
		outcome = e.Kind.String()
	}
	c.metrics.ObserveRequest(built.url.Host, string(built.method), outcome, status, elapsed)

	if e != nil {
		span.SetStatus(codes.Error, e.Error())
		c.logger.Error("response", "request_id", requestID, "url", built.url.String(), "status", status,
			"body", string(body), "elapsed", elapsed.String(), "kind", e.Kind.String(), "error", e.Error())
		return
	}

	span.SetStatus(codes.Ok, "")
	c.logger.Info("response", "request_id", requestID, "url", built.url.String(), "status", status,
		"body", string(body), "elapsed", elapsed.String())
}
