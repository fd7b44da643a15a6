package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const contentTypeJSON = "application/json"

// BuiltRequest is a [Descriptor] resolved into a URL, headers and an encoded
// body. It is immutable; accessors hand out copies.
type BuiltRequest struct {
	url     *url.URL
	method  Method
	header  http.Header
	body    []byte
	timeout time.Duration
}

// URL returns a copy of the resolved URL.
func (b *BuiltRequest) URL() *url.URL {
	u := *b.url
	return &u
}

func (b *BuiltRequest) Method() Method { return b.method }

// Header returns a copy of the request headers.
func (b *BuiltRequest) Header() http.Header { return b.header.Clone() }

// Body returns a copy of the encoded body, or nil if the descriptor had none.
func (b *BuiltRequest) Body() []byte { return bytes.Clone(b.body) }

// Timeout is the descriptor's timeout override, zero if it has none.
func (b *BuiltRequest) Timeout() time.Duration { return b.timeout }

// HTTPRequest instantiates a fresh *http.Request for one send.
func (b *BuiltRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if b.body != nil {
		body = bytes.NewReader(b.body)
	}

	req, err := http.NewRequestWithContext(ctx, string(b.method), b.url.String(), body)
	if err != nil {
		return nil, fmt.Errorf("instantiating request: %w", err)
	}
	req.Header = b.header.Clone()

	return req, nil
}

// BuildRequest resolves d into a [BuiltRequest]. The returned error is always
// an *[Error]: KindInvalidURL when scheme and host do not form a valid URL,
// KindCustom for an unsupported method and KindEncodingFailed when the body
// cannot be encoded. No network I/O happens here.
func BuildRequest(d Descriptor) (*BuiltRequest, error) {
	if err := validateDescriptor(d); err != nil {
		var fes FieldErrors
		if !errors.As(err, &fes) {
			return nil, Unknown()
		}
		if fes.has("scheme") || fes.has("host") {
			return nil, InvalidURL()
		}
		return nil, Custom(fmt.Sprintf("invalid request: %s", fes[0].Err))
	}

	u := URL(d.Scheme(), d.Host(), d.Path(),
		WithPathParams(d.PathParams()),
		WithQueryStrings(d.QueryParams()),
	)

	parsed, err := url.Parse(u.String())
	if err != nil || !hasHostname(parsed) || parsed.Host != d.Host() {
		return nil, InvalidURL()
	}

	var payload []byte
	if body := d.Body(); body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, EncodingFailed(err)
		}
	}

	header := make(http.Header, len(d.Headers())+1)
	for k, v := range d.Headers() {
		header[k] = []string{v}
	}
	if payload != nil && !hasHeader(header, "Content-Type") {
		header.Set("Content-Type", contentTypeJSON)
	}

	built := BuiltRequest{
		url:    u,
		method: d.Method(),
		header: header,
		body:   payload,
	}
	if t, ok := d.(Timeouter); ok && t.Timeout() > 0 {
		built.timeout = t.Timeout()
	}

	return &built, nil
}

// URL creates a url.URL from its parts. A path without a leading slash gets
// one.
func URL(scheme, host, path string, opts ...URLOption) *url.URL {
	var settings urlOpts
	for _, opt := range opts {
		opt(&settings)
	}

	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	endpoint := url.URL{
		Scheme: scheme,
		Host:   host,
		Path:   path,
	}

	if len(settings.pathParams) > 0 {
		rawPath := path
		for k, v := range settings.pathParams {
			placeholder := "{" + k + "}"
			endpoint.Path = strings.ReplaceAll(endpoint.Path, placeholder, v)
			rawPath = strings.ReplaceAll(rawPath, placeholder, url.PathEscape(v))
		}
		if rawPath != endpoint.Path {
			endpoint.RawPath = rawPath
		}
	}

	if len(settings.queryStrings) > 0 {
		queryParams := url.Values{}
		for k, v := range settings.queryStrings {
			queryParams.Add(k, v)
		}

		endpoint.RawQuery = queryParams.Encode()
	}

	return &endpoint
}

// hasHostname reports whether u names a host. A bare port such as ":8080"
// would otherwise dial localhost, and a trailing colon must carry a port.
func hasHostname(u *url.URL) bool {
	return u.Hostname() != "" && !strings.HasSuffix(u.Host, ":")
}

func hasHeader(h http.Header, key string) bool {
	for k := range h {
		if strings.EqualFold(k, key) {
			return true
		}
	}

	return false
}
