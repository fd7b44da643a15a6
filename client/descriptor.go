package client

import (
	"net/http"
	"time"
)

// Method is an HTTP method accepted by a [Descriptor].
type Method string

const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
)

// DefaultScheme is used by [Defaults] and by an [Endpoint] with no scheme.
const DefaultScheme = "https"

// Descriptor declares everything needed to build one request. Any type
// providing these methods can be sent; embed [Defaults] to only supply
// Host, Path and Method.
type Descriptor interface {
	Scheme() string
	Host() string
	Path() string
	Method() Method
	Headers() map[string]string
	Body() any
	QueryParams() map[string]string
	PathParams() map[string]string
}

// Timeouter is implemented by descriptors that override the client's
// per-request timeout.
type Timeouter interface {
	Timeout() time.Duration
}

// Defaults supplies the optional half of [Descriptor]: the https scheme and
// no headers, body or params.
type Defaults struct{}

func (Defaults) Scheme() string                 { return DefaultScheme }
func (Defaults) Headers() map[string]string     { return nil }
func (Defaults) Body() any                      { return nil }
func (Defaults) QueryParams() map[string]string { return nil }
func (Defaults) PathParams() map[string]string  { return nil }

// Endpoint is a plain struct [Descriptor]. Only Host, Path and
// HTTPMethod are required; an empty SchemeName means https.
type Endpoint struct {
	SchemeName string
	HostName   string
	URLPath    string
	HTTPMethod Method
	Header     map[string]string
	Payload    any
	Query      map[string]string
	Params     map[string]string
	// RequestTimeout overrides the client timeout when positive.
	RequestTimeout time.Duration
}

// NewEndpoint returns the minimal descriptor for host, path and method.
func NewEndpoint(host, path string, method Method) Endpoint {
	return Endpoint{HostName: host, URLPath: path, HTTPMethod: method}
}

func (e Endpoint) Scheme() string {
	if e.SchemeName == "" {
		return DefaultScheme
	}

	return e.SchemeName
}

func (e Endpoint) Host() string                   { return e.HostName }
func (e Endpoint) Path() string                   { return e.URLPath }
func (e Endpoint) Method() Method                 { return e.HTTPMethod }
func (e Endpoint) Headers() map[string]string     { return e.Header }
func (e Endpoint) Body() any                      { return e.Payload }
func (e Endpoint) QueryParams() map[string]string { return e.Query }
func (e Endpoint) PathParams() map[string]string  { return e.Params }
func (e Endpoint) Timeout() time.Duration         { return e.RequestTimeout }
