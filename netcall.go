// Package netcall exposes the client builder.
package netcall

import (
	"github.com/adamwoolhether/netcall/client"
)

// New instantiates a new *client.Client with the provided options.
// If not specified, a fresh http.Client and http.DefaultTransport are used.
func New(opts ...client.Option) (*client.Client, error) {
	return client.Build(opts...)
}

// Shared returns the process-wide client used when a nil *client.Client is
// passed to the request functions.
func Shared() *client.Client {
	return client.Default()
}
