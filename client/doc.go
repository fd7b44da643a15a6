// Package client turns declarative request descriptors into HTTP calls and
// normalizes every outcome into a small error taxonomy.
//
// # Describing a Request
//
// Any type implementing [Descriptor] can be sent. Embedding [Defaults] leaves
// only the host, path and method to supply:
//
//	type todoRequest struct {
//		client.Defaults
//		id int
//	}
//
//	func (todoRequest) Host() string          { return "jsonplaceholder.typicode.com" }
//	func (r todoRequest) Path() string        { return fmt.Sprintf("/todos/%d", r.id) }
//	func (todoRequest) Method() client.Method { return client.MethodGet }
//
// [Endpoint] is a ready-made struct form for one-off requests.
//
// # Building a Client
//
// Use [Build] to create a [Client] with functional options, or pass a nil
// *Client to use [Default]:
//
//	c, err := client.Build(
//		client.WithTimeout(10 * time.Second),
//		client.WithUserAgent("myapp/1.0"),
//	)
//
// # Completion Styles
//
// The same request can be awaited, handed to a callback or observed:
//
//	todo, err := client.Send[Todo](ctx, c, todoRequest{id: 1})
//
//	client.SendAsync(ctx, c, todoRequest{id: 1}, func(r client.Result[Todo]) {
//		// runs on the client's dispatcher
//	})
//
//	for r := range client.Observe[Todo](ctx, c, todoRequest{id: 1}) {
//		// exactly one result
//	}
//
// # Errors
//
// Every failure is an *[Error] whose Kind is one of invalid URL, encoding
// failed, decoding failed, request failed, no data, custom or unknown. Non-2xx
// statuses carry the status code; transport failures carry a negative code
// such as [CodeTimedOut]. Use [errors.Is] against the Err* sentinels to test
// the kind.
package client
