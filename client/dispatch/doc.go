// Package dispatch provides a designated execution context for completion
// handlers.
//
// A [Queue] runs dispatched functions one at a time, in order, on a single
// goroutine. Handlers that update shared state can rely on that instead of
// locking:
//
//	q := dispatch.NewQueue("ui", nil)
//	defer q.Close()
//
//	q.Dispatch(func() {
//		state.Items = append(state.Items, item)
//	})
//
// [Main] returns the process-wide queue used by the client package when no
// other [Dispatcher] is configured.
package dispatch
