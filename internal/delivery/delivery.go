// Package delivery defines the server surfaces the application exposes.
package delivery

import "context"

// Delivery is a long-running server started by the fx application. Serve
// blocks until the server stops; shutdown happens through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
