// Package lifecycle holds shared process lifecycle constants.
package lifecycle

import "time"

// DefaultTimeout bounds graceful start/stop operations (server shutdown,
// storage ping) registered on the fx lifecycle.
const DefaultTimeout = 10 * time.Second
