// Package lifecycle holds shared settings for fx start and stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds each start/stop hook (store pings, server shutdown).
const DefaultTimeout = 10 * time.Second
