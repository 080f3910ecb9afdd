// Package backoff computes exponential retry delays.
//
// The mailbox reconnect loop and the storefront sync client both commit to an
// exact, jitter-free delay sequence (it is part of their operator-facing
// contract), so the calculation lives here instead of behind a retry library.
package backoff

import "time"

// Delay returns the delay before the given retry attempt (1-based):
// min(base * 2^(attempt-1), max). Attempts below 1 are treated as 1.
func Delay(attempt int, base, max time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= max {
			return max
		}
	}

	if delay > max {
		return max
	}
	return delay
}
