package secondary

import "context"

type RateLimiter interface {
	// Allow counts one hit for key and reports whether it is within the limit
	Allow(ctx context.Context, key string) (bool, error)
}
