package letterboxd

import "time"

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout          time.Duration
	maxRetries       int
	retryWait        time.Duration
	pageDelay        time.Duration
	cloudflareBypass bool
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:    10 * time.Second,
		maxRetries: 3,
		retryWait:  time.Second,
		pageDelay:  time.Second,
	}
}

// WithTimeout sets the per-request timeout. A request exceeding it counts as
// a transient failure against the retry budget.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithMaxRetries sets the total attempt budget per request, including the
// initial attempt.
func WithMaxRetries(retries int) Option {
	return func(o *clientOptions) {
		if retries > 0 {
			o.maxRetries = retries
		}
	}
}

// WithRetryWaitTime sets the base wait between retry attempts. Subsequent
// waits back off exponentially from this value.
func WithRetryWaitTime(wait time.Duration) Option {
	return func(o *clientOptions) {
		o.retryWait = wait
	}
}

// WithPageDelay sets the fixed delay enforced between watchlist page fetches.
// This is a pacing floor to respect the site's implicit rate limits, not a
// timeout.
func WithPageDelay(delay time.Duration) Option {
	return func(o *clientOptions) {
		o.pageDelay = delay
	}
}

// WithCloudflareBypass wraps the HTTP transport so requests pass Cloudflare's
// browser checks.
func WithCloudflareBypass() Option {
	return func(o *clientOptions) {
		o.cloudflareBypass = true
	}
}
