package letterboxd

import (
	"errors"
	"fmt"
)

// Common errors returned by the Letterboxd client.
var (
	// ErrProfileNotFound indicates the username does not resolve to a public profile.
	ErrProfileNotFound = errors.New("user profile not found")

	// ErrEmptyWatchlist indicates pagination succeeded but no movies were
	// extracted. An empty result almost always means a parsing regression or
	// a private/empty profile, so it is reported as an error rather than a
	// valid empty watchlist.
	ErrEmptyWatchlist = errors.New("no movies found in watchlist")
)

// FetchError represents a failed page fetch, either a non-200 response after
// the retry budget was exhausted or a connection-level failure.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.StatusCode)
}

// Unwrap returns the underlying cause, if any. Timeouts stay visible to
// errors.Is(err, context.DeadlineExceeded) through this chain.
func (e *FetchError) Unwrap() error {
	return e.Err
}
