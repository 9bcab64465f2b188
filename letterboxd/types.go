package letterboxd

import (
	"fmt"
	"strings"
)

// Movie is a single watchlist entry. Title is the comparison key and is kept
// exactly as scraped; no case or whitespace normalization is applied.
type Movie struct {
	Title  string
	Genres []string
}

// String returns a human-readable representation of the movie.
func (m Movie) String() string {
	if len(m.Genres) == 0 {
		return m.Title
	}
	return fmt.Sprintf("%s [%s]", m.Title, strings.Join(m.Genres, ", "))
}

// ProgressFunc is invoked after every fetched watchlist page with the
// percentage of pages completed so far. It is called synchronously from the
// retrieval flow, in strictly increasing page order, ending at exactly 100.
// Handlers should return quickly.
type ProgressFunc func(percent float64, username string)
