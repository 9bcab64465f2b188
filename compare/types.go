package compare

import (
	"github.com/filmfusion/filmfusion/letterboxd"
)

// Status indicates whether a comparison produced a result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "error"
)

// Reason classifies a failed comparison. Retrieval failures of every kind
// (missing profile, network failure, empty watchlist) collapse into
// ReasonUserNotFound at this level; callers needing finer diagnostics must
// inspect the retrieval error before it is collapsed.
type Reason string

const (
	ReasonUserNotFound Reason = "user_not_found"
)

// Statistics summarizes the overlap between two watchlists.
type Statistics struct {
	// OverlapPercentage is the share of the smaller watchlist that both
	// users have in common.
	OverlapPercentage float64
	// TotalUniqueMovies is the number of distinct titles across both
	// watchlists.
	TotalUniqueMovies int
}

// Result is the outcome of comparing two users' watchlists. On failure only
// Status and Reason are populated.
type Result struct {
	Status       Status
	Reason       Reason
	CommonMovies []letterboxd.Movie
	UserATotal   int
	UserBTotal   int
	CommonTotal  int
	Statistics   Statistics
}
