// Package compare computes the intersection of two Letterboxd watchlists and
// orchestrates retrieval and persistence around it.
package compare

import (
	"github.com/filmfusion/filmfusion/letterboxd"
)

// Compare computes the common movies between two watchlists.
//
// Titles match exactly, as scraped. CommonMovies is the subsequence of a
// whose titles also appear in b, preserving a's order and any duplicate
// entries a has for a common title.
//
// Compare is pure and reentrant; it performs no I/O and stores no state.
// Both inputs must be non-empty, which the orchestrating layer guarantees by
// treating empty retrievals as errors.
func Compare(a, b []letterboxd.Movie) Result {
	titlesB := make(map[string]struct{}, len(b))
	for _, movie := range b {
		titlesB[movie.Title] = struct{}{}
	}

	var common []letterboxd.Movie
	for _, movie := range a {
		if _, ok := titlesB[movie.Title]; ok {
			common = append(common, movie)
		}
	}

	unique := make(map[string]struct{}, len(a)+len(b))
	for _, movie := range a {
		unique[movie.Title] = struct{}{}
	}
	for _, movie := range b {
		unique[movie.Title] = struct{}{}
	}

	return Result{
		Status:       StatusSuccess,
		CommonMovies: common,
		UserATotal:   len(a),
		UserBTotal:   len(b),
		CommonTotal:  len(common),
		Statistics: Statistics{
			OverlapPercentage: float64(len(common)) / float64(min(len(a), len(b))) * 100,
			TotalUniqueMovies: len(unique),
		},
	}
}
