package compare

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfusion/filmfusion/letterboxd"
)

func watchlist(titles ...string) []letterboxd.Movie {
	movies := make([]letterboxd.Movie, len(titles))
	for i, title := range titles {
		movies[i] = letterboxd.Movie{Title: title}
	}
	return movies
}

func titles(movies []letterboxd.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.Title
	}
	return out
}

func TestCompare(t *testing.T) {
	a := watchlist("Inception", "Arrival", "Dune")
	b := watchlist("Dune", "Arrival", "Whiplash")

	result := Compare(a, b)

	require.Equal(t, StatusSuccess, result.Status)
	// Common movies follow A's order, not B's.
	assert.Equal(t, []string{"Arrival", "Dune"}, titles(result.CommonMovies))
	assert.Equal(t, 3, result.UserATotal)
	assert.Equal(t, 3, result.UserBTotal)
	assert.Equal(t, 2, result.CommonTotal)
	assert.InDelta(t, 66.67, result.Statistics.OverlapPercentage, 0.01)
	assert.Equal(t, 4, result.Statistics.TotalUniqueMovies)
}

func TestCompareCommonTotalMatchesList(t *testing.T) {
	tests := []struct {
		name string
		a    []letterboxd.Movie
		b    []letterboxd.Movie
	}{
		{name: "partial overlap", a: watchlist("A", "B", "C"), b: watchlist("B", "C", "D")},
		{name: "no overlap", a: watchlist("A"), b: watchlist("B")},
		{name: "full overlap", a: watchlist("A", "B"), b: watchlist("B", "A")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Compare(tt.a, tt.b)
			assert.Equal(t, len(result.CommonMovies), result.CommonTotal)

			// Every common title appears in both inputs.
			inA := make(map[string]bool)
			for _, m := range tt.a {
				inA[m.Title] = true
			}
			inB := make(map[string]bool)
			for _, m := range tt.b {
				inB[m.Title] = true
			}
			for _, m := range result.CommonMovies {
				assert.True(t, inA[m.Title] && inB[m.Title])
			}
		})
	}
}

func TestCompareSelfComparison(t *testing.T) {
	a := watchlist("Inception", "Arrival", "Dune")

	result := Compare(a, a)

	assert.Equal(t, len(a), result.CommonTotal)
	assert.Equal(t, titles(a), titles(result.CommonMovies))
	assert.Equal(t, 100.0, result.Statistics.OverlapPercentage)
	assert.Equal(t, 3, result.Statistics.TotalUniqueMovies)
}

func TestCompareDuplicatesPreserved(t *testing.T) {
	// The source site may legitimately repeat a title; every occurrence in A
	// must survive into the common list.
	a := watchlist("Dune", "Arrival", "Dune")
	b := watchlist("Dune")

	result := Compare(a, b)

	assert.Equal(t, []string{"Dune", "Dune"}, titles(result.CommonMovies))
	assert.Equal(t, 2, result.CommonTotal)
	// Unique titles are counted once regardless of duplicates.
	assert.Equal(t, 2, result.Statistics.TotalUniqueMovies)
}

func TestCompareTitlesMatchExactly(t *testing.T) {
	// No case or whitespace normalization is applied to titles.
	result := Compare(watchlist("Dune "), watchlist("dune"))
	assert.Equal(t, 0, result.CommonTotal)
	assert.Empty(t, result.CommonMovies)
}
