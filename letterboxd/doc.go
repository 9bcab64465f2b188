// Package letterboxd provides a scraping client for public Letterboxd
// watchlists.
//
// Letterboxd has no public API for watchlists, so this package fetches the
// paginated watchlist HTML and extracts movie entries from it. The markup is
// not stable across site updates, so extraction runs an ordered chain of
// layout strategies and falls back to a flat poster scan when no known grid
// container is present.
//
// # Features
//
//   - Bounded retry with exponential backoff for transient HTTP failures
//   - Profile existence check before any paginated work starts
//   - Runtime page-count discovery from the pagination control
//   - Layout-variant tolerant movie extraction
//   - Progress reporting while paginating
//   - Context-aware operations for graceful cancellation
//
// # Usage
//
//	client, err := letterboxd.NewClient("https://letterboxd.com", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	movies, err := client.Watchlist(ctx, "username", func(percent float64, username string) {
//	    fmt.Printf("%s: %.0f%%\n", username, percent)
//	})
package letterboxd
