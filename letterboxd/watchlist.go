package letterboxd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Watchlist retrieves the full watchlist for a username, across all pages.
//
// The profile is validated first, then the page count is discovered from the
// pagination control of the first page and pages are fetched strictly
// sequentially with a fixed delay between them. Movies are returned in site
// presentation order, concatenated page by page and not deduplicated.
//
// onProgress may be nil. A retrieval that completes without extracting any
// movies returns ErrEmptyWatchlist. All errors are annotated with the
// username.
func (c *Client) Watchlist(ctx context.Context, username string, onProgress ProgressFunc) ([]Movie, error) {
	if err := c.ProfileExists(ctx, username); err != nil {
		return nil, fmt.Errorf("watchlist for %s: %w", username, err)
	}

	watchlistURL := fmt.Sprintf("%s/%s/watchlist/", c.baseURL, username)

	firstPage, err := c.fetchDocument(ctx, watchlistURL)
	if err != nil {
		return nil, fmt.Errorf("watchlist for %s: %w", username, err)
	}

	lastPage := lastPageNumber(firstPage)
	c.logger.Debug().Str("username", username).Int("pages", lastPage).
		Msg("Discovered watchlist page count")

	var movies []Movie
	for page := 1; page <= lastPage; page++ {
		pageURL := fmt.Sprintf("%spage/%d/", watchlistURL, page)

		doc, err := c.fetchDocument(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("watchlist for %s: %w", username, err)
		}

		pageMovies := c.extractMovies(doc)
		movies = append(movies, pageMovies...)

		c.logger.Debug().Str("username", username).Int("page", page).
			Int("movies", len(pageMovies)).Msg("Fetched watchlist page")

		if onProgress != nil {
			onProgress(float64(page)/float64(lastPage)*100, username)
		}

		if page < lastPage {
			// Pacing floor between page fetches, independent of fetch latency.
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("watchlist for %s: %w", username, ctx.Err())
			case <-time.After(c.pageDelay):
			}
		}
	}

	if len(movies) == 0 {
		return nil, fmt.Errorf("watchlist for %s: %w", username, ErrEmptyWatchlist)
	}
	return movies, nil
}

// lastPageNumber reads the pagination control and returns the highest page
// number among its link labels. Pages without a pagination control, or whose
// labels never parse as integers, are single-page watchlists.
func lastPageNumber(doc *goquery.Document) int {
	last := 1
	doc.Find("div.pagination a").Each(func(_ int, link *goquery.Selection) {
		n, err := strconv.Atoi(strings.TrimSpace(link.Text()))
		if err != nil {
			return
		}
		if n > last {
			last = n
		}
	})
	return last
}
