package letterboxd

import (
	"github.com/PuerkitoBio/goquery"
)

// extractStrategy attempts to pull movie entries out of one known page
// layout. Strategies are pure; they return nil when the layout does not
// match or yields nothing.
type extractStrategy struct {
	name    string
	extract func(doc *goquery.Document) []Movie
}

// extractStrategies is the layout chain, tried in priority order until one
// yields a non-empty result. The flat poster scan comes last so it only runs
// when no known grid container matches.
var extractStrategies = []extractStrategy{
	{name: "poster-list", extract: gridExtractor("ul.poster-list")},
	{name: "films-grid-list", extract: gridExtractor("ul.films-grid")},
	{name: "films-grid-block", extract: gridExtractor("div.films-grid")},
	{name: "poster-scan", extract: posterScan},
}

// extractMovies parses movie entries from a watchlist page, tolerating
// layout variants. A single malformed poster never aborts the rest of the
// page; untitled posters are skipped silently.
func (c *Client) extractMovies(doc *goquery.Document) []Movie {
	for _, strategy := range extractStrategies {
		movies := strategy.extract(doc)
		if len(movies) == 0 {
			continue
		}
		c.logger.Trace().Str("strategy", strategy.name).Int("movies", len(movies)).
			Msg("Extracted movies from page")
		return movies
	}
	return nil
}

// gridExtractor returns a strategy that reads posters out of the grid
// container matched by the given selector.
func gridExtractor(selector string) func(doc *goquery.Document) []Movie {
	return func(doc *goquery.Document) []Movie {
		grid := doc.Find(selector).First()
		if grid.Length() == 0 {
			return nil
		}

		var movies []Movie
		grid.Find("li.poster-container").Each(func(_ int, item *goquery.Selection) {
			poster := item.Find("div.film-poster").First()
			if poster.Length() == 0 {
				return
			}
			if movie, ok := movieFromPoster(poster); ok {
				movies = append(movies, movie)
			}
		})
		return movies
	}
}

// posterScan is the fallback strategy: pick up individual poster elements
// anywhere in the document.
func posterScan(doc *goquery.Document) []Movie {
	var movies []Movie
	doc.Find("div.film-poster").Each(func(_ int, poster *goquery.Selection) {
		if movie, ok := movieFromPoster(poster); ok {
			movies = append(movies, movie)
		}
	})
	return movies
}

// movieFromPoster extracts a single movie from a poster element. The title
// comes from the data-film-name attribute when present, otherwise from the
// alt text of the contained image. Titles are kept exactly as scraped.
func movieFromPoster(poster *goquery.Selection) (Movie, bool) {
	title := poster.AttrOr("data-film-name", "")
	if title == "" {
		title = poster.Find("img.image").First().AttrOr("alt", "")
	}
	if title == "" {
		return Movie{}, false
	}
	return Movie{Title: title}, true
}
