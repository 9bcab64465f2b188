package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filmfusion/filmfusion/filter"
)

var filterExpr string

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:   "watchlist <user>",
	Short: "Print a user's watchlist",
	Long: `Retrieve and print one user's public watchlist in site order. An optional
filter expression narrows the output, e.g.:

  filmfusion watchlist someuser --filter 'Title contains "Dune"'`,
	Args: cobra.ExactArgs(1),
	RunE: runWatchlist,
}

func init() {
	rootCmd.AddCommand(watchlistCmd)

	watchlistCmd.Flags().StringVarP(&filterExpr, "filter", "f", "", "filter expression")
}

func runWatchlist(cmd *cobra.Command, args []string) error {
	username := args[0]
	ctx := context.Background()

	var movieFilter *filter.MovieFilter
	if filterExpr != "" {
		var err error
		movieFilter, err = filter.Compile(filterExpr)
		if err != nil {
			return fmt.Errorf("invalid filter expression: %w", err)
		}
	}

	movies, err := client.Watchlist(ctx, username, func(percent float64, username string) {
		logger.Info().Str("username", username).Int("percent", int(percent)).
			Msg("Fetching watchlist")
	})
	if err != nil {
		return err
	}

	if movieFilter != nil {
		movies, err = movieFilter.Apply(movies)
		if err != nil {
			return err
		}
	}

	if len(movies) == 0 {
		fmt.Println("No movies matched the filter.")
		return nil
	}

	fmt.Printf("\n%s's watchlist (%d movies):\n", username, len(movies))
	fmt.Println(strings.Repeat("-", 80))
	for _, movie := range movies {
		fmt.Printf("• %s\n", movie)
	}

	return nil
}
