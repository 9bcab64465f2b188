package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"

	"github.com/filmfusion/filmfusion/compare"
	"github.com/filmfusion/filmfusion/storage"
)

var (
	noSave      bool
	pickRandom  bool
	showDetails bool
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare <userA> <userB>",
	Short: "Compare the watchlists of two Letterboxd users",
	Long: `Retrieve both users' public watchlists and print the movies they have in
common, along with overlap statistics. The two retrievals run in parallel;
each one paginates sequentially to stay friendly to the site.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the comparison in the database")
	compareCmd.Flags().BoolVar(&pickRandom, "random", false, "suggest one random common movie")
	compareCmd.Flags().BoolVar(&showDetails, "details", true, "print the full list of common movies")
}

func runCompare(cmd *cobra.Command, args []string) error {
	userA, userB := args[0], args[1]
	ctx := context.Background()

	if noSave {
		operations.SetStore(nil)
	}

	logger.Info().Str("user_a", userA).Str("user_b", userB).Msg("Comparing watchlists")

	result := operations.CompareUsers(ctx, userA, userB, func(percent float64, username string) {
		logger.Info().Str("username", username).Int("percent", int(percent)).
			Msg("Fetching watchlist")
	})

	if result.Status != compare.StatusSuccess {
		return fmt.Errorf("comparison failed: %s", result.Reason)
	}

	fmt.Printf("\n%s has %d movies, %s has %d movies\n", userA, result.UserATotal, userB, result.UserBTotal)
	fmt.Printf("Common movies: %d (%.2f%% overlap, %d unique titles overall)\n",
		result.CommonTotal, result.Statistics.OverlapPercentage, result.Statistics.TotalUniqueMovies)

	if showDetails && result.CommonTotal > 0 {
		fmt.Println(strings.Repeat("-", 80))
		for _, movie := range result.CommonMovies {
			fmt.Printf("• %s\n", movie)
		}
	}

	if pickRandom && result.CommonTotal > 0 {
		pick := result.CommonMovies[rand.Intn(result.CommonTotal)]
		fmt.Printf("\nTonight's pick: %s\n", pick)
	}

	return nil
}

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history <userA> <userB>",
	Short: "Show the last saved comparison for two users",
	Args:  cobra.ExactArgs(2),
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	userA, userB := args[0], args[1]

	comparison, err := operations.LastComparison(context.Background(), userA, userB)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Printf("No saved comparison for %s and %s.\n", userA, userB)
			return nil
		}
		return fmt.Errorf("failed to load comparison: %w", err)
	}

	fmt.Printf("Last comparison of %s and %s (%s): %d common movies\n",
		userA, userB, comparison.ComparedAt.Format("2006-01-02 15:04"), len(comparison.Movies))
	fmt.Println(strings.Repeat("-", 80))
	for _, movie := range comparison.Movies {
		fmt.Printf("• %s\n", movie)
	}

	return nil
}
