package compare

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/filmfusion/filmfusion/letterboxd"
	"github.com/filmfusion/filmfusion/storage"
)

// Operations orchestrates watchlist retrieval, comparison and persistence.
type Operations struct {
	client *letterboxd.Client
	store  *storage.Store
	logger zerolog.Logger
}

// NewOperations creates a new Operations instance.
func NewOperations(client *letterboxd.Client, logger zerolog.Logger) *Operations {
	return &Operations{
		client: client,
		logger: logger,
	}
}

// SetStore enables persistence of users, movies and comparison results.
// Without a store, comparisons still work; persistence is a side effect
// only.
func (o *Operations) SetStore(store *storage.Store) {
	o.store = store
}

// CompareUsers retrieves both users' watchlists and compares them.
//
// The two retrievals run concurrently; each one paginates sequentially on
// its own. Both outcomes are always awaited, so one side failing does not
// cut off the other's in-flight work. Any retrieval failure collapses into
// a failure Result with ReasonUserNotFound; the underlying cause is logged
// per username.
func (o *Operations) CompareUsers(ctx context.Context, userA, userB string, onProgress letterboxd.ProgressFunc) Result {
	var (
		listA, listB []letterboxd.Movie
		errA, errB   error
	)

	// Plain group, not WithContext: a failure on one side must not cancel
	// the other retrieval mid-flight.
	g := new(errgroup.Group)
	g.Go(func() error {
		listA, errA = o.client.Watchlist(ctx, userA, onProgress)
		return nil
	})
	g.Go(func() error {
		listB, errB = o.client.Watchlist(ctx, userB, onProgress)
		return nil
	})
	g.Wait()

	if errA != nil {
		o.logger.Error().Err(errA).Str("username", userA).Msg("Failed to retrieve watchlist")
	}
	if errB != nil {
		o.logger.Error().Err(errB).Str("username", userB).Msg("Failed to retrieve watchlist")
	}
	if errA != nil || errB != nil {
		return Result{Status: StatusFailure, Reason: ReasonUserNotFound}
	}

	result := Compare(listA, listB)

	o.logger.Info().
		Str("user_a", userA).Int("user_a_total", result.UserATotal).
		Str("user_b", userB).Int("user_b_total", result.UserBTotal).
		Int("common", result.CommonTotal).
		Msg("Compared watchlists")

	o.persist(ctx, userA, userB, listA, listB, result)

	return result
}

// LastComparison returns the stored comparison for a pair of users, if a
// store is configured.
func (o *Operations) LastComparison(ctx context.Context, userA, userB string) (storage.Comparison, error) {
	if o.store == nil {
		return storage.Comparison{}, storage.ErrNotFound
	}
	return o.store.LoadComparison(ctx, userA, userB)
}

// persist records the comparison in the store. Failures are logged and
// swallowed; the comparison result has already been computed and is returned
// to the caller regardless.
func (o *Operations) persist(ctx context.Context, userA, userB string, listA, listB []letterboxd.Movie, result Result) {
	if o.store == nil {
		return
	}

	record := func(username, pairedWith string, movies []letterboxd.Movie) error {
		for _, movie := range movies {
			if err := o.store.RecordUserMovie(ctx, username, pairedWith, movie); err != nil {
				return err
			}
		}
		return o.store.TouchSyncTime(ctx, username)
	}

	if err := record(userA, userB, listA); err != nil {
		o.logger.Warn().Err(err).Str("username", userA).Msg("Failed to persist watchlist")
		return
	}
	if err := record(userB, userA, listB); err != nil {
		o.logger.Warn().Err(err).Str("username", userB).Msg("Failed to persist watchlist")
		return
	}
	if err := o.store.SaveComparison(ctx, userA, userB, result.CommonMovies); err != nil {
		o.logger.Warn().Err(err).Msg("Failed to persist comparison")
	}
}
