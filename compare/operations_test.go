package compare

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfusion/filmfusion/letterboxd"
	"github.com/filmfusion/filmfusion/storage"
)

// fakeSite serves single-page watchlists for a set of users.
func fakeSite(t *testing.T, watchlists map[string][]string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for username, titles := range watchlists {
		var b strings.Builder
		b.WriteString(`<html><body><ul class="poster-list">`)
		for _, title := range titles {
			fmt.Fprintf(&b, `<li class="poster-container"><div class="film-poster" data-film-name="%s"></div></li>`, title)
		}
		b.WriteString(`</ul></body></html>`)
		page := b.String()

		mux.HandleFunc("/"+username+"/", func(w http.ResponseWriter, r *http.Request) {})
		mux.HandleFunc("/"+username+"/watchlist/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page)
		})
		mux.HandleFunc("/"+username+"/watchlist/page/1/", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, page)
		})
	}
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}

func newSiteClient(t *testing.T, serverURL string) *letterboxd.Client {
	t.Helper()

	client, err := letterboxd.NewClient(serverURL, zerolog.Nop(),
		letterboxd.WithRetryWaitTime(time.Millisecond),
		letterboxd.WithPageDelay(time.Millisecond))
	require.NoError(t, err)
	return client
}

func TestCompareUsers(t *testing.T) {
	server := fakeSite(t, map[string][]string{
		"alice": {"Inception", "Arrival", "Dune"},
		"bob":   {"Dune", "Arrival", "Whiplash"},
	})
	defer server.Close()

	ops := NewOperations(newSiteClient(t, server.URL), zerolog.Nop())

	var mu sync.Mutex
	seen := make(map[string]int)
	result := ops.CompareUsers(context.Background(), "alice", "bob", func(percent float64, username string) {
		mu.Lock()
		seen[username]++
		mu.Unlock()
	})

	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, []string{"Arrival", "Dune"}, titles(result.CommonMovies))
	assert.Equal(t, 2, result.CommonTotal)

	// Progress arrives for both retrievals.
	assert.Equal(t, 1, seen["alice"])
	assert.Equal(t, 1, seen["bob"])
}

func TestCompareUsersMissingProfile(t *testing.T) {
	server := fakeSite(t, map[string][]string{
		"alice": {"Inception"},
	})
	defer server.Close()

	ops := NewOperations(newSiteClient(t, server.URL), zerolog.Nop())

	result := ops.CompareUsers(context.Background(), "alice", "ghost", nil)

	assert.Equal(t, StatusFailure, result.Status)
	assert.Equal(t, ReasonUserNotFound, result.Reason)
	assert.Empty(t, result.CommonMovies)
}

func TestCompareUsersPersistsResult(t *testing.T) {
	server := fakeSite(t, map[string][]string{
		"alice": {"Inception", "Dune"},
		"bob":   {"Dune"},
	})
	defer server.Close()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	ops := NewOperations(newSiteClient(t, server.URL), zerolog.Nop())
	ops.SetStore(store)

	result := ops.CompareUsers(context.Background(), "alice", "bob", nil)
	require.Equal(t, StatusSuccess, result.Status)

	saved, err := ops.LastComparison(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(saved.Movies))

	// Order-insensitive lookup for the pair.
	saved, err = ops.LastComparison(context.Background(), "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dune"}, titles(saved.Movies))
}

func TestCompareUsersStoreFailureDoesNotAffectResult(t *testing.T) {
	server := fakeSite(t, map[string][]string{
		"alice": {"Dune"},
		"bob":   {"Dune"},
	})
	defer server.Close()

	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close()) // persistence will fail

	ops := NewOperations(newSiteClient(t, server.URL), zerolog.Nop())
	ops.SetStore(store)

	// Persistence is a side effect, not a correctness dependency.
	result := ops.CompareUsers(context.Background(), "alice", "bob", nil)
	require.Equal(t, StatusSuccess, result.Status)
	assert.Equal(t, 1, result.CommonTotal)
}

func TestLastComparisonWithoutStore(t *testing.T) {
	ops := NewOperations(nil, zerolog.Nop())

	_, err := ops.LastComparison(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
