package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmfusion/filmfusion/letterboxd"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{
			name:       "title contains",
			expression: `Title contains "Dune"`,
		},
		{
			name:       "helper functions",
			expression: `hasPrefix(lower(Title), "the ")`,
		},
		{
			name:       "genre membership",
			expression: `"Sci-Fi" in Genres`,
		},
		{
			name:       "empty expression",
			expression: "",
			wantErr:    true,
		},
		{
			name:       "whitespace only",
			expression: "   ",
			wantErr:    true,
		},
		{
			name:       "syntax error",
			expression: `Title contains`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.ErrorAs(t, err, &compErr)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestMatches(t *testing.T) {
	movie := letterboxd.Movie{Title: "Dune: Part Two", Genres: []string{"Sci-Fi", "Adventure"}}

	tests := []struct {
		name       string
		expression string
		want       bool
	}{
		{name: "matching title", expression: `Title contains "Dune"`, want: true},
		{name: "non-matching title", expression: `Title contains "Heat"`, want: false},
		{name: "case-insensitive helper", expression: `lower(Title) contains "dune"`, want: true},
		{name: "genre match", expression: `"Sci-Fi" in Genres`, want: true},
		{name: "genre miss", expression: `"Horror" in Genres`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Compile(tt.expression)
			require.NoError(t, err)

			got, err := f.Matches(movie)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApplyPreservesOrder(t *testing.T) {
	movies := []letterboxd.Movie{
		{Title: "Dune"},
		{Title: "Heat"},
		{Title: "Dune: Part Two"},
	}

	f, err := Compile(`Title contains "Dune"`)
	require.NoError(t, err)

	matched, err := f.Apply(movies)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	assert.Equal(t, "Dune", matched[0].Title)
	assert.Equal(t, "Dune: Part Two", matched[1].Title)
}

func TestExpression(t *testing.T) {
	f, err := Compile(`Title == "Heat"`)
	require.NoError(t, err)
	assert.Equal(t, `Title == "Heat"`, f.Expression())
}
