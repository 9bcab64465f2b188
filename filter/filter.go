// Package filter compiles expr expressions into movie predicates used to
// narrow watchlist listings.
package filter

import (
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/filmfusion/filmfusion/letterboxd"
)

// MovieFilter is a compiled filter expression evaluated per movie.
type MovieFilter struct {
	expression string
	program    *vm.Program
}

// Compile compiles an expression into an executable movie filter.
//
// The expression environment exposes Title and Genres plus a few string
// helpers, e.g.:
//
//	Title contains "Dune"
//	hasPrefix(lower(Title), "the ")
func Compile(expression string) (*MovieFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{Expression: expression, Reason: "empty expression"}
	}

	program, err := expr.Compile(expression, expr.Env(newEnv(letterboxd.Movie{})), expr.AsBool())
	if err != nil {
		return nil, &CompilationError{Expression: expression, Reason: err.Error(), Err: err}
	}

	return &MovieFilter{expression: expression, program: program}, nil
}

// Expression returns the source expression the filter was compiled from.
func (f *MovieFilter) Expression() string {
	return f.expression
}

// Matches evaluates the filter against a single movie.
func (f *MovieFilter) Matches(movie letterboxd.Movie) (bool, error) {
	out, err := expr.Run(f.program, newEnv(movie))
	if err != nil {
		return false, &EvaluationError{Expression: f.expression, MovieTitle: movie.Title, Err: err}
	}
	matched, ok := out.(bool)
	if !ok {
		return false, &EvaluationError{Expression: f.expression, MovieTitle: movie.Title, Reason: "expression did not evaluate to a boolean"}
	}
	return matched, nil
}

// Apply returns the movies matching the filter, preserving input order.
func (f *MovieFilter) Apply(movies []letterboxd.Movie) ([]letterboxd.Movie, error) {
	var matched []letterboxd.Movie
	for _, movie := range movies {
		ok, err := f.Matches(movie)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, movie)
		}
	}
	return matched, nil
}

// newEnv builds the expression environment for one movie.
func newEnv(movie letterboxd.Movie) map[string]any {
	return map[string]any{
		"Title":  movie.Title,
		"Genres": movie.Genres,

		"lower":     strings.ToLower,
		"upper":     strings.ToUpper,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
	}
}
