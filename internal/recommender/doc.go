// Package recommender implements the similar-movie scoring strategies.
//
// Every strategy is a pure function over an immutable dataset.Bundle: it
// addresses movies by movie ID, never returns the reference movie itself and
// returns at most topN recommendations ordered best-first. Candidates that
// share nothing with the reference (score 0) are not recommended, so an empty
// result is valid and distinct from domain.ErrReferenceNotFound.
package recommender
