package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrReferenceNotFound signals that the reference movie is absent from the
	// dataset a strategy depends on.
	ErrReferenceNotFound = errors.New("reference movie not found")
	// ErrInvalidWeights signals hybrid weights that are negative or do not sum to 1.
	ErrInvalidWeights = errors.New("invalid hybrid weights")
	// ErrInvalidTopN signals a non-positive or oversized result count.
	ErrInvalidTopN = errors.New("invalid top_n")
	// ErrInvalidSampleFrac signals a rating sample fraction outside (0, 1].
	ErrInvalidSampleFrac = errors.New("invalid sample_frac")
	// ErrInvalidExternalID signals an unparsable external (IMDb) identifier.
	ErrInvalidExternalID = errors.New("invalid external id")
	// ErrUnknownStrategy signals an unsupported recommendation strategy.
	ErrUnknownStrategy = errors.New("unknown strategy")
	// ErrDatasetNotReady signals that no dataset snapshot has been published yet.
	ErrDatasetNotReady = errors.New("dataset not ready")
)

// ReferenceNotFoundError wraps ErrReferenceNotFound with the movie and the dataset it was missing from.
type ReferenceNotFoundError struct {
	MovieID int
	Dataset string
}

func (e *ReferenceNotFoundError) Error() string {
	return fmt.Sprintf("%s: movie %d not in %s", ErrReferenceNotFound.Error(), e.MovieID, e.Dataset)
}

func (e *ReferenceNotFoundError) Unwrap() error { return ErrReferenceNotFound }

// NewReferenceNotFound creates a reference-not-found error.
func NewReferenceNotFound(movieID int, dataset string) error {
	return &ReferenceNotFoundError{MovieID: movieID, Dataset: dataset}
}
