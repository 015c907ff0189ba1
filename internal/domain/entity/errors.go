package entity

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuery = errors.New("invalid search query")

	// ErrNoResults means no thumbnail ever became visible. It aborts the
	// harvest of one term only.
	ErrNoResults = errors.New("no search results appeared")

	// ErrAmbiguousMatch is returned by a wait that found several alternatives
	// at once. Harvesting treats it as a successful wait.
	ErrAmbiguousMatch = errors.New("several elements matched")

	ErrResolutionRejected = errors.New("image resolution out of bounds")
)

// CandidateError wraps any failure while examining a single thumbnail.
type CandidateError struct {
	Position int
	Stage    string
	Err      error
}

func (e *CandidateError) Error() string {
	return fmt.Sprintf("candidate %d: %s: %v", e.Position+1, e.Stage, e.Err)
}

func (e *CandidateError) Unwrap() error {
	return e.Err
}

type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *DownloadError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("download %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

type DecodeOrSaveError struct {
	Op  string
	Err error
}

func (e *DecodeOrSaveError) Error() string {
	return fmt.Sprintf("%s image: %v", e.Op, e.Err)
}

func (e *DecodeOrSaveError) Unwrap() error {
	return e.Err
}
