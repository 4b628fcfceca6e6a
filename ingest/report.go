package ingest

import (
	"context"
	"errors"
	"time"

	"listenlog/sink"
	"listenlog/spotify"
)

// Category is the run-level failure classification. The orchestrator is the
// single place errors are classified; fetchers and writers just propagate.
type Category string

const (
	CategorySuccess    Category = "success"
	CategoryAuth       Category = "authentication error"
	CategoryAPI        Category = "api error"
	CategoryTimestamp  Category = "malformed timestamp"
	CategoryStore      Category = "store error"
	CategoryArchive    Category = "archive error"
	CategoryCanceled   Category = "canceled"
	CategoryUnexpected Category = "unexpected error"
)

// A Report summarizes one run: its outcome category, the failure if any, and
// the wall-clock time, which is measured no matter how the run ended.
type Report struct {
	Category Category
	Err      error
	Elapsed  time.Duration
}

// Classify maps a run-ending error onto its category. Auth beats API: an
// AuthError raised inside any fetch is an authentication failure, not a
// generic API one.
func Classify(err error) Category {
	var (
		authErr    *spotify.AuthError
		apiErr     *spotify.APIError
		storeErr   *sink.StoreError
		archiveErr *sink.ArchiveError
	)

	switch {
	case err == nil:
		return CategorySuccess
	case errors.As(err, &authErr):
		return CategoryAuth
	case errors.Is(err, ErrMalformedTimestamp):
		return CategoryTimestamp
	case errors.As(err, &storeErr):
		return CategoryStore
	case errors.As(err, &archiveErr):
		return CategoryArchive
	case errors.As(err, &apiErr):
		return CategoryAPI
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CategoryCanceled
	default:
		return CategoryUnexpected
	}
}
