// Package sink is the dual-sink writer: each accepted batch goes to the row
// store as an append and to the archive as a timestamped parquet snapshot.
// No transaction spans the two sinks; either write can fail independently
// and both failures are reported.
package sink

import (
	"errors"

	"github.com/rs/zerolog/log"

	"listenlog/archive"
	"listenlog/db"
)

type Writer struct {
	DB      *db.DB
	Archive *archive.Archive
}

func New(db *db.DB, arch *archive.Archive) *Writer {
	return &Writer{DB: db, Archive: arch}
}

// A StoreError reports a failed row-store append.
type StoreError struct {
	Table string
	Err   error
}

func (e *StoreError) Error() string { return "store write to '" + e.Table + "': " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// An ArchiveError reports a failed archive snapshot write.
type ArchiveError struct {
	Kind string
	Err  error
}

func (e *ArchiveError) Error() string { return "archive write for '" + e.Kind + "': " + e.Err.Error() }
func (e *ArchiveError) Unwrap() error { return e.Err }

// Write appends the batch to the store table and archives it under kind, in
// that order. The store append is a no-op for an empty batch, but the
// archive write always happens. A failure in one sink does not prevent the
// other write; the joined error carries whichever failures occurred.
func Write[T any](w *Writer, table, kind string, rows []T) error {
	var errs []error

	if len(rows) > 0 {
		if err := w.DB.AppendRows(table, rows); err != nil {
			errs = append(errs, &StoreError{Table: table, Err: err})
		}
	}

	path, err := archive.Write(w.Archive, kind, rows)
	if err != nil {
		errs = append(errs, &ArchiveError{Kind: kind, Err: err})
	}

	if errs == nil {
		log.Info().
			Str("table", table).
			Str("archive", path).
			Int("rows", len(rows)).
			Msg("batch written")
	}

	return errors.Join(errs...)
}
