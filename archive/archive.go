// Package archive writes one immutable parquet snapshot per batch write.
// Snapshot files embed their schema, so they can be read back without the
// store or any external schema file.
package archive

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
)

type Archive struct {
	root string
	now  func() time.Time
}

// Open prepares the archive root, creating one directory per entity kind if
// absent.
func Open(root string, kinds ...string) (*Archive, error) {
	for _, kind := range kinds {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("error creating archive dir for '%s': %w", kind, err)
		}
	}
	return &Archive{root: root, now: time.Now}, nil
}

// Write serializes the batch to a new file named {kind}_{timestamp}.parquet
// under the kind's directory, and returns the file's path. An empty batch
// still produces a file: every run leaves an auditable artifact even when
// nothing new was found. Snapshots are immutable: a second batch landing in
// the same second gets a sequence suffix instead of overwriting the first.
func Write[T any](a *Archive, kind string, rows []T) (string, error) {
	stamp := a.now().Format("20060102150405")
	path := filepath.Join(a.root, kind, fmt.Sprintf("%s_%s.parquet", kind, stamp))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	for seq := 2; errors.Is(err, os.ErrExist); seq++ {
		path = filepath.Join(a.root, kind, fmt.Sprintf("%s_%s_%d.parquet", kind, stamp, seq))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	}
	if err != nil {
		return "", fmt.Errorf("error creating archive file '%s': %w", path, err)
	}

	w := parquet.NewGenericWriter[T](f)
	if len(rows) > 0 {
		if _, err := w.Write(rows); err != nil {
			f.Close()
			return "", fmt.Errorf("error writing %d rows to '%s': %w", len(rows), path, err)
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return "", fmt.Errorf("error finalizing archive file '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing archive file '%s': %w", path, err)
	}

	return path, nil
}
