package db

import "fmt"

// AppendRows appends a batch of rows to the named table. rows must be a
// slice of one of the data record types; callers must not pass an empty
// slice (an empty batch is a no-op append, not an error, and is handled by
// the caller).
func (db *DB) AppendRows(table string, rows any) error {
	if err := db.Table(table).Create(rows).Error; err != nil {
		return fmt.Errorf("error appending rows to '%s': %w", table, err)
	}
	return nil
}
