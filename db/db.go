// Package db wraps the relational sink. Tables are append-only: rows are
// never updated or deleted, and duplicate filtering happens client-side
// before a batch reaches AppendRows.
package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"listenlog/data"
)

type DB struct{ *gorm.DB }

// Open connects to the postgres database named by dsn and creates any
// missing tables.
func Open(dsn string) (*DB, error) {
	return open(postgres.Open(dsn))
}

// OpenSQLite opens a local sqlite database file, for development runs and
// tests.
func OpenSQLite(filename string) (*DB, error) {
	return open(sqlite.Open(filename))
}

func open(dialector gorm.Dialector) (*DB, error) {
	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening db: %w", err)
	}

	if err := gdb.AutoMigrate(
		&data.TopArtist{},
		&data.TopTrack{},
		&data.RecentTrack{},
		&data.RelatedArtist{},
		&data.ArtistImageURL{},
	); err != nil {
		return nil, fmt.Errorf("error migrating db: %w", err)
	}

	return &DB{gdb}, nil
}

func (db *DB) Close() error {
	pool, err := db.DB.DB()
	if err != nil {
		return err
	}
	return pool.Close()
}
