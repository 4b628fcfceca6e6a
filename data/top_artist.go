package data

import "time"

// A TopArtist is one row of the user's top-20 artist ranking for a single
// ranking window. Genres and TopTracks are comma-joined lists; the archive
// and the store both keep the flattened form.
type TopArtist struct {
	Rank       int       `parquet:"rank"`
	ID         string    `parquet:"id"`
	Name       string    `parquet:"name"`
	Genres     string    `parquet:"genres"`
	Popularity int64     `parquet:"popularity"`
	TopTracks  string    `parquet:"top_tracks"`
	Term       string    `parquet:"term"`
	ObservedAt time.Time `parquet:"observed_at"`
	VersionID  string    `parquet:"version_id" gorm:"primaryKey"`
}

func (TopArtist) TableName() string { return "top_artists" }
