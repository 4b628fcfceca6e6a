package data

import "time"

// A TopTrack is one row of the user's top-20 track ranking for a single
// ranking window, enriched with that track's audio analysis. Duration is in
// seconds, as reported by the analysis endpoint.
type TopTrack struct {
	Rank       int       `parquet:"rank"`
	ID         string    `parquet:"id"`
	Name       string    `parquet:"name"`
	Artist     string    `parquet:"artist"`
	PreviewURL string    `parquet:"preview_url"`
	Duration   float64   `parquet:"duration"`
	BPM        float64   `parquet:"bpm"`
	Popularity int64     `parquet:"popularity"`
	Key        int64     `parquet:"key"`
	Loudness   float64   `parquet:"loudness"`
	Explicit   bool      `parquet:"explicit"`
	Term       string    `parquet:"term"`
	ObservedAt time.Time `parquet:"observed_at"`
	VersionID  string    `parquet:"version_id" gorm:"primaryKey"`
}

func (TopTrack) TableName() string { return "top_tracks" }
