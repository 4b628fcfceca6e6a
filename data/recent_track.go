package data

import "time"

// A RecentTrack is one play from the user's recently-played feed. PlayedAt is
// the play instant already converted to the configured timezone and formatted
// as "2006-01-02 15:04:05"; it is part of the natural key, so the conversion
// happens before dedup, not at display time.
type RecentTrack struct {
	Name       string    `parquet:"name"`
	Artist     string    `parquet:"artist"`
	ID         string    `parquet:"id"`
	Popularity int64     `parquet:"popularity"`
	PreviewURL string    `parquet:"preview_url"`
	Duration   float64   `parquet:"duration"`
	BPM        float64   `parquet:"bpm"`
	Key        int64     `parquet:"key"`
	Loudness   float64   `parquet:"loudness"`
	Explicit   bool      `parquet:"explicit"`
	PlayedAt   string    `parquet:"played_at"`
	ObservedAt time.Time `parquet:"observed_at"`
	VersionID  string    `parquet:"version_id" gorm:"primaryKey"`
}

func (RecentTrack) TableName() string { return "recent_tracks" }
