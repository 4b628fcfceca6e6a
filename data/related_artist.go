package data

// A RelatedArtist is one directed edge in the artist relation graph. Edges
// are stored directed: {a, b} and {b, a} are distinct rows.
type RelatedArtist struct {
	ArtistName    string `parquet:"artist_name"`
	RelatedArtist string `parquet:"related_artist"`
	VersionID     string `parquet:"version_id" gorm:"primaryKey"`
}

func (RelatedArtist) TableName() string { return "related_artists" }
