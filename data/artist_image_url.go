package data

// An ArtistImageURL maps an artist name appearing in the relation graph to
// an image URL found via name search. ImageURL is empty when the search
// returned no match or the artist has no images.
type ArtistImageURL struct {
	ArtistName string `gorm:"primaryKey"`
	ImageURL   string
}

func (ArtistImageURL) TableName() string { return "artist_image_urls" }
