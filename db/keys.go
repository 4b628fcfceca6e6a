package db

import (
	"fmt"
	"strconv"

	"listenlog/dedup"
)

// The key loaders below snapshot the natural keys of one record kind into an
// in-memory set. Each fetcher loads its set once per invocation; filtering
// is client-side because the API re-returns the same top-N window on every
// run and conditional inserts would cost a round trip per record.

// TopTrackKeys returns the (rank, id, term) keys of every stored top track.
func (db *DB) TopTrackKeys() (dedup.Set, error) {
	var rows []struct {
		Rank int
		ID   string
		Term string
	}
	if err := db.Table("top_tracks").Select("rank", "id", "term").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error loading top track keys: %w", err)
	}
	set := dedup.New()
	for _, row := range rows {
		set.Add(dedup.Key(strconv.Itoa(row.Rank), row.ID, row.Term))
	}
	return set, nil
}

// RecentTrackKeys returns the (id, played_at) keys of every stored recent
// track. played_at is the normalized local-time string, not the raw instant.
func (db *DB) RecentTrackKeys() (dedup.Set, error) {
	var rows []struct {
		ID       string
		PlayedAt string
	}
	if err := db.Table("recent_tracks").Select("id", "played_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error loading recent track keys: %w", err)
	}
	set := dedup.New()
	for _, row := range rows {
		set.Add(dedup.Key(row.ID, row.PlayedAt))
	}
	return set, nil
}

// RelatedArtistPairs returns the directed (artist_name, related_artist)
// pairs of every stored edge.
func (db *DB) RelatedArtistPairs() (dedup.Set, error) {
	var rows []struct {
		ArtistName    string
		RelatedArtist string
	}
	if err := db.Table("related_artists").Select("artist_name", "related_artist").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error loading related artist pairs: %w", err)
	}
	set := dedup.New()
	for _, row := range rows {
		set.Add(dedup.Key(row.ArtistName, row.RelatedArtist))
	}
	return set, nil
}

// ArtistImageNames returns the artist names that already have an image row.
func (db *DB) ArtistImageNames() (dedup.Set, error) {
	var names []string
	if err := db.Table("artist_image_urls").Pluck("artist_name", &names).Error; err != nil {
		return nil, fmt.Errorf("error loading artist image names: %w", err)
	}
	return dedup.New(names...), nil
}

// EdgeArtistNames returns the distinct source artist names appearing in the
// relation graph.
func (db *DB) EdgeArtistNames() ([]string, error) {
	var names []string
	if err := db.Table("related_artists").Distinct("artist_name").Pluck("artist_name", &names).Error; err != nil {
		return nil, fmt.Errorf("error loading edge artist names: %w", err)
	}
	return names, nil
}
