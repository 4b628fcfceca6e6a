package ingest

import (
	"context"

	"github.com/rs/zerolog/log"

	"listenlog/data"
	"listenlog/dedup"
	"listenlog/sink"
)

// LinkRelatedArtists extends the artist relation graph from the artist IDs
// collected by the earlier stages. The pair index is seeded from the store
// and updated as each edge is accepted, so an edge discovered via two
// different source artists in the same run is kept once. Pairs are directed:
// a reversed pair is a distinct edge.
func (ing *Ingestor) LinkRelatedArtists(ctx context.Context, artistIDs []string) error {
	pairs, err := ing.db.RelatedArtistPairs()
	if err != nil {
		return err
	}

	processed := dedup.New()
	var batch []data.RelatedArtist
	for _, artistID := range artistIDs {
		if processed.Has(artistID) {
			continue
		}
		processed.Add(artistID)

		artist, err := ing.spo.Artist(ctx, artistID)
		if err != nil {
			return err
		}
		related, err := ing.spo.RelatedArtists(ctx, artistID)
		if err != nil {
			return err
		}

		for _, rel := range related {
			key := dedup.Key(artist.Name, rel.Name)
			if pairs.Has(key) {
				continue
			}
			pairs.Add(key)

			batch = append(batch, data.RelatedArtist{
				ArtistName:    artist.Name,
				RelatedArtist: rel.Name,
				VersionID:     data.NewVersionID(),
			})
		}
	}

	log.Info().
		Int("artists", processed.Len()).
		Int("edges", len(batch)).
		Msg("related artists linked")

	return sink.Write(ing.sink, "related_artists", "related_artists", batch)
}

// FetchArtistImages resolves an image URL for every artist name in the edge
// table that has no image row yet, by name search. No match or no images
// means an empty URL; either way the name gets a row so it is not searched
// again. Runs after LinkRelatedArtists so the freshly written edges are
// included. Image rows go to the store only; there is no archive kind for
// them.
func (ing *Ingestor) FetchArtistImages(ctx context.Context) error {
	have, err := ing.db.ArtistImageNames()
	if err != nil {
		return err
	}
	names, err := ing.db.EdgeArtistNames()
	if err != nil {
		return err
	}

	var batch []data.ArtistImageURL
	for _, name := range names {
		if have.Has(name) {
			continue
		}
		have.Add(name)

		artist, err := ing.spo.SearchArtist(ctx, name)
		if err != nil {
			return err
		}
		var imageURL string
		if artist != nil && len(artist.Images) > 0 {
			imageURL = artist.Images[0].URL
		}

		batch = append(batch, data.ArtistImageURL{
			ArtistName: name,
			ImageURL:   imageURL,
		})
	}

	log.Info().Int("resolved", len(batch)).Msg("artist images resolved")

	if len(batch) == 0 {
		return nil
	}
	if err := ing.db.AppendRows("artist_image_urls", batch); err != nil {
		return &sink.StoreError{Table: "artist_image_urls", Err: err}
	}
	return nil
}
