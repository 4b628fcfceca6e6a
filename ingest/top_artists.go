package ingest

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"listenlog/data"
	"listenlog/sink"
)

// TopArtists ingests the user's top artists for one ranking window, fetching
// each artist's own top tracks to embed as a flattened name list. The whole
// page is written fresh every run; top-artist rows carry no natural-key
// filter, only their version IDs. Returns the artist IDs seen, for the
// related-artist pass.
func (ing *Ingestor) TopArtists(ctx context.Context, term string) ([]string, error) {
	items, err := ing.spo.TopArtists(ctx, pageSize, term)
	if err != nil {
		return nil, err
	}

	batch := make([]data.TopArtist, 0, len(items))
	ids := make([]string, 0, len(items))
	for rank, item := range items {
		topTracks, err := ing.spo.ArtistTopTracks(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		names := make([]string, len(topTracks))
		for i, track := range topTracks {
			names[i] = track.Name
		}

		batch = append(batch, data.TopArtist{
			Rank:       rank,
			ID:         item.ID,
			Name:       item.Name,
			Genres:     strings.Join(item.Genres, ", "),
			Popularity: item.Popularity,
			TopTracks:  strings.Join(names, ", "),
			Term:       term,
			ObservedAt: time.Now(),
			VersionID:  data.NewVersionID(),
		})
		ids = append(ids, item.ID)
	}

	log.Info().Str("term", term).Int("artists", len(batch)).Msg("top artists fetched")

	if err := sink.Write(ing.sink, "top_artists", "topartists", batch); err != nil {
		return nil, err
	}
	return ids, nil
}
