package ingest

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"listenlog/data"
	"listenlog/dedup"
	"listenlog/sink"
	"listenlog/spotify"
)

// analysisConcurrency bounds the parallel audio-analysis lookups for one
// top-tracks page.
const analysisConcurrency = 4

// TopTracks ingests the user's top tracks for one ranking window. Each track
// needs a dependent audio-analysis call; those run in parallel, and the
// accept/reject pass afterwards walks the page in rank order so dedup stays
// deterministic. A track with no analysis fails the fetch: the numeric
// columns downstream are not nullable, and a silent zero would be worse than
// a failed run. Returns the primary-artist IDs seen.
func (ing *Ingestor) TopTracks(ctx context.Context, term string) ([]string, error) {
	seen, err := ing.db.TopTrackKeys()
	if err != nil {
		return nil, err
	}

	items, err := ing.spo.TopTracks(ctx, pageSize, term)
	if err != nil {
		return nil, err
	}

	analyses := make([]*spotify.AudioAnalysis, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analysisConcurrency)
	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			analysis, err := ing.spo.AudioAnalysis(gctx, item.ID)
			if err != nil {
				return err
			}
			analyses[i] = analysis
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var batch []data.TopTrack
	ids := make([]string, 0, len(items))
	for rank, item := range items {
		if len(item.Artists) == 0 {
			return nil, fmt.Errorf("top track '%s' has no artists", item.ID)
		}
		ids = append(ids, item.Artists[0].ID)

		key := dedup.Key(strconv.Itoa(rank), item.ID, term)
		if seen.Has(key) {
			continue
		}
		seen.Add(key)

		analysis := analyses[rank]
		batch = append(batch, data.TopTrack{
			Rank:       rank,
			ID:         item.ID,
			Name:       item.Name,
			Artist:     item.Artists[0].Name,
			PreviewURL: item.PreviewURL,
			Duration:   analysis.Duration,
			BPM:        analysis.Tempo,
			Popularity: item.Popularity,
			Key:        analysis.Key,
			Loudness:   analysis.Loudness,
			Explicit:   item.Explicit,
			Term:       term,
			ObservedAt: time.Now(),
			VersionID:  data.NewVersionID(),
		})
	}

	log.Info().
		Str("term", term).
		Int("tracks", len(items)).
		Int("new", len(batch)).
		Msg("top tracks fetched")

	if err := sink.Write(ing.sink, "top_tracks", "toptracks", batch); err != nil {
		return nil, err
	}
	return ids, nil
}
