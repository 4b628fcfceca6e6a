package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"listenlog/data"
	"listenlog/dedup"
	"listenlog/sink"
)

// RecentTracks ingests the user's recently-played feed. The natural key is
// (id, played_at) with played_at already normalized to the target zone, so
// the same track played twice is two rows, while re-fetching the same play
// on the next run is filtered out. Returns the primary-artist IDs seen.
func (ing *Ingestor) RecentTracks(ctx context.Context) ([]string, error) {
	seen, err := ing.db.RecentTrackKeys()
	if err != nil {
		return nil, err
	}

	plays, err := ing.spo.RecentlyPlayed(ctx, pageSize)
	if err != nil {
		return nil, err
	}

	var batch []data.RecentTrack
	ids := make([]string, 0, len(plays))
	for _, play := range plays {
		track := play.Track
		if len(track.Artists) == 0 {
			return nil, fmt.Errorf("recent track '%s' has no artists", track.ID)
		}
		ids = append(ids, track.Artists[0].ID)

		playedAt, err := NormalizePlayedAt(play.PlayedAt, ing.zone)
		if err != nil {
			return nil, err
		}

		key := dedup.Key(track.ID, playedAt)
		if seen.Has(key) {
			continue
		}
		seen.Add(key)

		analysis, err := ing.spo.AudioAnalysis(ctx, track.ID)
		if err != nil {
			return nil, err
		}

		batch = append(batch, data.RecentTrack{
			Name:       track.Name,
			Artist:     track.Artists[0].Name,
			ID:         track.ID,
			Popularity: track.Popularity,
			PreviewURL: track.PreviewURL,
			Duration:   analysis.Duration,
			BPM:        analysis.Tempo,
			Key:        analysis.Key,
			Loudness:   analysis.Loudness,
			Explicit:   track.Explicit,
			PlayedAt:   playedAt,
			ObservedAt: time.Now(),
			VersionID:  data.NewVersionID(),
		})
	}

	log.Info().Int("plays", len(plays)).Int("new", len(batch)).Msg("recent tracks fetched")

	if err := sink.Write(ing.sink, "recent_tracks", "recent_tracks", batch); err != nil {
		return nil, err
	}
	return ids, nil
}
