// Package ingest drives one snapshot run: the four fetchers in order, their
// batches through the dual-sink writer, and a single classification point
// for whatever failure ends the run.
package ingest

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"listenlog/archive"
	"listenlog/db"
	"listenlog/sink"
	"listenlog/spotify"
)

// Terms are the ranking windows the top-artist and top-track fetchers run
// over, in order.
var Terms = []string{"short_term", "medium_term", "long_term"}

// ArchiveKinds names the archive directory per batch entity.
var ArchiveKinds = []string{"topartists", "toptracks", "recent_tracks", "related_artists"}

// pageSize is the window size of every ranking and feed request.
const pageSize = 20

// Client is the slice of the Spotify API the fetchers consume.
type Client interface {
	TopArtists(ctx context.Context, limit int, term string) ([]spotify.Artist, error)
	TopTracks(ctx context.Context, limit int, term string) ([]spotify.Track, error)
	ArtistTopTracks(ctx context.Context, artistID string) ([]spotify.Track, error)
	AudioAnalysis(ctx context.Context, trackID string) (*spotify.AudioAnalysis, error)
	RecentlyPlayed(ctx context.Context, limit int) ([]spotify.PlayedTrack, error)
	RelatedArtists(ctx context.Context, artistID string) ([]spotify.Artist, error)
	Artist(ctx context.Context, artistID string) (*spotify.Artist, error)
	SearchArtist(ctx context.Context, name string) (*spotify.Artist, error)
}

type Ingestor struct {
	db   *db.DB
	spo  Client
	sink *sink.Writer
	zone *time.Location
}

func New(store *db.DB, spo Client, arch *archive.Archive, zone *time.Location) *Ingestor {
	return &Ingestor{
		db:   store,
		spo:  spo,
		sink: sink.New(store, arch),
		zone: zone,
	}
}

// Run executes one full snapshot: top artists and top tracks for every term,
// then recent tracks, then the related-artist and image passes over the
// union of artist IDs the earlier stages discovered. The first failure ends
// the run; batches committed by earlier stages stay committed, and the next
// run's dedup indexes absorb the overlap.
func (ing *Ingestor) Run(ctx context.Context) Report {
	start := time.Now()
	err := ing.run(ctx)
	report := Report{
		Category: Classify(err),
		Err:      err,
		Elapsed:  time.Since(start),
	}
	if err != nil {
		log.Error().Err(err).Str("category", string(report.Category)).Msg("run failed")
	}
	return report
}

func (ing *Ingestor) run(ctx context.Context) error {
	var artistIDs []string

	for _, term := range Terms {
		ids, err := ing.TopArtists(ctx, term)
		if err != nil {
			return err
		}
		artistIDs = append(artistIDs, ids...)

		ids, err = ing.TopTracks(ctx, term)
		if err != nil {
			return err
		}
		artistIDs = append(artistIDs, ids...)
	}

	ids, err := ing.RecentTracks(ctx)
	if err != nil {
		return err
	}
	artistIDs = append(artistIDs, ids...)

	if err := ing.LinkRelatedArtists(ctx, artistIDs); err != nil {
		return err
	}

	return ing.FetchArtistImages(ctx)
}
