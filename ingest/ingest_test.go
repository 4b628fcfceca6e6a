package ingest_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listenlog/archive"
	"listenlog/db"
	"listenlog/ingest"
	"listenlog/sink"
	"listenlog/spotify"
)

// fakeSpotify serves canned pages. Lookups missing from the maps come back
// empty rather than failing, so tests only declare what they care about.
type fakeSpotify struct {
	topArtists map[string][]spotify.Artist // keyed by term
	topTracks  map[string][]spotify.Track  // keyed by term
	recent     []spotify.PlayedTrack
	artistTop  map[string][]spotify.Track    // keyed by artist ID
	related    map[string][]spotify.Artist   // keyed by artist ID
	artists    map[string]*spotify.Artist    // keyed by artist ID
	searches   map[string]*spotify.Artist    // keyed by artist name
	analyses   map[string]*spotify.AudioAnalysis

	topArtistsErr map[string]error // injected failure, keyed by term
	analysisErr   map[string]error // injected failure, keyed by track ID
}

func (f *fakeSpotify) TopArtists(_ context.Context, _ int, term string) ([]spotify.Artist, error) {
	if err := f.topArtistsErr[term]; err != nil {
		return nil, err
	}
	return f.topArtists[term], nil
}

func (f *fakeSpotify) TopTracks(_ context.Context, _ int, term string) ([]spotify.Track, error) {
	return f.topTracks[term], nil
}

func (f *fakeSpotify) ArtistTopTracks(_ context.Context, artistID string) ([]spotify.Track, error) {
	return f.artistTop[artistID], nil
}

func (f *fakeSpotify) AudioAnalysis(_ context.Context, trackID string) (*spotify.AudioAnalysis, error) {
	if err := f.analysisErr[trackID]; err != nil {
		return nil, err
	}
	if analysis, ok := f.analyses[trackID]; ok {
		return analysis, nil
	}
	return &spotify.AudioAnalysis{Duration: 200, Tempo: 120, Key: 5, Loudness: -7}, nil
}

func (f *fakeSpotify) RecentlyPlayed(_ context.Context, _ int) ([]spotify.PlayedTrack, error) {
	return f.recent, nil
}

func (f *fakeSpotify) RelatedArtists(_ context.Context, artistID string) ([]spotify.Artist, error) {
	return f.related[artistID], nil
}

func (f *fakeSpotify) Artist(_ context.Context, artistID string) (*spotify.Artist, error) {
	if artist, ok := f.artists[artistID]; ok {
		return artist, nil
	}
	return &spotify.Artist{ID: artistID, Name: "artist " + artistID}, nil
}

func (f *fakeSpotify) SearchArtist(_ context.Context, name string) (*spotify.Artist, error) {
	return f.searches[name], nil
}

func newIngestor(t *testing.T, spo ingest.Client) (*ingest.Ingestor, *db.DB) {
	t.Helper()

	store, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	arch, err := archive.Open(t.TempDir(), ingest.ArchiveKinds...)
	require.NoError(t, err)

	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	return ingest.New(store, spo, arch, paris), store
}

func track(id, name, artistID, artistName string) spotify.Track {
	return spotify.Track{
		ID:   id,
		Name: name,
		Artists: []spotify.Artist{
			{ID: artistID, Name: artistName},
		},
	}
}

func listeningHistory() *fakeSpotify {
	return &fakeSpotify{
		topArtists: map[string][]spotify.Artist{
			"short_term": {
				{ID: "ar1", Name: "Alpha", Genres: []string{"jazz", "bop"}, Popularity: 80},
			},
		},
		topTracks: map[string][]spotify.Track{
			"short_term": {
				track("t1", "One", "ar1", "Alpha"),
				track("t2", "Two", "ar2", "Beta"),
			},
		},
		recent: []spotify.PlayedTrack{
			{Track: track("t3", "Three", "ar1", "Alpha"), PlayedAt: "2024-01-15T23:30:00Z"},
		},
		artistTop: map[string][]spotify.Track{
			"ar1": {track("t1", "One", "ar1", "Alpha")},
		},
		related: map[string][]spotify.Artist{
			"ar1": {{ID: "ar9", Name: "Gamma"}},
			"ar2": {{ID: "ar9", Name: "Gamma"}},
		},
		artists: map[string]*spotify.Artist{
			"ar1": {ID: "ar1", Name: "Alpha"},
			"ar2": {ID: "ar2", Name: "Beta"},
		},
		searches: map[string]*spotify.Artist{
			"Alpha": {ID: "ar1", Name: "Alpha", Images: []spotify.Image{{URL: "http://img/alpha"}}},
			// Beta has no search match: its image row gets an empty URL
		},
	}
}

func count(t *testing.T, store *db.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, store.Table(table).Count(&n).Error)
	return n
}

func TestRunSuccess(t *testing.T) {
	ing, store := newIngestor(t, listeningHistory())

	report := ing.Run(context.Background())
	require.NoError(t, report.Err)
	assert.Equal(t, ingest.CategorySuccess, report.Category)

	assert.EqualValues(t, 1, count(t, store, "top_artists"))
	assert.EqualValues(t, 2, count(t, store, "top_tracks"))
	assert.EqualValues(t, 1, count(t, store, "recent_tracks"))
	assert.EqualValues(t, 2, count(t, store, "related_artists"))
	assert.EqualValues(t, 2, count(t, store, "artist_image_urls"))

	// played-at is stored normalized (winter, UTC+1)
	var playedAt []string
	require.NoError(t, store.Table("recent_tracks").Pluck("played_at", &playedAt).Error)
	assert.Equal(t, []string{"2024-01-16 00:30:00"}, playedAt)

	// Beta had no search match, so its image URL is empty
	var betaURL []string
	require.NoError(t, store.Table("artist_image_urls").
		Where("artist_name = ?", "Beta").
		Pluck("image_url", &betaURL).Error)
	assert.Equal(t, []string{""}, betaURL)
}

func TestRunIsIdempotent(t *testing.T) {
	spo := listeningHistory()
	ing, store := newIngestor(t, spo)

	require.NoError(t, ing.Run(context.Background()).Err)
	require.NoError(t, ing.Run(context.Background()).Err)

	// every kind with a natural key gains zero rows on the second run
	assert.EqualValues(t, 2, count(t, store, "top_tracks"))
	assert.EqualValues(t, 1, count(t, store, "recent_tracks"))
	assert.EqualValues(t, 2, count(t, store, "related_artists"))
	assert.EqualValues(t, 2, count(t, store, "artist_image_urls"))

	// top artists have no natural key and append every run
	assert.EqualValues(t, 2, count(t, store, "top_artists"))
}

func TestVersionIDsUniqueAcrossStore(t *testing.T) {
	ing, store := newIngestor(t, listeningHistory())
	require.NoError(t, ing.Run(context.Background()).Err)
	require.NoError(t, ing.Run(context.Background()).Err)

	seen := map[string]bool{}
	for _, table := range []string{"top_artists", "top_tracks", "recent_tracks", "related_artists"} {
		var ids []string
		require.NoError(t, store.Table(table).Pluck("version_id", &ids).Error)
		for _, id := range ids {
			assert.NotEmpty(t, id)
			assert.False(t, seen[id], "duplicate version id %s in %s", id, table)
			seen[id] = true
		}
	}
}

func TestRelatedPairKeptOncePerRun(t *testing.T) {
	spo := listeningHistory()
	// two distinct artist IDs resolving to the same name, both related to
	// Gamma: only the first discovery of the (Alpha, Gamma) pair survives
	spo.artists["ar2"] = &spotify.Artist{ID: "ar2", Name: "Alpha"}

	ing, store := newIngestor(t, spo)
	require.NoError(t, ing.Run(context.Background()).Err)

	assert.EqualValues(t, 1, count(t, store, "related_artists"))
}

func TestRecentSameTrackDifferentPlayTimes(t *testing.T) {
	spo := listeningHistory()
	spo.recent = []spotify.PlayedTrack{
		{Track: track("t3", "Three", "ar1", "Alpha"), PlayedAt: "2024-01-15T23:30:00Z"},
		{Track: track("t3", "Three", "ar1", "Alpha"), PlayedAt: "2024-01-15T22:00:00Z"},
	}

	ing, store := newIngestor(t, spo)
	require.NoError(t, ing.Run(context.Background()).Err)

	// played-at is part of the natural key, so both plays are rows
	assert.EqualValues(t, 2, count(t, store, "recent_tracks"))
}

func TestAuthFailureMidRunKeepsEarlierBatches(t *testing.T) {
	spo := listeningHistory()
	spo.topArtists["medium_term"] = []spotify.Artist{{ID: "ar5", Name: "Delta"}}
	spo.topArtistsErr = map[string]error{
		"long_term": &spotify.AuthError{Status: 401, Message: "token expired"},
	}

	ing, store := newIngestor(t, spo)
	report := ing.Run(context.Background())

	require.Error(t, report.Err)
	assert.Equal(t, ingest.CategoryAuth, report.Category)

	// the first two terms committed before the failure and stay committed
	assert.EqualValues(t, 2, count(t, store, "top_artists"))
	assert.EqualValues(t, 2, count(t, store, "top_tracks"))

	// later stages never ran
	assert.EqualValues(t, 0, count(t, store, "recent_tracks"))
	assert.EqualValues(t, 0, count(t, store, "related_artists"))
}

func TestAnalysisFailureFailsFetch(t *testing.T) {
	spo := listeningHistory()
	// one track without an analysis fails the whole top-tracks fetch: the
	// numeric columns are not nullable, so there is no partial row to keep
	spo.analysisErr = map[string]error{
		"t2": &spotify.APIError{Status: 404, Endpoint: "/audio-analysis/t2", Message: "analysis not found"},
	}

	ing, store := newIngestor(t, spo)
	report := ing.Run(context.Background())

	require.Error(t, report.Err)
	assert.Equal(t, ingest.CategoryAPI, report.Category)

	// the batch is discarded whole, tracks with good analyses included
	assert.EqualValues(t, 0, count(t, store, "top_tracks"))

	// the top-artists batch for the same term committed before the failure
	assert.EqualValues(t, 1, count(t, store, "top_artists"))
}

func TestMalformedPlayedAtAbortsBatch(t *testing.T) {
	spo := listeningHistory()
	spo.recent = []spotify.PlayedTrack{
		{Track: track("t3", "Three", "ar1", "Alpha"), PlayedAt: "2024-01-15T23:30:00Z"},
		{Track: track("t4", "Four", "ar1", "Alpha"), PlayedAt: "not an instant"},
	}

	ing, store := newIngestor(t, spo)
	report := ing.Run(context.Background())

	require.Error(t, report.Err)
	assert.Equal(t, ingest.CategoryTimestamp, report.Category)

	// the in-progress batch is discarded, valid rows included
	assert.EqualValues(t, 0, count(t, store, "recent_tracks"))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ingest.CategorySuccess, ingest.Classify(nil))
	assert.Equal(t, ingest.CategoryAuth, ingest.Classify(&spotify.AuthError{Status: 401}))
	assert.Equal(t, ingest.CategoryAPI, ingest.Classify(&spotify.APIError{Status: 404}))
	assert.Equal(t, ingest.CategoryStore, ingest.Classify(&sink.StoreError{Table: "top_tracks", Err: assert.AnError}))
	assert.Equal(t, ingest.CategoryArchive, ingest.Classify(&sink.ArchiveError{Kind: "toptracks", Err: assert.AnError}))
	assert.Equal(t, ingest.CategoryCanceled, ingest.Classify(context.Canceled))
	assert.Equal(t, ingest.CategoryUnexpected, ingest.Classify(assert.AnError))

	// a sink failure wrapping an api error is still a sink failure
	assert.Equal(t, ingest.CategoryStore,
		ingest.Classify(&sink.StoreError{Table: "top_tracks", Err: &spotify.APIError{Status: 500}}))
}
