package spotify

import (
	"context"
	"fmt"
	"strconv"
)

type Track struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PreviewURL string   `json:"preview_url"`
	Explicit   bool     `json:"explicit"`
	Popularity int64    `json:"popularity"`
	Artists    []Artist `json:"artists"`
}

type topTracksPage struct {
	Items []Track `json:"items"`
}

// TopTracks returns the current user's top tracks for one ranking window.
func (spo *Client) TopTracks(ctx context.Context, limit int, term string) ([]Track, error) {
	var page topTracksPage
	if err := spo.get(ctx, "/me/top/tracks", map[string]string{
		"limit":      strconv.Itoa(limit),
		"time_range": term,
	}, &page); err != nil {
		return nil, fmt.Errorf("top tracks (%s): %w", term, err)
	}
	return page.Items, nil
}

type artistTopTracksResult struct {
	Tracks []Track `json:"tracks"`
}

// ArtistTopTracks returns an artist's own top tracks.
func (spo *Client) ArtistTopTracks(ctx context.Context, artistID string) ([]Track, error) {
	var result artistTopTracksResult
	if err := spo.get(ctx, fmt.Sprintf("/artists/%s/top-tracks", artistID), nil, &result); err != nil {
		return nil, fmt.Errorf("artist top tracks for '%s': %w", artistID, err)
	}
	return result.Tracks, nil
}

// An AudioAnalysis carries the track-level summary of the analysis endpoint.
// Duration is in seconds.
type AudioAnalysis struct {
	Duration float64
	Tempo    float64
	Key      int64
	Loudness float64
}

type audioAnalysisResult struct {
	Track struct {
		Duration float64 `json:"duration"`
		Tempo    float64 `json:"tempo"`
		Key      int64   `json:"key"`
		Loudness float64 `json:"loudness"`
	} `json:"track"`
}

// AudioAnalysis fetches the audio analysis for one track.
func (spo *Client) AudioAnalysis(ctx context.Context, trackID string) (*AudioAnalysis, error) {
	var result audioAnalysisResult
	if err := spo.get(ctx, fmt.Sprintf("/audio-analysis/%s", trackID), nil, &result); err != nil {
		return nil, fmt.Errorf("audio analysis for '%s': %w", trackID, err)
	}
	return &AudioAnalysis{
		Duration: result.Track.Duration,
		Tempo:    result.Track.Tempo,
		Key:      result.Track.Key,
		Loudness: result.Track.Loudness,
	}, nil
}

// A PlayedTrack is one item of the recently-played feed. PlayedAt is the
// raw UTC instant as the API reports it.
type PlayedTrack struct {
	Track    Track  `json:"track"`
	PlayedAt string `json:"played_at"`
}

type recentlyPlayedPage struct {
	Items []PlayedTrack `json:"items"`
}

// RecentlyPlayed returns the user's most recently played tracks, newest
// first.
func (spo *Client) RecentlyPlayed(ctx context.Context, limit int) ([]PlayedTrack, error) {
	var page recentlyPlayedPage
	if err := spo.get(ctx, "/me/player/recently-played", map[string]string{
		"limit": strconv.Itoa(limit),
	}, &page); err != nil {
		return nil, fmt.Errorf("recently played: %w", err)
	}
	return page.Items, nil
}
