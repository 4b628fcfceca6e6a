package spotify

import (
	"context"
	"fmt"
	"strconv"
)

type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int64    `json:"popularity"`
	Images     []Image  `json:"images"`
}

type Image struct {
	URL    string `json:"url"`
	Width  int64  `json:"width"`
	Height int64  `json:"height"`
}

type topArtistsPage struct {
	Items []Artist `json:"items"`
}

// TopArtists returns the current user's top artists for one ranking window
// ("short_term", "medium_term" or "long_term").
func (spo *Client) TopArtists(ctx context.Context, limit int, term string) ([]Artist, error) {
	var page topArtistsPage
	if err := spo.get(ctx, "/me/top/artists", map[string]string{
		"limit":      strconv.Itoa(limit),
		"time_range": term,
	}, &page); err != nil {
		return nil, fmt.Errorf("top artists (%s): %w", term, err)
	}
	return page.Items, nil
}

type relatedArtistsResult struct {
	Artists []Artist `json:"artists"`
}

// RelatedArtists returns the artists Spotify relates to the given artist.
func (spo *Client) RelatedArtists(ctx context.Context, artistID string) ([]Artist, error) {
	var result relatedArtistsResult
	if err := spo.get(ctx, fmt.Sprintf("/artists/%s/related-artists", artistID), nil, &result); err != nil {
		return nil, fmt.Errorf("related artists for '%s': %w", artistID, err)
	}
	return result.Artists, nil
}

// Artist looks up a single artist by ID.
func (spo *Client) Artist(ctx context.Context, artistID string) (*Artist, error) {
	var artist Artist
	if err := spo.get(ctx, fmt.Sprintf("/artists/%s", artistID), nil, &artist); err != nil {
		return nil, fmt.Errorf("artist '%s': %w", artistID, err)
	}
	return &artist, nil
}

type artistSearchResult struct {
	Artists struct {
		Items []Artist `json:"items"`
	} `json:"artists"`
}

// SearchArtist searches for an artist by name and returns the first match,
// or nil when the search comes back empty. A missing artist is an ordinary
// result here, not an error.
func (spo *Client) SearchArtist(ctx context.Context, name string) (*Artist, error) {
	var result artistSearchResult
	if err := spo.get(ctx, "/search", map[string]string{
		"q":    "artist:" + name,
		"type": "artist",
	}, &result); err != nil {
		return nil, fmt.Errorf("artist search for '%s': %w", name, err)
	}
	if len(result.Artists.Items) == 0 {
		return nil, nil
	}
	return &result.Artists.Items[0], nil
}
