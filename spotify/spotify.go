// Package spotify is a minimal client for the parts of the Spotify Web API
// this job consumes: the current user's top artists, top tracks and
// recently-played feed, plus per-item artist, related-artist, audio-analysis
// and search lookups.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	"listenlog/limiter"
)

const (
	baseURL  = "https://api.spotify.com/v1"
	tokenURL = "https://accounts.spotify.com/api/token"

	nextReqFilename = "next-req"
)

// Scope is the permission set the refresh token must have been granted with.
const Scope = "user-top-read user-library-read user-read-recently-played"

// New creates a client that authenticates with the refresh-token grant. The
// refresh token must carry Scope; the user-level endpoints reject plain
// client-credentials tokens.
func New(clientID, clientSecret, refreshToken string) *Client {
	lim := limiter.New(nextReqFilename, time.Second/10)
	if err := lim.Load(); err != nil {
		log.Warn().Err(err).Msg("ignoring persisted rate limit state")
	}

	return &Client{
		http:         resty.New().SetBaseURL(baseURL),
		lim:          lim,
		clientID:     clientID,
		clientSecret: clientSecret,
		refreshToken: refreshToken,
	}
}

type Client struct {
	http *resty.Client
	lim  *limiter.Limiter

	clientID     string
	clientSecret string
	refreshToken string

	accessToken string
	expiresAt   time.Time
}

type tokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (spo *Client) token(ctx context.Context) (string, error) {
	if spo.accessToken != "" && spo.expiresAt.After(time.Now().Add(time.Second)) {
		return spo.accessToken, nil
	}

	var result tokenResult
	resp, err := spo.http.R().
		SetContext(ctx).
		SetBasicAuth(spo.clientID, spo.clientSecret).
		SetFormData(map[string]string{
			"grant_type":    "refresh_token",
			"refresh_token": spo.refreshToken,
		}).
		SetResult(&result).
		Post(tokenURL)
	if err != nil {
		return "", fmt.Errorf("token request error: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &AuthError{Status: resp.StatusCode(), Message: resp.String()}
	}
	if result.AccessToken == "" {
		return "", &AuthError{Status: resp.StatusCode(), Message: "no access token in token response"}
	}

	spo.accessToken = result.AccessToken
	spo.expiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)

	return spo.accessToken, nil
}

// get performs one authenticated GET, decoding the response body into out.
// A 429 is retried after the server-requested wait; the wait survives
// process restarts via the limiter file.
func (spo *Client) get(ctx context.Context, path string, query map[string]string, out any) error {
	for {
		if err := spo.lim.Wait(ctx); err != nil {
			return err
		}

		token, err := spo.token(ctx)
		if err != nil {
			return err
		}

		req := spo.http.R().
			SetContext(ctx).
			SetAuthToken(token).
			SetResult(out)
		if query != nil {
			req.SetQueryParams(query)
		}

		resp, err := req.Get(path)
		if err != nil {
			return fmt.Errorf("request error on %s: %w", path, err)
		}

		switch {
		case resp.StatusCode() == http.StatusTooManyRequests:
			if err := spo.lim.SetNextAt(resp.Header().Get("Retry-After")); err != nil {
				return err
			}
			continue
		case resp.StatusCode() == http.StatusUnauthorized,
			resp.StatusCode() == http.StatusForbidden:
			return &AuthError{Status: resp.StatusCode(), Message: resp.String()}
		case !resp.IsSuccess():
			return &APIError{Status: resp.StatusCode(), Endpoint: path, Message: resp.String()}
		}

		spo.lim.Delay()
		return nil
	}
}
