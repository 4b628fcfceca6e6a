package ingest

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp marks a played-at instant the API returned that
// could not be parsed. It aborts the recent-tracks batch rather than letting
// a corrupt key into the store.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// NormalizePlayedAt converts an RFC-3339 UTC instant into a local-time
// string in zone, formatted "2006-01-02 15:04:05". Daylight saving is
// resolved by the zone's rules at that instant.
func NormalizePlayedAt(instant string, zone *time.Location) (string, error) {
	t, err := time.Parse(time.RFC3339, instant)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrMalformedTimestamp, instant, err)
	}
	return t.In(zone).Format("2006-01-02 15:04:05"), nil
}
