// Package limiter paces outgoing API requests. The next-allowed-request
// time is persisted to a file so that a Retry-After from one run is still
// honored by the next run of the batch.
package limiter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

func New(filename string, delay time.Duration) *Limiter {
	return &Limiter{
		filename: filename,
		delay:    delay,
	}
}

type Limiter struct {
	filename string
	delay    time.Duration
	nextAt   time.Time
}

// Load restores a persisted next-request time, if one exists.
func (lim *Limiter) Load() error {
	bs, err := os.ReadFile(lim.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return fmt.Errorf("error reading limiter file: %w", err)
	}

	lim.nextAt, err = time.Parse(time.UnixDate, string(bs))
	if err != nil {
		return fmt.Errorf("error parsing limiter file: %w", err)
	}

	return nil
}

// Wait blocks until the next request is allowed, or until ctx is done.
func (lim *Limiter) Wait(ctx context.Context) error {
	if lim.nextAt.IsZero() {
		return nil
	}

	dur := time.Until(lim.nextAt)
	if dur > time.Second {
		log.Info().
			Str("until", lim.nextAt.Format(time.StampMilli)).
			Msg("waiting for rate limit")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
	}

	if err := os.Remove(lim.filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	lim.nextAt = time.Time{}

	return nil
}

// SetNextAt records a server-imposed wait, given the value of a Retry-After
// header in seconds. An empty value means one minute. The wait is persisted
// so an interrupted run doesn't forget it.
func (lim *Limiter) SetNextAt(secondsStr string) error {
	if secondsStr == "" {
		secondsStr = "60"
	}
	seconds, err := strconv.ParseInt(secondsStr, 10, 64)
	if err != nil {
		return fmt.Errorf("error parsing retry-after %q: %w", secondsStr, err)
	}
	lim.nextAt = time.Now().Add(time.Duration(seconds)*time.Second + time.Second)
	if err := os.WriteFile(lim.filename, []byte(lim.nextAt.Format(time.UnixDate)), 0o666); err != nil {
		return err
	}
	return nil
}

// Delay spaces the next request by the configured per-request delay.
func (lim *Limiter) Delay() {
	lim.nextAt = time.Now().Add(lim.delay)
}
