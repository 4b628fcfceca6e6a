// listenlog snapshots a spotify user's listening history (top artists, top
// tracks, recent plays, and the related-artist graph) into a postgres
// database and a per-run parquet archive. It is a sequential batch job:
// run it, read the report, run it again tomorrow. Re-runs are idempotent;
// natural-key dedup filters out everything the store already has.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"listenlog/archive"
	"listenlog/config"
	"listenlog/db"
	"listenlog/ingest"
	"listenlog/spotify"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	report, err := run()
	if err != nil {
		log.Fatal().Err(err).Msg("setup failed")
	}

	if report.Err == nil {
		fmt.Println("SUCCESS ! ;)")
	} else {
		fmt.Printf("%s: %v\n", report.Category, report.Err)
	}
	fmt.Printf("The run took %.2f seconds.\n", report.Elapsed.Seconds())

	if report.Err != nil {
		os.Exit(1)
	}
}

func run() (ingest.Report, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return ingest.Report{}, err
	}

	zone, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return ingest.Report{}, fmt.Errorf("error loading timezone '%s': %w", cfg.Timezone, err)
	}

	store, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return ingest.Report{}, err
	}
	defer store.Close()

	arch, err := archive.Open(cfg.ArchiveDir, ingest.ArchiveKinds...)
	if err != nil {
		return ingest.Report{}, err
	}

	spo := spotify.New(cfg.SpotifyClientID, cfg.SpotifyClientSecret, cfg.SpotifyRefreshToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return ingest.New(store, spo, arch, zone).Run(ctx), nil
}
