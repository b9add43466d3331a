package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/joho/godotenv"

	"accentdetector/internal/config"
	"accentdetector/internal/logger"
	"accentdetector/internal/pipeline"
)

func main() {
	file := flag.String("file", "", "path to a local video file")
	url := flag.String("url", "", "public video or YouTube URL")
	flag.Parse()

	if (*file == "") == (*url == "") {
		fmt.Fprintln(os.Stderr, "usage: detect -file video.mp4 | -url https://...")
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	// Logs go to stderr so stdout stays pure JSON.
	appLog := logger.NewWithOutput(cfg.Environment, cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	detector, _, err := pipeline.FromConfig(ctx, cfg, appLog, nil)
	if err != nil {
		appLog.WithError(err).Fatal("failed to build pipeline")
	}

	var outcome *pipeline.Outcome
	if *file != "" {
		f, openErr := os.Open(*file)
		if openErr != nil {
			appLog.WithError(openErr).Fatal("failed to open video")
		}
		defer f.Close()
		outcome, err = detector.DetectUpload(ctx, filepath.Base(*file), f)
	} else {
		outcome, err = detector.DetectURL(ctx, *url)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err != nil {
		_ = enc.Encode(map[string]string{"error": err.Error()})
		os.Exit(1)
	}
	_ = enc.Encode(outcome.Judgment)
	if outcome.Insufficient {
		os.Exit(3)
	}
}
