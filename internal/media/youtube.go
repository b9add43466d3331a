package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoYouTubeOutput means yt-dlp exited cleanly but left no wav file.
var ErrNoYouTubeOutput = errors.New("no wav output found")

// AudioFetcher downloads audio for a URL straight to a wav file, skipping
// the video container entirely.
type AudioFetcher interface {
	Download(ctx context.Context, rawURL string, assets *Assets) (string, error)
}

// YouTubeDownloader shells out to yt-dlp for best-audio download and wav
// conversion.
type YouTubeDownloader struct {
	bin    string
	runner CommandRunner
}

func NewYouTubeDownloader(bin string, runner CommandRunner) *YouTubeDownloader {
	if bin == "" {
		bin = "yt-dlp"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &YouTubeDownloader{bin: bin, runner: runner}
}

// Download writes <dir>/yt_audio_<uuid>.wav and returns its path. Every
// file yt-dlp leaves behind under the template prefix is tracked, including
// on failure.
func (y *YouTubeDownloader) Download(ctx context.Context, rawURL string, assets *Assets) (string, error) {
	base := UniqueName("yt_audio")
	template := filepath.Join(assets.Dir(), base)

	_, runErr := y.runner.Run(ctx, y.bin,
		"-f", "bestaudio",
		"-o", template+".%(ext)s",
		"--extract-audio",
		"--audio-format", "wav",
		"--no-playlist",
		rawURL,
	)

	audioPath, scanErr := collectOutputs(assets, base)
	if runErr != nil {
		return "", runErr
	}
	if scanErr != nil {
		return "", fmt.Errorf("scan %s: %w", assets.Dir(), scanErr)
	}
	if audioPath == "" {
		return "", fmt.Errorf("%w for %s", ErrNoYouTubeOutput, template)
	}
	return audioPath, nil
}

// collectOutputs tracks every entry in the asset dir starting with base and
// returns the first one ending in .wav.
func collectOutputs(assets *Assets, base string) (string, error) {
	entries, err := os.ReadDir(assets.Dir())
	if err != nil {
		return "", err
	}
	audioPath := ""
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, base) {
			continue
		}
		path := filepath.Join(assets.Dir(), name)
		if audioPath == "" && strings.HasSuffix(name, ".wav") {
			audioPath = path
			assets.Track(AssetAudio, path)
			continue
		}
		assets.Track(AssetScratch, path)
	}
	return audioPath, nil
}
