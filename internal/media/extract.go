package media

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// SampleRate and Channels match what the speech-to-text backends expect.
	SampleRate = 16000
	Channels   = 1
)

// Extractor turns a video file into a mono 16 kHz PCM wav beside it.
type Extractor interface {
	Extract(ctx context.Context, videoPath string, assets *Assets) (string, error)
}

type FFmpegExtractor struct {
	bin    string
	runner CommandRunner
}

func NewFFmpegExtractor(bin string, runner CommandRunner) *FFmpegExtractor {
	if bin == "" {
		bin = "ffmpeg"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &FFmpegExtractor{bin: bin, runner: runner}
}

// Extract runs ffmpeg -i video -vn -acodec pcm_s16le -ac 1 -ar 16000 out.wav.
// The output is tracked before ffmpeg starts so a partial file is removed too.
func (e *FFmpegExtractor) Extract(ctx context.Context, videoPath string, assets *Assets) (string, error) {
	out := AudioPathFor(videoPath)
	assets.Track(AssetAudio, out)

	_, err := e.runner.Run(ctx, e.bin,
		"-hide_banner", "-loglevel", "error",
		"-y", "-i", videoPath,
		"-vn",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(Channels),
		"-ar", strconv.Itoa(SampleRate),
		"-f", "wav",
		out,
	)
	if err != nil {
		return "", err
	}
	return out, nil
}

// AudioPathFor swaps the extension of videoPath for .wav.
func AudioPathFor(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".wav"
}
