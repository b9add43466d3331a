package media

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Step names the part of acquisition that failed.
type Step string

const (
	StepSave     Step = "save"
	StepDownload Step = "download"
	StepYouTube  Step = "youtube"
	StepExtract  Step = "extract"
)

// AcquireError wraps a failure with the acquisition step it came from.
type AcquireError struct {
	Step Step
	Err  error
}

func (e *AcquireError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *AcquireError) Unwrap() error {
	return e.Err
}

// Acquirer produces a local wav file for any Source. Each source kind has its
// own strategy; generic URLs and uploads go through the extractor, YouTube
// links are fetched as audio directly.
type Acquirer struct {
	downloader Downloader
	youtube    AudioFetcher
	extractor  Extractor
}

func NewAcquirer(downloader Downloader, youtube AudioFetcher, extractor Extractor) *Acquirer {
	return &Acquirer{downloader: downloader, youtube: youtube, extractor: extractor}
}

// Acquire returns the path of the audio asset. All files it creates are
// tracked in assets whether or not it succeeds.
func (a *Acquirer) Acquire(ctx context.Context, src Source, assets *Assets) (string, error) {
	switch src.Kind {
	case SourceUpload:
		videoPath, err := a.saveUpload(src, assets)
		if err != nil {
			return "", &AcquireError{Step: StepSave, Err: err}
		}
		return a.extract(ctx, videoPath, assets)
	case SourceGenericURL:
		videoPath := assets.New(AssetVideo, "video", ".mp4")
		if err := a.downloader.Download(ctx, src.URL, videoPath); err != nil {
			return "", &AcquireError{Step: StepDownload, Err: err}
		}
		return a.extract(ctx, videoPath, assets)
	case SourceYouTubeURL:
		audioPath, err := a.youtube.Download(ctx, src.URL, assets)
		if err != nil {
			return "", &AcquireError{Step: StepYouTube, Err: err}
		}
		return audioPath, nil
	default:
		return "", fmt.Errorf("unsupported source kind %d", src.Kind)
	}
}

func (a *Acquirer) extract(ctx context.Context, videoPath string, assets *Assets) (string, error) {
	audioPath, err := a.extractor.Extract(ctx, videoPath, assets)
	if err != nil {
		return "", &AcquireError{Step: StepExtract, Err: err}
	}
	return audioPath, nil
}

func (a *Acquirer) saveUpload(src Source, assets *Assets) (string, error) {
	if src.Body == nil {
		return "", fmt.Errorf("upload body is missing")
	}
	dst := assets.New(AssetVideo, "video", UploadExt(src.Filename))

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src.Body); err != nil {
		return "", err
	}
	return dst, out.Close()
}

// UploadExt keeps the uploaded file's extension so ffmpeg can pick the
// demuxer, falling back to .mp4.
func UploadExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || ext == ".wav" {
		return ".mp4"
	}
	return ext
}
