package pipeline

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"accentdetector/internal/ai"
	"accentdetector/internal/config"
	"accentdetector/internal/logger"
	"accentdetector/internal/media"
	"accentdetector/internal/metrics"
	"accentdetector/internal/stt"
)

// NewOpenAIClient honours OPENAI_BASE_URL so any compatible gateway works.
func NewOpenAIClient(cfg *config.Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.OpenAIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// FromConfig wires the production collaborators: yt-dlp, ffmpeg, the
// configured speech-to-text backend and the OpenAI classifier.
func FromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, rec *metrics.Recorder) (*Detector, stt.Provider, error) {
	if log == nil {
		log = logger.Discard()
	}
	if err := media.EnsureDir(cfg.TempDir); err != nil {
		return nil, nil, err
	}
	client := NewOpenAIClient(cfg)

	provider, err := stt.CreateProvider(ctx, cfg, client, log.Component("stt"))
	if err != nil {
		return nil, nil, fmt.Errorf("create STT provider: %w", err)
	}
	classifier := ai.NewOpenAIClassifier(client, cfg.ChatModel, log.Component("classifier"))

	runner := media.ExecRunner{}
	acquirer := media.NewAcquirer(
		media.NewHTTPDownloader(nil),
		media.NewYouTubeDownloader(cfg.YtDlpBin, runner),
		media.NewFFmpegExtractor(cfg.FFmpegBin, runner),
	)

	detector := NewDetector(acquirer, provider, classifier,
		WithTempDir(cfg.TempDir),
		WithMinWords(cfg.MinWords),
		WithTimeout(cfg.PipelineTimeout),
		WithMetrics(rec),
		WithLogger(log.Component("pipeline")),
	)
	return detector, provider, nil
}
