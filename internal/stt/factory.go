package stt

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"accentdetector/internal/config"
	"accentdetector/internal/media"
)

// CreateProvider creates an STT provider based on cfg.STTProvider. The
// OpenAI client is shared with the classifier.
func CreateProvider(ctx context.Context, cfg *config.Config, client *openai.Client, log *logrus.Entry) (Provider, error) {
	log = entryOrDiscard(log)
	providerName := strings.ToLower(strings.TrimSpace(cfg.STTProvider))
	if providerName == "" {
		providerName = "openai"
		log.Info("STT_PROVIDER not set, defaulting to 'openai'")
	}

	switch providerName {
	case "openai":
		if client == nil {
			return nil, fmt.Errorf("openai STT provider requires an OpenAI client")
		}
		return NewOpenAIProvider(client, cfg.TranscribeModel, log.WithField("provider", "openai")), nil
	case "google":
		return createGoogleProvider(ctx, cfg, log.WithField("provider", "google"))
	case "local":
		if strings.TrimSpace(cfg.WhisperModel) == "" {
			return nil, fmt.Errorf("WHISPER_MODEL is required for the local STT provider")
		}
		return NewLocalProvider(cfg.WhisperCLI, cfg.WhisperModel, media.ExecRunner{}, log.WithField("provider", "local")), nil
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: openai, google, local", providerName)
	}
}

// createGoogleProvider creates a Google STT provider
// GOOGLE_STT_KEY_FILE can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
//
// GOOGLE_STT_PROJECT_ID is optional and only sets the billing project.
func createGoogleProvider(ctx context.Context, cfg *config.Config, log *logrus.Entry) (Provider, error) {
	return NewGoogleProvider(ctx, cfg.GoogleProjectID, cfg.GoogleKeyFile, log)
}
