package stt

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"accentdetector/internal/logger"
)

// OpenAIProvider implements STT using the OpenAI audio transcription API
type OpenAIProvider struct {
	client *openai.Client
	model  string
	log    *logrus.Entry
}

// NewOpenAIProvider creates a new OpenAI STT provider
func NewOpenAIProvider(client *openai.Client, model string, log *logrus.Entry) *OpenAIProvider {
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAIProvider{client: client, model: model, log: entryOrDiscard(log)}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Transcribe uploads the wav file and returns the plain text transcript
func (p *OpenAIProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}
	p.log.WithFields(logrus.Fields{"path": audioPath, "size": info.Size(), "model": p.model}).
		Debug("sending audio to openai")

	resp, err := p.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    p.model,
		FilePath: audioPath,
		Language: "en",
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI transcription error: %w", err)
	}

	transcript := strings.TrimSpace(resp.Text)
	p.log.WithFields(logrus.Fields{
		"length":   len(transcript),
		"duration": time.Since(startTime).String(),
	}).Info("transcription successful")

	return &Result{
		Transcript:  transcript,
		Provider:    p.Name(),
		RawResponse: resp.Text,
	}, nil
}

func entryOrDiscard(log *logrus.Entry) *logrus.Entry {
	if log != nil {
		return log
	}
	return logger.Discard().Entry
}
