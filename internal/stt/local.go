package stt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"accentdetector/internal/media"
)

// LocalProvider runs whisper.cpp's CLI against the wav file. Nothing leaves
// the host; the model file must already be on disk.
type LocalProvider struct {
	bin    string
	model  string
	runner media.CommandRunner
	log    *logrus.Entry
}

func NewLocalProvider(bin, model string, runner media.CommandRunner, log *logrus.Entry) *LocalProvider {
	if bin == "" {
		bin = "whisper-cli"
	}
	if runner == nil {
		runner = media.ExecRunner{}
	}
	return &LocalProvider{bin: bin, model: model, runner: runner, log: entryOrDiscard(log)}
}

func (p *LocalProvider) Name() string {
	return "local"
}

// Transcribe runs whisper-cli -m model -f audio -l en -nt -np; with
// timestamps and progress disabled stdout is just the text.
func (p *LocalProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()
	out, err := p.runner.Run(ctx, p.bin,
		"-m", p.model,
		"-f", audioPath,
		"-l", "en",
		"-nt",
		"-np",
	)
	if err != nil {
		return nil, fmt.Errorf("local whisper failed: %w", err)
	}

	transcript := strings.Join(strings.Fields(string(out)), " ")
	p.log.WithFields(logrus.Fields{
		"length":   len(transcript),
		"duration": time.Since(startTime).String(),
	}).Info("transcription successful")

	return &Result{
		Transcript:  transcript,
		Provider:    p.Name(),
		RawResponse: string(out),
	}, nil
}
