package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"accentdetector/internal/logger"
)

// Classifier turns a transcript into an accent judgment
type Classifier interface {
	Classify(ctx context.Context, transcript string, mode Mode) (*Judgment, error)
}

// OpenAIClassifier asks a chat model for the judgment in JSON mode
type OpenAIClassifier struct {
	client *openai.Client
	model  string
	log    *logrus.Entry
}

func NewOpenAIClassifier(client *openai.Client, model string, log *logrus.Entry) *OpenAIClassifier {
	if model == "" {
		model = openai.GPT4oMini
	}
	if log == nil {
		log = logger.Discard().Entry
	}
	return &OpenAIClassifier{client: client, model: model, log: log}
}

// Classify sends one chat completion and parses its first choice
func (c *OpenAIClassifier) Classify(ctx context.Context, transcript string, mode Mode) (*Judgment, error) {
	startTime := time.Now()
	systemPrompt, userPrompt := BuildPrompt(transcript, mode)

	c.log.WithFields(logrus.Fields{
		"model":             c.model,
		"mode":              mode.String(),
		"transcript_length": len(transcript),
	}).Debug("calling openai chat completion")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	content := resp.Choices[0].Message.Content
	c.log.WithFields(logrus.Fields{
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"preview":           truncateString(content, 200),
	}).Debug("openai response received")

	judgment, err := ParseJudgment(content)
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{
		"accent":     judgment.Accent,
		"confidence": judgment.Confidence,
		"duration":   time.Since(startTime).String(),
	}).Info("accent classified")
	return judgment, nil
}

// truncateString truncates string to max length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
