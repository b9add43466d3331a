package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingField is returned when the model leaves out accent,
	// confidence or summary.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidJudgment covers present but unusable values.
	ErrInvalidJudgment = errors.New("invalid judgment")
)

// Judgment is the classifier's answer. It is also the HTTP success body.
type Judgment struct {
	Accent     string  `json:"accent"`
	Confidence float64 `json:"confidence"`
	Summary    string  `json:"summary"`
}

type rawJudgment struct {
	Accent     *string  `json:"accent"`
	Confidence *float64 `json:"confidence"`
	Summary    *string  `json:"summary"`
}

// ParseJudgment decodes the model output as-is. Nothing is repaired or
// defaulted: anything but a bare JSON object fails, as does a missing or
// wrongly typed field, an empty accent or a confidence outside [0,1].
func ParseJudgment(content string) (*Judgment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty response")
	}

	var raw rawJudgment
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response as JSON: %w", err)
	}

	switch {
	case raw.Accent == nil:
		return nil, fmt.Errorf("%w: accent", ErrMissingField)
	case raw.Confidence == nil:
		return nil, fmt.Errorf("%w: confidence", ErrMissingField)
	case raw.Summary == nil:
		return nil, fmt.Errorf("%w: summary", ErrMissingField)
	}

	accent := strings.TrimSpace(*raw.Accent)
	if accent == "" {
		return nil, fmt.Errorf("%w: empty accent", ErrInvalidJudgment)
	}
	if *raw.Confidence < 0 || *raw.Confidence > 1 {
		return nil, fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidJudgment, *raw.Confidence)
	}

	return &Judgment{
		Accent:     accent,
		Confidence: *raw.Confidence,
		Summary:    *raw.Summary,
	}, nil
}
