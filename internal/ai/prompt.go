package ai

import "fmt"

// Mode selects the system prompt. The upload and URL endpoints have always
// used slightly different instructions and callers depend on both.
type Mode int

const (
	// ModeUpload asks for an answer no matter what, defaulting to American.
	ModeUpload Mode = iota
	// ModeURL asks for a best guess that notes its own limitations.
	ModeURL
)

func (m Mode) String() string {
	switch m {
	case ModeUpload:
		return "upload"
	case ModeURL:
		return "url"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

const uploadSystemPrompt = `You are an expert in linguistics and accent detection. Your task is to analyze the transcription and identify the English accent (American, British, Australian, Indian, etc.). Even with limited data, provide your best assessment. If you truly cannot determine the accent, suggest the most likely possibilities based on any subtle cues. ALWAYS respond with a valid JSON containing 'accent' (the identified accent or 'American' if uncertain), 'confidence' (0.1-1.0, use at least 0.1 even when uncertain), and 'summary' (your explanation).`

const urlSystemPrompt = `You are an expert in linguistics and accent detection. Analyze the following transcription and determine the English accent (American, British, Australian, Indian, etc.). If the transcription is too short or lacks distinctive features, make your best guess based on available cues and note the limitations in your summary. Provide your answer as a JSON with fields 'accent', 'confidence' (0-1), and 'summary' (a brief explanation of why you identified this accent, including key linguistic features).`

// BuildPrompt returns the system and user messages for one classification
func BuildPrompt(transcript string, mode Mode) (string, string) {
	systemPrompt := urlSystemPrompt
	if mode == ModeUpload {
		systemPrompt = uploadSystemPrompt
	}
	return systemPrompt, "Transcription: " + transcript
}
