package stt

// Result represents the result of a speech-to-text transcription
type Result struct {
	Transcript  string  // The transcribed text
	Confidence  float64 // Confidence score (0.0-1.0), 0 if the backend does not report one
	Provider    string  // The provider used (e.g., "openai", "google")
	RawResponse string  // Raw response from the provider (for debugging/logging)
}
