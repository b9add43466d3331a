package stt

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleScope           = "https://www.googleapis.com/auth/cloud-platform"
	defaultGoogleEndpoint = "https://speech.googleapis.com"
	defaultPollInterval   = 2 * time.Second

	// speech:recognize refuses audio longer than one minute.
	syncRecognizeLimit = time.Minute
	wavHeaderBytes     = 44
)

// GoogleProvider implements STT using Google Cloud Speech-to-Text REST API
type GoogleProvider struct {
	projectID  string
	apiKey     string
	endpoint   string
	language   string
	httpClient *http.Client
	useAPIKey  bool // true if using API key, false if using service account
	log        *logrus.Entry

	pollInterval time.Duration
}

// IsGoogleAPIKey reports whether keyData looks like an API key (39 chars,
// "AIzaSy" prefix) rather than service account credentials.
func IsGoogleAPIKey(keyData string) bool {
	keyData = strings.TrimSpace(keyData)
	return len(keyData) == 39 && strings.HasPrefix(keyData, "AIzaSy")
}

// NewGoogleProvider creates a new Google STT provider
// keyData can be either:
//   - An API key (39 characters, typically starts with "AIzaSy")
//   - A file path to a JSON key file (e.g., "./keys/google-service-account.json")
//   - A JSON string containing the service account credentials
//   - Empty, in which case application default credentials are used
func NewGoogleProvider(ctx context.Context, projectID, keyData string, log *logrus.Entry) (*GoogleProvider, error) {
	log = entryOrDiscard(log)
	keyDataTrimmed := strings.TrimSpace(keyData)

	if IsGoogleAPIKey(keyDataTrimmed) {
		log.Info("google stt using API key authentication")
		return &GoogleProvider{
			projectID:  projectID,
			apiKey:     keyDataTrimmed,
			endpoint:   defaultGoogleEndpoint,
			language:   "en-US",
			httpClient: &http.Client{Timeout: 90 * time.Second},
			useAPIKey:  true,
			log:        log,

			pollInterval: defaultPollInterval,
		}, nil
	}

	var creds *google.Credentials
	var err error
	switch {
	case keyDataTrimmed == "":
		creds, err = google.FindDefaultCredentials(ctx, googleScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w. Please set GOOGLE_STT_KEY_FILE", err)
		}
	case strings.HasPrefix(keyDataTrimmed, "{"):
		log.Info("google stt using JSON credentials from environment")
		creds, err = google.CredentialsFromJSON(ctx, []byte(keyDataTrimmed), googleScope)
	default:
		log.WithField("key_file", keyDataTrimmed).Info("google stt reading key file")
		jsonData, readErr := os.ReadFile(keyDataTrimmed)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read key file '%s': %w", keyDataTrimmed, readErr)
		}
		creds, err = google.CredentialsFromJSON(ctx, jsonData, googleScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials from JSON: %w", err)
	}

	return &GoogleProvider{
		projectID:  projectID,
		endpoint:   defaultGoogleEndpoint,
		language:   "en-US",
		httpClient: oauth2.NewClient(ctx, creds.TokenSource),
		useAPIKey:  false,
		log:        log,

		pollInterval: defaultPollInterval,
	}, nil
}

// Name returns the provider name
func (p *GoogleProvider) Name() string {
	return "google"
}

// GoogleSTTRequest represents Google Speech-to-Text API request
type GoogleSTTRequest struct {
	Config GoogleSTTConfig `json:"config"`
	Audio  GoogleSTTAudio  `json:"audio"`
}

// GoogleSTTConfig represents recognition config
type GoogleSTTConfig struct {
	Encoding                   string `json:"encoding"`
	SampleRateHertz            int    `json:"sampleRateHertz"`
	AudioChannelCount          int    `json:"audioChannelCount,omitempty"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
	Model                      string `json:"model,omitempty"`
}

// GoogleSTTAudio represents audio data
type GoogleSTTAudio struct {
	Content string `json:"content"` // Base64 encoded
}

// GoogleSTTResponse represents Google Speech-to-Text API response
type GoogleSTTResponse struct {
	Results []GoogleSTTResult `json:"results"`
	Error   *GoogleSTTError   `json:"error,omitempty"`
}

// GoogleSTTResult represents a recognition result
type GoogleSTTResult struct {
	Alternatives []GoogleSTTAlternative `json:"alternatives"`
}

// GoogleSTTAlternative represents a transcript alternative
type GoogleSTTAlternative struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
}

// GoogleSTTError represents an API error
type GoogleSTTError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// Transcribe transcribes a wav file using Google Cloud Speech-to-Text REST API.
// Long audio comes back as several results; their best alternatives are
// joined in order.
func (p *GoogleProvider) Transcribe(ctx context.Context, audioPath string) (*Result, error) {
	startTime := time.Now()

	audioBytes, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	fileExt := filepath.Ext(audioPath)
	p.log.WithFields(logrus.Fields{"path": audioPath, "size": len(audioBytes)}).Debug("processing audio file")

	encoding, sampleRate := getGoogleAudioConfig(fileExt)
	reqBody := GoogleSTTRequest{
		Config: GoogleSTTConfig{
			Encoding:                   encoding,
			SampleRateHertz:            sampleRate,
			AudioChannelCount:          1,
			LanguageCode:               p.language,
			EnableAutomaticPunctuation: true,
			Model:                      "latest_long",
		},
		Audio: GoogleSTTAudio{
			Content: base64.StdEncoding.EncodeToString(audioBytes),
		},
	}

	reqJSON, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var body []byte
	if seconds := wavSeconds(fileExt, len(audioBytes), sampleRate); seconds > syncRecognizeLimit.Seconds() {
		p.log.WithField("seconds", seconds).Debug("audio exceeds sync limit, using long running recognition")
		body, err = p.longRunningRecognize(ctx, reqJSON)
	} else {
		body, err = p.post(ctx, p.apiURL("/v1/speech:recognize"), reqJSON)
	}
	if err != nil {
		return nil, err
	}

	var sttResp GoogleSTTResponse
	if err := json.Unmarshal(body, &sttResp); err != nil {
		return nil, fmt.Errorf("failed to parse Google Speech-to-Text response: %w", err)
	}
	if sttResp.Error != nil {
		return nil, fmt.Errorf("Google Speech-to-Text API error: %s", sttResp.Error.Message)
	}

	// No results means Google heard no speech. That is an empty transcript,
	// not a failure; the caller decides whether it is enough.
	var parts []string
	var confidence float64
	for _, result := range sttResp.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		alt := result.Alternatives[0]
		if text := strings.TrimSpace(alt.Transcript); text != "" {
			parts = append(parts, text)
			confidence += alt.Confidence
		}
	}
	if len(parts) > 0 {
		confidence /= float64(len(parts))
	}
	transcript := strings.Join(parts, " ")

	p.log.WithFields(logrus.Fields{
		"confidence": confidence,
		"length":     len(transcript),
		"duration":   time.Since(startTime).String(),
	}).Info("transcription successful")

	return &Result{
		Transcript:  transcript,
		Confidence:  confidence,
		Provider:    p.Name(),
		RawResponse: string(body),
	}, nil
}

// GoogleOperation is a long running recognize operation
type GoogleOperation struct {
	Name     string             `json:"name"`
	Done     bool               `json:"done"`
	Response *GoogleSTTResponse `json:"response,omitempty"`
	Error    *GoogleSTTError    `json:"error,omitempty"`
}

// apiURL builds a v1 URL. Service accounts authenticate through the oauth2
// client's bearer token; API keys ride in the query string.
func (p *GoogleProvider) apiURL(path string) string {
	if p.useAPIKey {
		return fmt.Sprintf("%s%s?key=%s", p.endpoint, path, p.apiKey)
	}
	return p.endpoint + path
}

// longRunningRecognize starts speech:longrunningrecognize and polls the
// operation until it is done. It returns the operation's response body.
func (p *GoogleProvider) longRunningRecognize(ctx context.Context, reqJSON []byte) ([]byte, error) {
	body, err := p.post(ctx, p.apiURL("/v1/speech:longrunningrecognize"), reqJSON)
	if err != nil {
		return nil, err
	}

	for {
		var op GoogleOperation
		if err := json.Unmarshal(body, &op); err != nil {
			return nil, fmt.Errorf("failed to parse Google Speech-to-Text operation: %w", err)
		}
		if op.Error != nil {
			return nil, fmt.Errorf("Google Speech-to-Text API error: %s", op.Error.Message)
		}
		if op.Done {
			if op.Response == nil {
				return []byte("{}"), nil
			}
			return json.Marshal(op.Response)
		}
		if op.Name == "" {
			return nil, fmt.Errorf("Google Speech-to-Text returned an operation without a name")
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.pollInterval):
		}

		body, err = p.do(ctx, http.MethodGet, p.apiURL("/v1/operations/"+op.Name), nil)
		if err != nil {
			return nil, err
		}
	}
}

func (p *GoogleProvider) post(ctx context.Context, apiURL string, reqJSON []byte) ([]byte, error) {
	return p.do(ctx, http.MethodPost, apiURL, reqJSON)
}

// do sends one request and returns the body of a 200 response
func (p *GoogleProvider) do(ctx context.Context, method, apiURL string, reqJSON []byte) ([]byte, error) {
	var reqBody io.Reader
	if reqJSON != nil {
		reqBody = bytes.NewReader(reqJSON)
	}
	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if reqJSON != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !p.useAPIKey && p.projectID != "" {
		// Bills the call to the configured project rather than the
		// credentials' home project.
		req.Header.Set("x-goog-user-project", p.projectID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Google Speech-to-Text: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr GoogleSTTResponse
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != nil {
			return nil, fmt.Errorf("Google Speech-to-Text API error: %s", apiErr.Error.Message)
		}
		return nil, fmt.Errorf("Google Speech-to-Text API returned status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// wavSeconds estimates the length of 16-bit mono PCM wav audio. Other
// formats report zero and always go through the sync endpoint.
func wavSeconds(fileExt string, size, sampleRate int) float64 {
	if strings.ToLower(fileExt) != ".wav" || sampleRate <= 0 || size <= wavHeaderBytes {
		return 0
	}
	return float64(size-wavHeaderBytes) / float64(sampleRate*2)
}

// getGoogleAudioConfig determines encoding and sample rate based on file extension
func getGoogleAudioConfig(fileExt string) (string, int) {
	switch strings.ToLower(fileExt) {
	case ".wav":
		return "LINEAR16", 16000
	case ".mp3":
		return "MP3", 44100
	case ".ogg":
		return "OGG_OPUS", 48000
	case ".flac":
		return "FLAC", 44100
	default:
		return "LINEAR16", 16000
	}
}
