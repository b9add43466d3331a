package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	GinMode         string        `mapstructure:"gin_mode"`
	Environment     string        `mapstructure:"environment"`
	LogLevel        string        `mapstructure:"log_level"`
	OpenAIKey       string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string        `mapstructure:"openai_base_url"`
	ChatModel       string        `mapstructure:"openai_chat_model"`
	TranscribeModel string        `mapstructure:"openai_transcribe_model"`
	STTProvider     string        `mapstructure:"stt_provider"`
	GoogleProjectID string        `mapstructure:"google_stt_project_id"`
	GoogleKeyFile   string        `mapstructure:"google_stt_key_file"`
	WhisperCLI      string        `mapstructure:"whisper_cli"`
	WhisperModel    string        `mapstructure:"whisper_model"`
	YtDlpBin        string        `mapstructure:"ytdlp_bin"`
	FFmpegBin       string        `mapstructure:"ffmpeg_bin"`
	TempDir         string        `mapstructure:"temp_dir"`
	MaxUploadMB     int           `mapstructure:"max_upload_mb"`
	MinWords        int           `mapstructure:"min_words"`
	PipelineTimeout time.Duration `mapstructure:"pipeline_timeout"`
	StaticDir       string        `mapstructure:"static_dir"`
}

var defaults = map[string]any{
	"port":                    "8080",
	"gin_mode":                "",
	"environment":             "local",
	"log_level":               "info",
	"openai_api_key":          "",
	"openai_base_url":         "",
	"openai_chat_model":       "gpt-4o-mini",
	"openai_transcribe_model": "whisper-1",
	"stt_provider":            "openai",
	"google_stt_project_id":   "",
	"google_stt_key_file":     "",
	"whisper_cli":             "whisper-cli",
	"whisper_model":           "models/ggml-base.en.bin",
	"ytdlp_bin":               "yt-dlp",
	"ffmpeg_bin":              "ffmpeg",
	"temp_dir":                "",
	"max_upload_mb":           200,
	"min_words":               5,
	"pipeline_timeout":        "0s",
	"static_dir":              "",
}

// Load reads configuration from the process environment. Call godotenv.Load
// beforehand if a .env file should be honoured.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.STTProvider = strings.ToLower(strings.TrimSpace(cfg.STTProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings every deployment needs. Backend specific keys
// are checked when the backend is constructed.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OpenAIKey) == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for accent classification")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.MinWords < 0 {
		return fmt.Errorf("MIN_WORDS must not be negative, got %d", c.MinWords)
	}
	if c.PipelineTimeout < 0 {
		return fmt.Errorf("PIPELINE_TIMEOUT must not be negative")
	}
	return nil
}

// MaxUploadBytes is the upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
