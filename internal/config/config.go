package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names
const (
	EnvAudioBucket        = "AUDIO_BUCKET"
	EnvAWSRegion          = "AWS_REGION"
	EnvSynthProvider      = "SYNTH_PROVIDER"
	EnvPollyEngine        = "POLLY_ENGINE"
	EnvLocalAudioDir      = "LOCAL_AUDIO_DIR"
	EnvPublicBaseURL      = "PUBLIC_BASE_URL"
	EnvAudioURLSecret     = "AUDIO_URL_SECRET"
	EnvPort               = "PORT"
	EnvAppEnv             = "APP_ENV"
	EnvLogFile            = "LOG_FILE"
	EnvGoogleTTSLanguage  = "GOOGLE_TTS_LANGUAGE"
	EnvGoogleTTSVoice     = "GOOGLE_TTS_VOICE"
	EnvLambdaFunctionName = "AWS_LAMBDA_FUNCTION_NAME"
)

// Provider selects the speech synthesis backend
type Provider string

const (
	ProviderPolly      Provider = "polly"
	ProviderElevenLabs Provider = "elevenlabs"
	ProviderGoogle     Provider = "google"
	ProviderMock       Provider = "mock"
)

const (
	defaultPort        = "8080"
	defaultPollyEngine = "neural"
	defaultAppEnv      = "production"
	defaultGoogleVoice = "en-US-Neural2-F"
)

// Config holds the process wide configuration
type Config struct {
	// AudioBucket enables S3 delivery when set
	AudioBucket string
	AWSRegion   string

	Provider    Provider
	PollyEngine string

	// LocalAudioDir enables the local file store when AudioBucket is empty
	LocalAudioDir  string
	PublicBaseURL  string
	AudioURLSecret string

	GoogleLanguage string
	// GoogleVoice is used when a request names no voice
	GoogleVoice string

	Port    string
	AppEnv  string
	LogFile string

	// Lambda is true when running inside the AWS Lambda runtime
	Lambda bool
}

// Load reads .env (when present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables, applying defaults
func FromEnv() *Config {
	cfg := &Config{
		AudioBucket:    os.Getenv(EnvAudioBucket),
		AWSRegion:      os.Getenv(EnvAWSRegion),
		Provider:       Provider(os.Getenv(EnvSynthProvider)),
		PollyEngine:    os.Getenv(EnvPollyEngine),
		LocalAudioDir:  os.Getenv(EnvLocalAudioDir),
		PublicBaseURL:  os.Getenv(EnvPublicBaseURL),
		AudioURLSecret: os.Getenv(EnvAudioURLSecret),
		GoogleLanguage: os.Getenv(EnvGoogleTTSLanguage),
		GoogleVoice:    os.Getenv(EnvGoogleTTSVoice),
		Port:           os.Getenv(EnvPort),
		AppEnv:         os.Getenv(EnvAppEnv),
		LogFile:        os.Getenv(EnvLogFile),
		Lambda:         os.Getenv(EnvLambdaFunctionName) != "",
	}

	if cfg.Provider == "" {
		cfg.Provider = ProviderPolly
	}
	if cfg.PollyEngine == "" {
		cfg.PollyEngine = defaultPollyEngine
	}
	if cfg.GoogleVoice == "" {
		cfg.GoogleVoice = defaultGoogleVoice
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = defaultAppEnv
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "http://localhost:" + cfg.Port
	}

	return cfg
}

// Validate checks the combination of settings
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderPolly, ProviderElevenLabs, ProviderGoogle, ProviderMock:
	default:
		return fmt.Errorf("unsupported synthesis provider %q", c.Provider)
	}

	if c.AudioBucket == "" && c.LocalAudioDir != "" && c.AudioURLSecret == "" {
		return fmt.Errorf("%s is required when %s is set", EnvAudioURLSecret, EnvLocalAudioDir)
	}

	return nil
}

// Development reports whether verbose development logging is requested
func (c *Config) Development() bool {
	return c.AppEnv == "development"
}
