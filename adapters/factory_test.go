package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/narrator/adapters/polly"
	"github.com/satriahrh/narrator/adapters/s3"
	"github.com/satriahrh/narrator/adapters/speech"
	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/internal/config"
	"github.com/satriahrh/narrator/usecase"
)

func TestBuild_MockInline(t *testing.T) {
	cfg := &config.Config{Provider: config.ProviderMock}

	c, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer c.Close()

	assert.IsType(t, &speech.MockTextToSpeech{}, c.Synthesizer)
	assert.Equal(t, entities.DefaultVoice, c.DefaultVoice)
	assert.Nil(t, c.Store)
	assert.Nil(t, c.Files)
}

func TestBuild_LocalFileStore(t *testing.T) {
	cfg := &config.Config{
		Provider:       config.ProviderMock,
		LocalAudioDir:  t.TempDir(),
		AudioURLSecret: "secret",
		PublicBaseURL:  "http://localhost:8080",
	}

	c, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	require.NotNil(t, c.Files)
	assert.Equal(t, c.Files, c.Store)
}

func TestBuild_PollyAndS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIDEXAMPLE")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	cfg := &config.Config{
		Provider:    config.ProviderPolly,
		AudioBucket: "audio-bucket",
		AWSRegion:   "us-east-1",
	}

	c, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.IsType(t, &polly.Synthesizer{}, c.Synthesizer)
	assert.Equal(t, "Joanna", c.DefaultVoice)
	assert.IsType(t, &s3.Store{}, c.Store)
	assert.Nil(t, c.Files)
}

func TestBuild_ElevenLabsRequiresKey(t *testing.T) {
	t.Setenv("ELEVEN_LABS_API_KEY", "")
	cfg := &config.Config{Provider: config.ProviderElevenLabs}

	_, err := Build(context.Background(), cfg, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestBuild_ElevenLabsDefaultVoice(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3"))
	}))
	defer server.Close()

	t.Setenv("ELEVEN_LABS_API_KEY", "test-api-key")
	t.Setenv("ELEVEN_LABS_API_BASE_URL", server.URL)
	t.Setenv("ELEVEN_LABS_VOICE_ID", "custom-voice")
	t.Setenv("ELEVEN_LABS_MODEL_ID", "")
	t.Setenv("ELEVEN_LABS_OUTPUT_FORMAT", "")

	logger := zaptest.NewLogger(t)
	c, err := Build(context.Background(), &config.Config{Provider: config.ProviderElevenLabs}, logger)
	require.NoError(t, err)
	defer c.Close()
	assert.Equal(t, "custom-voice", c.DefaultVoice)

	svc := usecase.NewSpeechService(c.Synthesizer, c.Store, logger, usecase.WithDefaultVoice(c.DefaultVoice))

	outcome, err := svc.Generate(context.Background(), entities.NewSpeechRequest())
	require.NoError(t, err)
	assert.Equal(t, usecase.OutcomeInline, outcome.Kind)
	assert.Equal(t, "/text-to-speech/custom-voice", gotPath)
}

func TestBuild_UnknownProvider(t *testing.T) {
	_, err := Build(context.Background(), &config.Config{Provider: "azure"}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
