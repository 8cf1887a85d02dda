package google

import (
	"context"
	"fmt"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/repositories"
)

const defaultLanguageCode = "en-US"

// SynthesizeSpeechAPI is the subset of the Cloud Text-to-Speech client used by Synthesizer
type SynthesizeSpeechAPI interface {
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// Synthesizer implements SpeechSynthesizer for Google Cloud.
// Google encodes the quality tier in the voice name (Standard, WaveNet, Neural2).
type Synthesizer struct {
	client       SynthesizeSpeechAPI
	languageCode string
	logger       *zap.Logger
}

// Ensure Synthesizer implements the SpeechSynthesizer interface
var _ repositories.SpeechSynthesizer = (*Synthesizer)(nil)

// NewSynthesizer wraps an existing client. languageCode is used when the voice name carries none.
func NewSynthesizer(client SynthesizeSpeechAPI, languageCode string, logger *zap.Logger) *Synthesizer {
	if languageCode == "" {
		languageCode = defaultLanguageCode
	}
	return &Synthesizer{
		client:       client,
		languageCode: languageCode,
		logger:       logger,
	}
}

// NewSynthesizerFromEnv creates the Cloud Text-to-Speech client using application default credentials
func NewSynthesizerFromEnv(ctx context.Context, languageCode string, logger *zap.Logger) (*Synthesizer, error) {
	client, err := texttospeech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create text-to-speech client: %w", err)
	}
	return NewSynthesizer(client, languageCode, logger), nil
}

// Synthesize converts text to MP3 audio
func (s *Synthesizer) Synthesize(ctx context.Context, input repositories.SynthesisInput) ([]byte, error) {
	languageCode := languageFromVoice(input.VoiceID, s.languageCode)

	s.logger.Debug("Calling Google SynthesizeSpeech",
		zap.String("voice", input.VoiceID),
		zap.String("languageCode", languageCode))

	resp, err := s.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: input.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageCode,
			Name:         input.VoiceID,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	})
	if err != nil {
		return nil, err
	}

	return resp.GetAudioContent(), nil
}

// Close releases the underlying gRPC connection
func (s *Synthesizer) Close() error {
	return s.client.Close()
}

// languageFromVoice extracts the BCP-47 prefix of names like "en-GB-Neural2-A"
func languageFromVoice(voice, fallback string) string {
	parts := strings.Split(voice, "-")
	if len(parts) >= 3 && len(parts[0]) >= 2 && len(parts[1]) == 2 {
		return parts[0] + "-" + parts[1]
	}
	return fallback
}
