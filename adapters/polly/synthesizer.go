package polly

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/polly"
	"github.com/aws/aws-sdk-go-v2/service/polly/types"
	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/domain/repositories"
)

// SynthesizeSpeechAPI is the subset of the Polly client used by Synthesizer
type SynthesizeSpeechAPI interface {
	SynthesizeSpeech(ctx context.Context, params *polly.SynthesizeSpeechInput, optFns ...func(*polly.Options)) (*polly.SynthesizeSpeechOutput, error)
}

// Synthesizer implements SpeechSynthesizer using Amazon Polly
type Synthesizer struct {
	client SynthesizeSpeechAPI
	logger *zap.Logger
}

// Ensure Synthesizer implements the SpeechSynthesizer interface
var _ repositories.SpeechSynthesizer = (*Synthesizer)(nil)

// NewSynthesizer wraps an existing Polly client
func NewSynthesizer(client SynthesizeSpeechAPI, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		client: client,
		logger: logger,
	}
}

// NewSynthesizerFromConfig creates the Polly client from an AWS config
func NewSynthesizerFromConfig(cfg aws.Config, logger *zap.Logger) *Synthesizer {
	return NewSynthesizer(polly.NewFromConfig(cfg), logger)
}

// Synthesize converts text to speech and reads the whole audio stream
func (s *Synthesizer) Synthesize(ctx context.Context, input repositories.SynthesisInput) ([]byte, error) {
	format := input.Format
	if format == "" {
		format = entities.OutputFormatMP3
	}
	engine := input.Engine
	if engine == "" {
		engine = entities.EngineNeural
	}

	s.logger.Debug("Calling Polly SynthesizeSpeech",
		zap.String("voiceID", input.VoiceID),
		zap.String("engine", engine),
		zap.String("format", format))

	out, err := s.client.SynthesizeSpeech(ctx, &polly.SynthesizeSpeechInput{
		Text:         aws.String(input.Text),
		VoiceId:      types.VoiceId(input.VoiceID),
		OutputFormat: types.OutputFormat(strings.ToLower(format)),
		Engine:       types.Engine(strings.ToLower(engine)),
	})
	if err != nil {
		return nil, err
	}
	if out.AudioStream == nil {
		return nil, fmt.Errorf("polly returned no audio stream")
	}
	defer out.AudioStream.Close()

	audio, err := io.ReadAll(out.AudioStream)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio stream: %w", err)
	}

	s.logger.Debug("Polly synthesis completed",
		zap.Int("audioSize", len(audio)),
		zap.Int32("requestCharacters", out.RequestCharacters))

	return audio, nil
}
