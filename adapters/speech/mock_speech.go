package speech

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/repositories"
)

// mp3FrameHeader is an MPEG-1 Layer III, 128 kbps, 44.1 kHz frame header
var mp3FrameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

const (
	mp3FrameSize       = 417
	charactersPerFrame = 16
)

var knownVoices = map[string]bool{
	"Joanna": true, "Matthew": true, "Ivy": true, "Justin": true, "Kendra": true,
	"Kimberly": true, "Salli": true, "Joey": true, "Ruth": true, "Stephen": true,
	"Amy": true, "Emma": true, "Brian": true, "Arthur": true, "Olivia": true,
}

// MockTextToSpeech is an offline implementation of SpeechSynthesizer
type MockTextToSpeech struct {
	logger *zap.Logger
}

// Ensure MockTextToSpeech implements the SpeechSynthesizer interface
var _ repositories.SpeechSynthesizer = (*MockTextToSpeech)(nil)

// NewMockTextToSpeech creates a new mock text-to-speech service
func NewMockTextToSpeech(logger *zap.Logger) *MockTextToSpeech {
	return &MockTextToSpeech{
		logger: logger,
	}
}

// Synthesize returns silent MP3 frames sized after the text.
// Unknown voices fail the way the real service does.
func (t *MockTextToSpeech) Synthesize(ctx context.Context, input repositories.SynthesisInput) ([]byte, error) {
	t.logger.Info("Processing text-to-speech",
		zap.String("voice", input.VoiceID),
		zap.Int("textLength", len(input.Text)))

	if !knownVoices[input.VoiceID] {
		return nil, fmt.Errorf("voice ID %q is not supported", input.VoiceID)
	}

	frames := len(input.Text)/charactersPerFrame + 1
	audio := make([]byte, frames*mp3FrameSize)
	for i := 0; i < frames; i++ {
		copy(audio[i*mp3FrameSize:], mp3FrameHeader)
	}

	return audio, nil
}
