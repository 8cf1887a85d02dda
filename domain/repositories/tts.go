package repositories

import "context"

// SynthesisInput describes a single synthesis call
type SynthesisInput struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
	Format  string `json:"format"`
	Engine  string `json:"engine"`
}

// SpeechSynthesizer abstracts cloud text-to-speech services
type SpeechSynthesizer interface {
	// Synthesize converts text to audio and returns the whole payload
	Synthesize(ctx context.Context, input SynthesisInput) ([]byte, error)
}
