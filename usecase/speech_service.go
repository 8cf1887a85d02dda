package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/domain/repositories"
)

// OutcomeKind tells the caller how the audio was delivered
type OutcomeKind int

const (
	// OutcomeInline carries the audio bytes back to the caller
	OutcomeInline OutcomeKind = iota
	// OutcomeStored means the audio was written to the blob store
	OutcomeStored
)

// SpeechOutcome is the successful result of a generation
type SpeechOutcome struct {
	Kind     OutcomeKind
	Filename string
	// AudioURL is set for OutcomeStored
	AudioURL string
	// Audio is set for OutcomeInline
	Audio []byte
}

// Stage names the step in which a generation failed
type Stage string

const (
	StageSynthesize Stage = "synthesize"
	StageStore      Stage = "store"
	StagePresign    Stage = "presign"
)

// FailureError wraps any failure that happened after validation
type FailureError struct {
	Stage Stage
	Err   error
}

func (e *FailureError) Error() string {
	return e.Err.Error()
}

func (e *FailureError) Unwrap() error {
	return e.Err
}

// SpeechService orchestrates synthesis and optional storage of audio
type SpeechService struct {
	synthesizer repositories.SpeechSynthesizer
	store       repositories.BlobStore
	engine      string
	voice       string
	newIdentity func() entities.AudioIdentity
	logger      *zap.Logger
}

// SpeechServiceOption customizes a SpeechService
type SpeechServiceOption func(*SpeechService)

// WithEngine overrides the synthesis engine tier
func WithEngine(engine string) SpeechServiceOption {
	return func(s *SpeechService) {
		if engine != "" {
			s.engine = engine
		}
	}
}

// WithDefaultVoice sets the voice used when the request names none.
// Each provider has its own voice catalogue.
func WithDefaultVoice(voice string) SpeechServiceOption {
	return func(s *SpeechService) {
		if voice != "" {
			s.voice = voice
		}
	}
}

// WithIdentityGenerator replaces the clock/uuid based filename generator
func WithIdentityGenerator(fn func() entities.AudioIdentity) SpeechServiceOption {
	return func(s *SpeechService) {
		s.newIdentity = fn
	}
}

// NewSpeechService creates a new speech service. A nil store selects inline delivery.
func NewSpeechService(
	synthesizer repositories.SpeechSynthesizer,
	store repositories.BlobStore,
	logger *zap.Logger,
	opts ...SpeechServiceOption,
) *SpeechService {
	s := &SpeechService{
		synthesizer: synthesizer,
		store:       store,
		engine:      entities.EngineNeural,
		voice:       entities.DefaultVoice,
		newIdentity: entities.NewAudioIdentityNow,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorageEnabled reports whether generated audio is written to a blob store
func (s *SpeechService) StorageEnabled() bool {
	return s.store != nil
}

// Generate validates the request, synthesizes the audio and delivers it.
// It returns *entities.ValidationError or *FailureError on failure.
func (s *SpeechService) Generate(ctx context.Context, req entities.SpeechRequest) (*SpeechOutcome, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Voice == "" {
		req.Voice = s.voice
	}

	identity := s.newIdentity()

	s.logger.Info("Synthesizing speech",
		zap.String("filename", identity.Filename),
		zap.String("voice", req.Voice),
		zap.Int("textLength", len(req.Text)))

	audio, err := s.synthesizer.Synthesize(ctx, repositories.SynthesisInput{
		Text:    req.Text,
		VoiceID: req.Voice,
		Format:  entities.OutputFormatMP3,
		Engine:  s.engine,
	})
	if err != nil {
		return nil, &FailureError{Stage: StageSynthesize, Err: err}
	}
	if len(audio) == 0 {
		return nil, &FailureError{Stage: StageSynthesize, Err: fmt.Errorf("synthesizer returned empty audio")}
	}

	if s.store == nil {
		s.logger.Info("Returning inline audio",
			zap.String("filename", identity.Filename),
			zap.Int("audioSize", len(audio)))

		return &SpeechOutcome{
			Kind:     OutcomeInline,
			Filename: identity.Filename,
			Audio:    audio,
		}, nil
	}

	artifact := entities.NewStoredArtifact(identity, req, audio)
	if err := s.store.Put(ctx, artifact); err != nil {
		return nil, &FailureError{Stage: StageStore, Err: err}
	}

	url, err := s.store.PresignGetURL(ctx, artifact.Key, entities.PresignTTL)
	if err != nil {
		return nil, &FailureError{Stage: StagePresign, Err: err}
	}

	s.logger.Info("Stored audio",
		zap.String("key", artifact.Key),
		zap.Int("audioSize", len(audio)))

	return &SpeechOutcome{
		Kind:     OutcomeStored,
		Filename: identity.Filename,
		AudioURL: url,
	}, nil
}
