package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"github.com/satriahrh/narrator/adapters/filestore"
	"github.com/satriahrh/narrator/adapters/google"
	"github.com/satriahrh/narrator/adapters/polly"
	"github.com/satriahrh/narrator/adapters/s3"
	"github.com/satriahrh/narrator/adapters/speech"
	"github.com/satriahrh/narrator/adapters/tts"
	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/domain/repositories"
	"github.com/satriahrh/narrator/internal/auth"
	"github.com/satriahrh/narrator/internal/config"
)

// Collaborators holds the process wide clients shared by every invocation
type Collaborators struct {
	Synthesizer repositories.SpeechSynthesizer
	// Store is nil when audio is returned inline
	Store repositories.BlobStore
	// Files is set when Store is the local file store
	Files *filestore.Store
	// DefaultVoice is the provider's voice for requests that name none
	DefaultVoice string

	awsConfig *aws.Config
	closers   []func() error
}

// Build constructs the synthesizer and the optional blob store once per process
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Collaborators, error) {
	c := &Collaborators{}

	synthesizer, err := c.newSynthesizer(ctx, cfg, logger)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Synthesizer = synthesizer

	if err := c.newStore(ctx, cfg, logger); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// Close releases clients that hold connections
func (c *Collaborators) Close() error {
	var errs []error
	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Collaborators) newSynthesizer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.SpeechSynthesizer, error) {
	logger.Info("Initializing speech synthesizer", zap.String("provider", string(cfg.Provider)))

	switch cfg.Provider {
	case config.ProviderPolly:
		awsCfg, err := c.loadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.DefaultVoice = entities.DefaultVoice
		return polly.NewSynthesizerFromConfig(awsCfg, logger), nil
	case config.ProviderElevenLabs:
		synth, err := tts.NewElevenLabsTTS(tts.NewElevenLabsConfigFromEnv(), logger)
		if err != nil {
			return nil, err
		}
		c.DefaultVoice = synth.DefaultVoice()
		return synth, nil
	case config.ProviderGoogle:
		synth, err := google.NewSynthesizerFromEnv(ctx, cfg.GoogleLanguage, logger)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, synth.Close)
		c.DefaultVoice = cfg.GoogleVoice
		return synth, nil
	case config.ProviderMock:
		c.DefaultVoice = entities.DefaultVoice
		return speech.NewMockTextToSpeech(logger), nil
	default:
		return nil, fmt.Errorf("unsupported synthesis provider %q", cfg.Provider)
	}
}

func (c *Collaborators) newStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	switch {
	case cfg.AudioBucket != "":
		awsCfg, err := c.loadAWSConfig(ctx, cfg)
		if err != nil {
			return err
		}
		store, err := s3.NewStoreFromConfig(awsCfg, cfg.AudioBucket, logger)
		if err != nil {
			return err
		}
		c.Store = store
		logger.Info("Audio will be stored in S3", zap.String("bucket", cfg.AudioBucket))
	case cfg.LocalAudioDir != "":
		signer, err := auth.NewSigner(cfg.AudioURLSecret)
		if err != nil {
			return err
		}
		store, err := filestore.NewStore(cfg.LocalAudioDir, cfg.PublicBaseURL, signer, logger)
		if err != nil {
			return err
		}
		c.Store = store
		c.Files = store
		logger.Info("Audio will be stored on local disk", zap.String("dir", cfg.LocalAudioDir))
	default:
		logger.Info("No storage target configured, audio is returned inline")
	}
	return nil
}

// loadAWSConfig resolves credentials and region once for every AWS client
func (c *Collaborators) loadAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	if c.awsConfig != nil {
		return *c.awsConfig, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.AWSRegion != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.AWSRegion))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	c.awsConfig = &awsCfg
	return awsCfg, nil
}
