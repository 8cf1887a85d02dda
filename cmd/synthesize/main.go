package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/narrator/adapters"
	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/internal/config"
	"github.com/satriahrh/narrator/internal/logger"
	"github.com/satriahrh/narrator/usecase"
)

// Runs a single conversion with the configured collaborators.
// Inline audio is written to -out, stored audio prints its URL.
func main() {
	var (
		text    = flag.String("text", entities.DefaultText, "Text to synthesize")
		voice   = flag.String("voice", "", "Voice identifier (default: the provider's voice)")
		out     = flag.String("out", "", "Output file for inline audio (default: generated filename)")
		timeout = flag.Duration("timeout", 30*time.Second, "Overall timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(logger.Options{Development: true, File: cfg.LogFile})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	collaborators, err := adapters.Build(ctx, cfg, zl)
	if err != nil {
		zl.Fatal("Failed to initialize collaborators", zap.Error(err))
	}
	defer collaborators.Close()

	service := usecase.NewSpeechService(collaborators.Synthesizer, collaborators.Store, zl,
		usecase.WithEngine(cfg.PollyEngine),
		usecase.WithDefaultVoice(collaborators.DefaultVoice))

	outcome, err := service.Generate(ctx, entities.SpeechRequest{Text: *text, Voice: *voice})
	if err != nil {
		zl.Fatal("Failed to convert text to speech", zap.Error(err))
	}

	if outcome.Kind == usecase.OutcomeStored {
		fmt.Println(outcome.AudioURL)
		return
	}

	outputFile := *out
	if outputFile == "" {
		outputFile = outcome.Filename
	}
	if err := os.WriteFile(outputFile, outcome.Audio, 0o644); err != nil {
		zl.Fatal("Failed to write output file", zap.Error(err))
	}

	zl.Info("Audio saved",
		zap.String("file", outputFile),
		zap.Int("bytes", len(outcome.Audio)))
}
