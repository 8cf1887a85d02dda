package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/domain/repositories"
	"github.com/satriahrh/narrator/internal/auth"
)

// ErrKeyMismatch is returned when a download token was issued for another object
var ErrKeyMismatch = errors.New("token does not grant access to this object")

// sidecar is written next to each object as <key>.json
type sidecar struct {
	ContentType string                    `json:"content_type"`
	Metadata    entities.ArtifactMetadata `json:"metadata"`
}

// Store saves audio under a local directory and serves it through signed links
type Store struct {
	dir     string
	baseURL string
	signer  *auth.Signer
	logger  *zap.Logger
}

// Ensure Store implements the BlobStore interface
var _ repositories.BlobStore = (*Store)(nil)

// NewStore creates a store rooted at dir. Links point at baseURL + "/audio/<filename>".
func NewStore(dir, baseURL string, signer *auth.Signer, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("audio directory is required")
	}
	if signer == nil {
		return nil, fmt.Errorf("signer is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio directory: %w", err)
	}

	return &Store{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		signer:  signer,
		logger:  logger,
	}, nil
}

// Put writes the audio and its metadata sidecar
func (s *Store) Put(ctx context.Context, artifact entities.StoredArtifact) error {
	path := s.path(artifact.Key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, artifact.Audio, 0o644); err != nil {
		return err
	}

	meta, err := json.Marshal(sidecar{
		ContentType: artifact.ContentType,
		Metadata:    artifact.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	if err := os.WriteFile(path+".json", meta, 0o644); err != nil {
		return err
	}

	s.logger.Debug("Saved audio file",
		zap.String("path", path),
		zap.Int("size", len(artifact.Audio)))

	return nil
}

// PresignGetURL returns a link carrying a download token valid for ttl
func (s *Store) PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	token, err := s.signer.SignObject(key, ttl)
	if err != nil {
		return "", fmt.Errorf("failed to sign download token: %w", err)
	}

	filename := strings.TrimPrefix(key, entities.ArtifactKeyPrefix)
	return fmt.Sprintf("%s/audio/%s?token=%s", s.baseURL, url.PathEscape(filename), url.QueryEscape(token)), nil
}

// Resolve validates a download token for filename and returns the file path
func (s *Store) Resolve(token, filename string) (string, error) {
	if filename == "" || strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return "", fmt.Errorf("invalid filename %q", filename)
	}

	key, err := s.signer.ValidateObject(token)
	if err != nil {
		return "", err
	}
	if key != entities.ArtifactKey(filename) {
		return "", ErrKeyMismatch
	}

	return s.path(key), nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}
