package repositories

import (
	"context"
	"time"

	"github.com/satriahrh/narrator/domain/entities"
)

// BlobStore persists generated audio and hands out temporary retrieval links
type BlobStore interface {
	// Put writes the artifact under its key
	Put(ctx context.Context, artifact entities.StoredArtifact) error
	// PresignGetURL returns a URL granting read access to key for ttl
	PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}
