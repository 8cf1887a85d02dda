package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// ArtifactKeyPrefix namespaces every stored audio object
	ArtifactKeyPrefix = "audio/"
	// MetadataTextLimit caps the source text copied into object metadata
	MetadataTextLimit = 100
	// PresignTTL is how long a retrieval URL stays valid
	PresignTTL = time.Hour

	timestampLayout = "20060102_150405"
	shortIDLength   = 8
)

// AudioIdentity names a single synthesized clip
type AudioIdentity struct {
	Timestamp string
	ShortID   string
	Filename  string
}

// NewAudioIdentity derives the clip identity from a point in time and a random id
func NewAudioIdentity(now time.Time, id uuid.UUID) AudioIdentity {
	timestamp := now.Format(timestampLayout)
	shortID := id.String()[:shortIDLength]

	return AudioIdentity{
		Timestamp: timestamp,
		ShortID:   shortID,
		Filename:  fmt.Sprintf("audio_%s_%s.mp3", timestamp, shortID),
	}
}

// NewAudioIdentityNow uses the local clock and a fresh random UUID
func NewAudioIdentityNow() AudioIdentity {
	return NewAudioIdentity(time.Now(), uuid.New())
}

// ArtifactKey returns the storage key for a generated filename
func ArtifactKey(filename string) string {
	return ArtifactKeyPrefix + filename
}

// ArtifactMetadata is attached to the stored object
type ArtifactMetadata struct {
	Text      string `json:"text"`
	Voice     string `json:"voice"`
	Timestamp string `json:"timestamp"`
}

// Map returns the metadata as object store user metadata
func (m ArtifactMetadata) Map() map[string]string {
	return map[string]string{
		"text":      m.Text,
		"voice":     m.Voice,
		"timestamp": m.Timestamp,
	}
}

// StoredArtifact is the object written to the blob store
type StoredArtifact struct {
	Key         string
	Audio       []byte
	ContentType string
	Metadata    ArtifactMetadata
}

// NewStoredArtifact builds the artifact for a synthesized clip
func NewStoredArtifact(identity AudioIdentity, req SpeechRequest, audio []byte) StoredArtifact {
	return StoredArtifact{
		Key:         ArtifactKey(identity.Filename),
		Audio:       audio,
		ContentType: AudioContentType,
		Metadata: ArtifactMetadata{
			Text:      TruncateText(req.Text, MetadataTextLimit),
			Voice:     req.Voice,
			Timestamp: identity.Timestamp,
		},
	}
}

// TruncateText keeps at most limit characters without splitting a rune
func TruncateText(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
