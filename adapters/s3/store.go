package s3

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/satriahrh/narrator/domain/entities"
	"github.com/satriahrh/narrator/domain/repositories"
)

// PutObjectAPI is the subset of the S3 client used to write objects
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignGetObjectAPI is the subset of the S3 presign client used to share objects
type PresignGetObjectAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store implements BlobStore on an S3 bucket
type Store struct {
	bucket    string
	client    PutObjectAPI
	presigner PresignGetObjectAPI
	logger    *zap.Logger
}

// Ensure Store implements the BlobStore interface
var _ repositories.BlobStore = (*Store)(nil)

// NewStore creates a store from explicit clients
func NewStore(bucket string, client PutObjectAPI, presigner PresignGetObjectAPI, logger *zap.Logger) (*Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	return &Store{
		bucket:    bucket,
		client:    client,
		presigner: presigner,
		logger:    logger,
	}, nil
}

// NewStoreFromConfig creates the S3 and presign clients from an AWS config
func NewStoreFromConfig(cfg aws.Config, bucket string, logger *zap.Logger) (*Store, error) {
	client := s3.NewFromConfig(cfg)
	return NewStore(bucket, client, s3.NewPresignClient(client), logger)
}

// Put uploads the artifact with its content type and user metadata
func (s *Store) Put(ctx context.Context, artifact entities.StoredArtifact) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(artifact.Key),
		Body:        bytes.NewReader(artifact.Audio),
		ContentType: aws.String(artifact.ContentType),
		Metadata:    artifact.Metadata.Map(),
	})
	if err != nil {
		return err
	}

	s.logger.Debug("Uploaded audio object",
		zap.String("bucket", s.bucket),
		zap.String("key", artifact.Key),
		zap.Int("size", len(artifact.Audio)))

	return nil
}

// PresignGetURL returns a pre-signed GET URL valid for ttl
func (s *Store) PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
