package s3storage

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// deleteBatchSize is the S3 DeleteObjects request limit
const deleteBatchSize = 1000

// Client is the subset of the S3 API the storage uses
type Client interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Presigner issues presigned upload requests
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Config holds the S3 connection options
type Config struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Storage implements the accounts.ObjectStorage collaborator on S3
type Storage struct {
	client    Client
	presigner Presigner
	bucket    string
}

// New builds the storage from config, loading AWS credentials the same way
// for both real S3 and MinIO-style endpoints.
func New(ctx context.Context, cfg Config) (*Storage, error) {
	awscfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awscfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
	}, nil
}

// NewWithClient builds the storage over injected clients (used in tests)
func NewWithClient(client Client, presigner Presigner, bucket string) *Storage {
	return &Storage{
		client:    client,
		presigner: presigner,
		bucket:    bucket,
	}
}

// PurgeByPrefix removes every object under the prefix, paging through the
// listing and batch-deleting as it goes.
func (s *Storage) PurgeByPrefix(ctx context.Context, prefix string) error {
	var continuation *string

	for {
		page, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: continuation,
		})
		if err != nil {
			return err
		}

		if len(page.Contents) > 0 {
			identifiers := make([]types.ObjectIdentifier, 0, len(page.Contents))
			for _, obj := range page.Contents {
				identifiers = append(identifiers, types.ObjectIdentifier{Key: obj.Key})
			}
			if err := s.deleteBatch(ctx, identifiers); err != nil {
				return err
			}
		}

		if page.IsTruncated == nil || !*page.IsTruncated {
			return nil
		}
		continuation = page.NextContinuationToken
	}
}

// DeleteObjects removes the given keys in batches
func (s *Storage) DeleteObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}

	identifiers := make([]types.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		identifiers = append(identifiers, types.ObjectIdentifier{Key: aws.String(key)})
	}

	return s.deleteBatch(ctx, identifiers)
}

// PresignPutObject issues an upload URL for the key
func (s *Storage) PresignPutObject(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	req, err := s.presigner.PresignPutObject(ctx, input, s3.WithPresignExpires(expires))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *Storage) deleteBatch(ctx context.Context, identifiers []types.ObjectIdentifier) error {
	for start := 0; start < len(identifiers); start += deleteBatchSize {
		end := start + deleteBatchSize
		if end > len(identifiers) {
			end = len(identifiers)
		}

		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{
				Objects: identifiers[start:end],
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}
