package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go-jobmatch-backend/internal/domain"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appcfg "go-jobmatch-backend/config"
)

// S3Store keeps uploaded files private in a single bucket and hands out
// time-limited presigned URLs for reads. Implements domain.FileStore.
type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

func NewS3Store(ctx context.Context, cfg *appcfg.Config) (*S3Store, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	// Static credentials only when provided; otherwise fall back to the
	// default chain (IAM role, env, shared config).
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.AWSS3Bucket,
	}, nil
}

// Upload validates the file content and stores it privately under
// folder/ownerID/<uuid><ext>, returning the object key.
func (s *S3Store) Upload(ctx context.Context, file *domain.FileUpload, folder, ownerID string) (string, error) {
	if file == nil || len(file.Data) == 0 {
		return "", fmt.Errorf("storage: empty file")
	}
	if err := ValidateContent(folder, file); err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s/%s%s", folder, ownerID, uuid.New().String(), filepath.Ext(file.Filename))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(file.Data),
		ContentType: aws.String(file.ContentType),
		// No ACL: objects stay private, reads go through presigned URLs
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload failed: %w", err)
	}
	return key, nil
}

// SignedURL returns a presigned GET URL valid for expiresIn.
func (s *S3Store) SignedURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	if key == "" {
		return "", nil
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", fmt.Errorf("storage: presign failed: %w", err)
	}
	return req.URL, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: delete failed: %w", err)
	}
	return nil
}
