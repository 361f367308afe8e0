package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config locates an S3 compatible bucket.
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is the public address objects are served from.
	PublicBaseURL string
}

// S3Store keeps pictures in an S3 compatible bucket.
type S3Store struct {
	client     *s3.Client
	bucket     string
	publicBase string
}

// NewS3Store builds a path-style client with static credentials.
func NewS3Store(cfg S3Config) *S3Store {
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return &S3Store{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}
}

func (s *S3Store) Put(ctx context.Context, name string, body []byte) (string, error) {
	if !safeName(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(name),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(ContentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}
	return s.URL(name), nil
}

func (s *S3Store) Delete(ctx context.Context, reference string) error {
	key, ok := s.KeyFromURL(reference)
	if !ok {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// URL is the public reference of key.
func (s *S3Store) URL(key string) string {
	return s.publicBase + "/" + key
}

// KeyFromURL reverses URL.
func (s *S3Store) KeyFromURL(reference string) (string, bool) {
	key, ok := strings.CutPrefix(reference, s.publicBase+"/")
	if !ok || !safeName(key) {
		return "", false
	}
	return key, true
}
