package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"alumniconnect/internal/config"
)

// ObjectStore writes public avatar objects to an S3-compatible bucket.
type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

const publicReadPolicy = `{
	"Version": "2012-10-17",
	"Statement": [{
		"Effect": "Allow",
		"Principal": {"AWS": ["*"]},
		"Action": ["s3:GetObject"],
		"Resource": ["arn:aws:s3:::%s/*"]
	}]
}`

// EnsureBucket creates the avatar bucket with anonymous read access.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	bucket := s.cfg.BucketAvatars
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	if err := s.client.SetBucketPolicy(ctx, bucket, fmt.Sprintf(publicReadPolicy, bucket)); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", bucket, err)
	}
	return nil
}

// Put stores data under key and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.cfg.BucketAvatars, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=86400",
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return PublicURL(s.cfg, key), nil
}

// PublicURL prefers storage.publicURL and falls back to the endpoint.
func PublicURL(cfg config.StorageConfig, key string) string {
	base := strings.TrimSuffix(cfg.PublicURL, "/")
	if base == "" {
		base = strings.TrimSuffix(cfg.Endpoint, "/")
		if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
			scheme := "http://"
			if cfg.UseSSL {
				scheme = "https://"
			}
			base = scheme + base
		}
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.BucketAvatars, key)
}
