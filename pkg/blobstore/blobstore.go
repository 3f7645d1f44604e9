// Package blobstore stores uploaded answer files and generated documents in
// an S3-compatible object store.
package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const DEFAULT_URL_EXPIRY = 15 * time.Minute

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

type Client struct {
	minioClient *minio.Client
	bucket      string
	urlExpiry   time.Duration
}

func NewClient(config Config) (*Client, error) {
	minioClient, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	urlExpiry := config.URLExpiry
	if urlExpiry <= 0 {
		urlExpiry = DEFAULT_URL_EXPIRY
	}

	return &Client{
		minioClient: minioClient,
		bucket:      config.Bucket,
		urlExpiry:   urlExpiry,
	}, nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", c.bucket, err)
	}
	if exists {
		return nil
	}
	if err := c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Upload writes the data under the given path and returns the storage path
// answers refer to.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	_, err := c.minioClient.PutObject(ctx, c.bucket, path,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", path, err)
	}
	return path, nil
}

func (c *Client) Fetch(ctx context.Context, storagePath string) ([]byte, error) {
	object, err := c.minioClient.GetObject(ctx, c.bucket, storagePath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch object %s: %w", storagePath, err)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", storagePath, err)
	}
	return data, nil
}

// DownloadURL returns a presigned, time-limited URL for the object.
func (c *Client) DownloadURL(ctx context.Context, storagePath string) (string, error) {
	url, err := c.minioClient.PresignedGetObject(ctx, c.bucket, storagePath, c.urlExpiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", storagePath, err)
	}
	return url.String(), nil
}
