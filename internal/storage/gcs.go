package storage

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSStorage struct {
	client     *storage.Client
	bucketName string
}

func NewGCSStorage(ctx context.Context, bucketName, credentialsFile string) (*GCSStorage, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GCSStorage{
		client:     client,
		bucketName: bucketName,
	}, nil
}

func (c *GCSStorage) Save(ctx context.Context, key string, data []byte, contentType string) error {
	writer := c.client.Bucket(c.bucketName).Object(key).NewWriter(ctx)
	writer.ContentType = contentType

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("uploading %s to gcs: %w", key, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finishing upload of %s: %w", key, err)
	}
	return nil
}

func (c *GCSStorage) URL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", c.bucketName, key)
}

func (c *GCSStorage) Close() error {
	return c.client.Close()
}
