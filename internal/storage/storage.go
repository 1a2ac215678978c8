package storage

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStorage keeps uploaded files. Keys are slash separated paths such as "posts/<id>.png".
type MediaStorage interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	URL(key string) string
}

type Options struct {
	Backend            string
	MediaDirectory     string
	S3Region           string
	S3Bucket           string
	GCSBucket          string
	GCSCredentialsFile string
}

func New(ctx context.Context, opts Options) (MediaStorage, error) {
	switch opts.Backend {
	case "local", "":
		return NewLocalStorage(opts.MediaDirectory)
	case "s3":
		return NewS3Storage(opts.S3Region, opts.S3Bucket)
	case "gcs":
		return NewGCSStorage(ctx, opts.GCSBucket, opts.GCSCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown storage backend {%s}", opts.Backend)
	}
}

// DetectImage sniffs data and reports its content type when it is an image.
func DetectImage(data []byte) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	contentType := http.DetectContentType(data)
	return contentType, strings.HasPrefix(contentType, "image/")
}

// ObjectKey builds a unique key under namespace, keeping the upload's extension when it has one.
func ObjectKey(namespace, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return path.Join(namespace, uuid.NewString()+ext)
}
