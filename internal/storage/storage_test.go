package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent GIF
var tinyGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x00, 0x00, 0x00, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

func TestDetectImage(t *testing.T) {
	contentType, ok := DetectImage(tinyGIF)
	assert.True(t, ok)
	assert.Equal(t, "image/gif", contentType)

	_, ok = DetectImage([]byte("just some text"))
	assert.False(t, ok)

	_, ok = DetectImage(nil)
	assert.False(t, ok)
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("posts", "Small.GIF", "image/gif")
	assert.True(t, strings.HasPrefix(key, "posts/"))
	assert.True(t, strings.HasSuffix(key, ".gif"))
	assert.NotEqual(t, key, ObjectKey("posts", "Small.GIF", "image/gif"))

	noExt := ObjectKey("posts", "upload", "image/png")
	assert.True(t, strings.HasSuffix(noExt, ".png"))
}

func TestLocalStorageSaveAndServe(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalStorage(dir)
	require.NoError(t, err)

	require.NoError(t, local.Save(context.Background(), "posts/small.gif", tinyGIF, "image/gif"))
	stored, err := os.ReadFile(filepath.Join(dir, "posts", "small.gif"))
	require.NoError(t, err)
	assert.Equal(t, tinyGIF, stored)
	assert.Equal(t, "/media/posts/small.gif", local.URL("posts/small.gif"))

	rr := httptest.NewRecorder()
	local.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/media/posts/small.gif", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, tinyGIF, rr.Body.Bytes())
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	assert.Error(t, local.Save(context.Background(), "../escape.gif", tinyGIF, "image/gif"))
}

type fakeS3 struct {
	s3iface.S3API
	input *s3.PutObjectInput
	body  []byte
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, input *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.input = input
	f.body, _ = io.ReadAll(input.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3StorageSave(t *testing.T) {
	fake := &fakeS3{}
	store := &S3Storage{s3: fake, bucket: "blog-media"}

	require.NoError(t, store.Save(context.Background(), "posts/a.gif", tinyGIF, "image/gif"))
	assert.Equal(t, "blog-media", aws.StringValue(fake.input.Bucket))
	assert.Equal(t, "posts/a.gif", aws.StringValue(fake.input.Key))
	assert.Equal(t, "image/gif", aws.StringValue(fake.input.ContentType))
	assert.EqualValues(t, len(tinyGIF), aws.Int64Value(fake.input.ContentLength))
	assert.Equal(t, tinyGIF, fake.body)
	assert.Equal(t, "https://blog-media.s3.amazonaws.com/posts/a.gif", store.URL("posts/a.gif"))
}

func TestGCSStorageURL(t *testing.T) {
	store := &GCSStorage{bucketName: "blog-media"}
	assert.Equal(t, "https://storage.googleapis.com/blog-media/posts/a.gif", store.URL("posts/a.gif"))
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), Options{Backend: "ftp"})
	assert.Error(t, err)
}
