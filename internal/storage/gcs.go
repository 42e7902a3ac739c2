package storage

import (
	"context"
	"io"
	"os"
	"path"

	gcs "cloud.google.com/go/storage"
)

// GCSStore keeps media in a Cloud Storage bucket. Resolve stages the
// object into a scratch directory so ffmpeg can read it from disk.
type GCSStore struct {
	client  *gcs.Client
	bucket  string
	scratch string
}

func NewGCSStore(ctx context.Context, bucket, scratch string) (*GCSStore, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if scratch == "" {
		scratch = os.TempDir()
	}
	return &GCSStore{client: c, bucket: bucket, scratch: scratch}, nil
}

func (s *GCSStore) Close() error { return s.client.Close() }

func (s *GCSStore) Save(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return key, nil
}

func (s *GCSStore) Resolve(ctx context.Context, key string) (string, func(), error) {
	rd, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return "", nil, err
	}
	defer rd.Close()

	f, err := os.CreateTemp(s.scratch, "media-*"+path.Ext(key))
	if err != nil {
		return "", nil, err
	}
	if _, err := io.Copy(f, rd); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", nil, err
	}

	local := f.Name()
	return local, func() { _ = os.Remove(local) }, nil
}

func (s *GCSStore) Remove(ctx context.Context, key string) error {
	return s.client.Bucket(s.bucket).Object(key).Delete(ctx)
}
