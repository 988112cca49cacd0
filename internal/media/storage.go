package media

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store elimina objetos del bucket de medios a partir de la URL
// publica guardada en el catalogo.
type Store interface {
	RemoveByURL(ctx context.Context, rawURL string) error
}

type disabledStore struct {
	reason string
}

func NewDisabledStore(reason string) Store {
	return &disabledStore{reason: reason}
}

func (s *disabledStore) RemoveByURL(_ context.Context, _ string) error {
	if s.reason == "" {
		return errors.New("media store disabled")
	}
	return errors.New(s.reason)
}

// objectRemover permite mockear el cliente minio en tests.
type objectRemover interface {
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

type MinioStore struct {
	api    objectRemover
	bucket string
}

func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStore, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("media endpoint is required")
	}
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("media bucket is required")
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{api: client, bucket: bucket}, nil
}

// RemoveByURL deriva la clave del objeto desde el path de la URL
// (quitando el prefijo del bucket si la URL es path-style) y lo borra.
func (s *MinioStore) RemoveByURL(ctx context.Context, rawURL string) error {
	key, err := s.objectKey(rawURL)
	if err != nil {
		return err
	}
	if key == "" {
		return nil
	}
	return s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

func (s *MinioStore) objectKey(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(u.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	return key, nil
}
