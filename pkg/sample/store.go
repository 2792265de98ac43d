// Package sample serves the bundled example dataset offered for download.
package sample

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Asset is an open sample file. The caller closes Body.
type Asset struct {
	Name string
	Size int64
	Body io.ReadCloser
}

type Store interface {
	Open(ctx context.Context) (*Asset, error)
}

// LocalStore reads the sample from disk.
type LocalStore struct {
	Path string
}

func (s LocalStore) Open(_ context.Context) (*Asset, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open sample data: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat sample data: %w", err)
	}
	return &Asset{Name: filepath.Base(s.Path), Size: info.Size(), Body: f}, nil
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Object    string
	UseSSL    bool
}

// S3Store reads the sample from an S3-compatible bucket.
type S3Store struct {
	client *minio.Client
	bucket string
	object string
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	if strings.TrimSpace(cfg.Object) == "" {
		return nil, fmt.Errorf("s3 object is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Store{client: client, bucket: cfg.Bucket, object: cfg.Object}, nil
}

func (s *S3Store) Open(ctx context.Context) (*Asset, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get sample object: %w", err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, fmt.Errorf("stat sample object %s/%s: %w", s.bucket, s.object, err)
	}
	return &Asset{Name: filepath.Base(s.object), Size: info.Size, Body: obj}, nil
}
