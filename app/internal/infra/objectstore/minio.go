package objectstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/media"
)

type MinioConfig struct {
	Endpoint  string
	User      string
	Password  string
	UseSSL    bool
	Bucket    string
	PublicURL string
}

type Minio struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Password, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	if err := EnsureBucket(ctx, client, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", cfg.Bucket, err)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.Endpoint + "/" + cfg.Bucket
	}

	return &Minio{client: client, bucket: cfg.Bucket, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

func EnsureBucket(ctx context.Context, client *minio.Client, bucketName string) error {
	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if !exists {
		return client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *Minio) Upload(ctx context.Context, obj media.Object) (string, error) {
	ref, err := cleanRef(obj.Path)
	if err != nil {
		return "", err
	}
	info, err := m.client.PutObject(ctx, m.bucket, ref, obj.Body, obj.Size, minio.PutObjectOptions{
		ContentType: obj.ContentType,
	})
	if err != nil {
		return "", err
	}
	return info.Key, nil
}

func (m *Minio) URL(ctx context.Context, ref string) (string, error) {
	ref, err := cleanRef(ref)
	if err != nil {
		return "", err
	}
	return m.publicURL + "/" + escapeRef(ref), nil
}

// Delete checks the object first: RemoveObject succeeds on missing keys.
func (m *Minio) Delete(ctx context.Context, ref string) error {
	if _, err := m.client.StatObject(ctx, m.bucket, ref, minio.StatObjectOptions{}); err != nil {
		if isMinioNotFound(err) {
			return media.ErrObjectNotFound
		}
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, ref, minio.RemoveObjectOptions{})
}

func (m *Minio) RefFromURL(u string) (string, bool) {
	return refUnder(m.publicURL, u)
}

func (m *Minio) String() string { return fmt.Sprintf("minio(%s)", m.bucket) }

func isMinioNotFound(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
