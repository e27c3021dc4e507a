package objectstore

import (
	"context"
	"fmt"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/config"
	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/media"
)

type FactoryResult struct {
	Driver string
	Bucket media.Bucket
	// Local is set when the local driver is used, so its files can be served.
	Local *Local
}

// FromConfig builds the bucket selected by cfg.Driver.
func FromConfig(ctx context.Context, cfg config.StorageConfig) (FactoryResult, error) {
	switch cfg.Driver {
	case "local":
		l := NewLocal(cfg.LocalDir, cfg.LocalURLPrefix)
		return FactoryResult{Driver: "local", Bucket: l, Local: l}, nil

	case "minio":
		m, err := NewMinio(ctx, MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			User:      cfg.MinioUser,
			Password:  cfg.MinioPassword,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
			PublicURL: cfg.MinioPublicURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "minio", Bucket: m}, nil

	case "s3":
		s, err := NewS3(ctx, S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return FactoryResult{}, err
		}
		return FactoryResult{Driver: "s3", Bucket: s}, nil

	default:
		return FactoryResult{}, fmt.Errorf("unknown STORAGE_DRIVER: %s", cfg.Driver)
	}
}
