package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/SAmySAmuel05/Joyeria-Annel/app/internal/domain/media"
)

type S3Config struct {
	Region        string
	Bucket        string
	PublicBaseURL string
}

type S3 struct {
	Client        *s3.Client
	Bucket        string
	PublicBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, err
	}
	return &S3{
		Client:        s3.NewFromConfig(awsCfg),
		Bucket:        cfg.Bucket,
		PublicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

func (s *S3) Upload(ctx context.Context, obj media.Object) (string, error) {
	key, err := cleanRef(obj.Path)
	if err != nil {
		return "", err
	}
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := s.Client.PutObject(ctx, input); err != nil {
		return "", err
	}
	return key, nil
}

func (s *S3) URL(ctx context.Context, ref string) (string, error) {
	ref, err := cleanRef(ref)
	if err != nil {
		return "", err
	}
	return s.PublicBaseURL + "/" + escapeRef(ref), nil
}

// Delete checks the object first: DeleteObject succeeds on missing keys.
func (s *S3) Delete(ctx context.Context, ref string) error {
	_, err := s.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		if isNotFound(err) {
			return media.ErrObjectNotFound
		}
		return err
	}

	_, err = s.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(ref),
	})
	return err
}

func (s *S3) RefFromURL(u string) (string, bool) {
	return refUnder(s.PublicBaseURL, u)
}

func (s *S3) String() string { return fmt.Sprintf("s3(%s)", s.Bucket) }

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
