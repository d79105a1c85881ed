package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 uploads images to a bucket under <prefix>/<ulid>/<name>.
type S3 struct {
	client  putObjectAPI
	bucket  string
	prefix  string
	baseURL string
}

// NewS3 loads the default AWS configuration and returns an S3 uploader.
func NewS3(ctx context.Context, bucket, prefix, baseURL string) (*S3, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return newS3WithClient(s3.NewFromConfig(cfg), bucket, prefix, baseURL), nil
}

func newS3WithClient(client putObjectAPI, bucket, prefix, baseURL string) *S3 {
	return &S3{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3) Type() string { return "s3" }

// Upload puts localPath into the bucket. The returned location is the public
// URL when a base URL is configured and an s3:// URI otherwise.
func (s *S3) Upload(ctx context.Context, localPath, name string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	key := path.Join(s.prefix, ulid.Make().String(), path.Base(name))
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("image/png"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	logrus.WithFields(logrus.Fields{"bucket": s.bucket, "key": key}).Info("Image uploaded")

	if s.baseURL != "" {
		return s.baseURL + "/" + key, nil
	}
	return "s3://" + s.bucket + "/" + key, nil
}
