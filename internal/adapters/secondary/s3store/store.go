package s3store

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-platform-sdk/internal/config"
	ports "model-platform-sdk/internal/core/ports/output"
)

type store struct {
	uploader s3manageriface.UploaderAPI
	bucket   string
	prefix   string
}

var _ ports.ArtifactStore = (*store)(nil)

// NewStore creates an S3-backed artifact store from the artifact config.
func NewStore(cfg *config.ArtifactConfig) (ports.ArtifactStore, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:                        aws.String(cfg.S3Region),
		CredentialsChainVerboseErrors: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return NewStoreWithUploader(s3manager.NewUploader(sess), cfg.S3Bucket, cfg.S3Prefix), nil
}

func NewStoreWithUploader(uploader s3manageriface.UploaderAPI, bucket, prefix string) ports.ArtifactStore {
	return &store{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
	}
}

// Upload copies the file to s3://bucket/prefix/<uuid>/<name> and returns that URI.
func (s *store) Upload(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	key := s.objectKey(uuid.New().String(), filepath.Base(localPath))
	_, err = s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Body:   f,
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3: %w", err)
	}

	uri := objectURI(s.bucket, key)
	log.WithField("uri", uri).Debug("artifact uploaded to s3")
	return uri, nil
}

func (s *store) objectKey(id, name string) string {
	return path.Join(s.prefix, id, name)
}

func objectURI(bucket, key string) string {
	return fmt.Sprintf("s3://%s/%s", bucket, key)
}
