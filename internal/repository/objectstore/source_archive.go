package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/himanshu8github/Neetcode/internal/domain"
	"github.com/himanshu8github/Neetcode/internal/repository"
)

var _ repository.SourceArchive = (*SourceArchive)(nil)

// objectPutter is the subset of *minio.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, bucket, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// Config holds MinIO connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// SourceArchive stores gzip-compressed submission source under submissions/<id>.gz.
type SourceArchive struct {
	client objectPutter
	bucket string
}

// NewMinIOSourceArchive connects to MinIO and makes sure the bucket exists.
func NewMinIOSourceArchive(ctx context.Context, cfg Config) (*SourceArchive, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio: check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio: create bucket: %w", err)
		}
	}
	return &SourceArchive{client: client, bucket: cfg.Bucket}, nil
}

// ObjectKey is where a submission's source is archived.
func ObjectKey(sub *domain.Submission) string {
	return "submissions/" + sub.ID.String() + ".gz"
}

func (a *SourceArchive) Put(ctx context.Context, sub *domain.Submission) error {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := io.WriteString(zw, sub.Code); err != nil {
		return fmt.Errorf("minio: compress source: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("minio: compress source: %w", err)
	}

	_, err := a.client.PutObject(ctx, a.bucket, ObjectKey(sub), &buf, int64(buf.Len()), minio.PutObjectOptions{
		ContentType:     "text/plain; charset=utf-8",
		ContentEncoding: "gzip",
		UserMetadata: map[string]string{
			"language":   string(sub.Language),
			"user-id":    sub.UserID.String(),
			"problem-id": sub.ProblemID.String(),
		},
	})
	if err != nil {
		return fmt.Errorf("minio: put source: %w", err)
	}
	return nil
}
