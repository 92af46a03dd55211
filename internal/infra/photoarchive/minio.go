package photoarchive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gotouchgrass/api/internal/domain/verification"
)

// MinioArchive stores verified photos in an S3-compatible bucket. Writes
// are best-effort; the verification flow never blocks on archive failures.
type MinioArchive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger
}

// NewMinioArchive constructs the archive adapter.
func NewMinioArchive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*MinioArchive, error) {
	cleanEndpoint := sanitizeEndpoint(endpoint)
	useSSL := strings.HasPrefix(strings.ToLower(endpoint), "https")
	client, err := minio.New(cleanEndpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       useSSL,
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init archive client: %w", err)
	}
	return &MinioArchive{
		client: client,
		bucket: bucket,
		logger: logger.With("component", "photoarchive.minio"),
	}, nil
}

func (a *MinioArchive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && exists {
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return err
	}
	return nil
}

// Store uploads the photo bytes and returns the object key.
func (a *MinioArchive) Store(ctx context.Context, data []byte, mimeType string) (string, error) {
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}
	key := fmt.Sprintf("verified/%s/%s%s", time.Now().UTC().Format("2006-01-02"), uuid.NewString(), extensionFor(mimeType))
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: len(data) < 5*1024*1024,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Noop satisfies the archive interface when archiving is disabled.
type Noop struct{}

func (Noop) Store(context.Context, []byte, string) (string, error) {
	return "", nil
}

func extensionFor(mimeType string) string {
	switch mimeType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}

// sanitizeEndpoint removes schemes and paths to satisfy minio.New expectations.
func sanitizeEndpoint(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return raw
	}
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if strings.Contains(raw, "/") {
		raw = strings.Split(raw, "/")[0]
	}
	return raw
}

var (
	_ verification.EvidenceArchive = (*MinioArchive)(nil)
	_ verification.EvidenceArchive = Noop{}
)
