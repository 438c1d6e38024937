package archive

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
)

// R2Archive writes payloads to an S3-compatible bucket such as Cloudflare R2.
type R2Archive struct {
	client *minio.Client
	bucket string
	logger *slog.Logger

	mu          sync.Mutex
	bucketReady bool
}

// NewR2Archive constructs the archive. The bucket is created lazily on first write.
func NewR2Archive(endpoint, accessKey, secretKey, bucket, region string, logger *slog.Logger) (*R2Archive, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(hostOnly(endpoint), &minio.Options{
		Creds:        credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:       !strings.HasPrefix(strings.ToLower(strings.TrimSpace(endpoint)), "http://"),
		Region:       region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init r2 client: %w", err)
	}
	return &R2Archive{client: client, bucket: bucket, logger: logger.With("component", "archive.r2")}, nil
}

func (a *R2Archive) Put(ctx context.Context, key string, data []byte, mimeType string) error {
	if err := a.ensureBucket(ctx); err != nil {
		return err
	}
	info, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:      mimeType,
		DisableMultipart: true,
	})
	if err != nil {
		return err
	}
	a.logger.Debug("payload archived", "key", key, "size", info.Size)
	return nil
}

// ensureBucket creates the bucket on first use. Only success is remembered so
// a failed check is retried by the next Put.
func (a *R2Archive) ensureBucket(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bucketReady {
		return nil
	}
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err == nil && exists {
		a.bucketReady = true
		return nil
	}
	err = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "BucketAlreadyOwnedByYou" {
		return fmt.Errorf("ensure bucket %s: %w", a.bucket, err)
	}
	a.bucketReady = true
	return nil
}

// hostOnly strips scheme and path since minio.New wants host[:port].
func hostOnly(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(strings.TrimPrefix(raw, "https://"), "http://")
	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}

var _ forecast.Archive = (*R2Archive)(nil)
