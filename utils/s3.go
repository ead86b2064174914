package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 API the uploader needs
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// OutputUploader copies run outputs into a single bucket
type OutputUploader struct {
	client ObjectPutter
	bucket string
}

// NewOutputUploader loads the default AWS credential chain for region
func NewOutputUploader(ctx context.Context, region, bucket string) (*OutputUploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("no S3 bucket configured")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}
	utilLog.Info().Str("region", region).Str("bucket", bucket).Msg("S3 client initialized")
	return NewOutputUploaderWith(s3.NewFromConfig(cfg), bucket), nil
}

// NewOutputUploaderWith wraps an existing client
func NewOutputUploaderWith(client ObjectPutter, bucket string) *OutputUploader {
	return &OutputUploader{client: client, bucket: bucket}
}

// Location renders an object key as an s3:// URL
func (u *OutputUploader) Location(key string) string {
	return fmt.Sprintf("s3://%s/%s", u.bucket, key)
}

// Put stores body under key
func (u *OutputUploader) Put(ctx context.Context, body io.Reader, key, contentType string) error {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return nil
}

// OutputKey places a run output under prefix/<run date>/<file name>
func OutputKey(prefix, localPath string, runAt time.Time) string {
	return path.Join(prefix, runAt.UTC().Format("2006-01-02T150405Z"), filepath.Base(localPath))
}

// UploadOutputs uploads the run's output files and returns their object
// keys. It stops at the first file that cannot be read or stored.
func (u *OutputUploader) UploadOutputs(ctx context.Context, prefix string, runAt time.Time, paths ...string) ([]string, error) {
	var keys []string
	for _, p := range paths {
		key, err := u.uploadFile(ctx, p, OutputKey(prefix, p, runAt))
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (u *OutputUploader) uploadFile(ctx context.Context, localPath, key string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if err := u.Put(ctx, f, key, contentType); err != nil {
		return "", err
	}
	return key, nil
}
