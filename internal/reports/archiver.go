package reports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// Uploader is the object-storage surface the archiver needs. Satisfied by
// manager.Uploader.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Archiver uploads written report files to an S3 bucket. A nil *Archiver is
// valid and archives nothing, so callers need no enabled checks.
type Archiver struct {
	uploader Uploader
	bucket   string
	prefix   string
	log      zerolog.Logger
}

// NewArchiver creates an archiver over an existing uploader.
func NewArchiver(uploader Uploader, bucket, prefix string, log zerolog.Logger) *Archiver {
	return &Archiver{
		uploader: uploader,
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		log:      log.With().Str("service", "report_archiver").Logger(),
	}
}

// NewS3Archiver creates an archiver backed by the default AWS configuration
// chain. Returns nil when bucket is empty, leaving archiving disabled.
func NewS3Archiver(ctx context.Context, bucket, prefix, region string, log zerolog.Logger) (*Archiver, error) {
	if bucket == "" {
		log.Debug().Msg("Report bucket not configured - archiving disabled")
		return nil, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return NewArchiver(manager.NewUploader(client), bucket, prefix, log), nil
}

// Archive uploads the given report files under <prefix>/<runID>/<basename>
// and returns the object keys. Archiving on a nil receiver is a no-op.
func (a *Archiver) Archive(ctx context.Context, runID string, paths []string) ([]string, error) {
	if a == nil {
		return nil, nil
	}

	keys := make([]string, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open report %s: %w", path, err)
		}

		key := a.objectKey(runID, path)
		_, err = a.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        file,
			ContentType: aws.String(contentType(path)),
		})
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload report %s: %w", path, err)
		}

		keys = append(keys, key)
	}

	a.log.Info().
		Str("run_id", runID).
		Str("bucket", a.bucket).
		Int("files", len(keys)).
		Msg("Reports archived")

	return keys, nil
}

func (a *Archiver) objectKey(runID, path string) string {
	name := filepath.Base(path)
	if a.prefix == "" {
		return fmt.Sprintf("%s/%s", runID, name)
	}
	return fmt.Sprintf("%s/%s/%s", a.prefix, runID, name)
}

func contentType(path string) string {
	switch filepath.Ext(path) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	default:
		return "application/octet-stream"
	}
}
