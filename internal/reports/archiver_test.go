package reports

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	err    error
}

func (f *fakeUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, input)
	return &manager.UploadOutput{}, nil
}

func writeTempReport(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestArchive_UploadsWithKeyLayout(t *testing.T) {
	dir := t.TempDir()
	csvPath := writeTempReport(t, dir, "rwa-run-1.csv", "a,b\n1,2\n")
	jsonPath := writeTempReport(t, dir, "assessment-run-1.json", "{}")

	uploader := &fakeUploader{}
	archiver := NewArchiver(uploader, "risk-reports", "bulwark", zerolog.New(nil).Level(zerolog.Disabled))

	keys, err := archiver.Archive(context.Background(), "run-1", []string{csvPath, jsonPath})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"bulwark/run-1/rwa-run-1.csv",
		"bulwark/run-1/assessment-run-1.json",
	}, keys)

	require.Len(t, uploader.inputs, 2)
	assert.Equal(t, "risk-reports", *uploader.inputs[0].Bucket)
	assert.Equal(t, "bulwark/run-1/rwa-run-1.csv", *uploader.inputs[0].Key)
	assert.Equal(t, "text/csv", *uploader.inputs[0].ContentType)
	assert.Equal(t, "application/json", *uploader.inputs[1].ContentType)
}

func TestArchive_NoPrefix(t *testing.T) {
	dir := t.TempDir()
	path := writeTempReport(t, dir, "rwa-run-2.csv", "a\n")

	uploader := &fakeUploader{}
	archiver := NewArchiver(uploader, "risk-reports", "", zerolog.New(nil).Level(zerolog.Disabled))

	keys, err := archiver.Archive(context.Background(), "run-2", []string{path})
	require.NoError(t, err)
	assert.Equal(t, []string{"run-2/rwa-run-2.csv"}, keys)
}

func TestArchive_NilArchiverIsDisabled(t *testing.T) {
	var archiver *Archiver

	keys, err := archiver.Archive(context.Background(), "run-1", []string{"anything.csv"})
	assert.NoError(t, err)
	assert.Nil(t, keys)
}

func TestArchive_UploadFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeTempReport(t, dir, "rwa-run-3.csv", "a\n")

	uploader := &fakeUploader{err: errors.New("bucket unreachable")}
	archiver := NewArchiver(uploader, "risk-reports", "bulwark", zerolog.New(nil).Level(zerolog.Disabled))

	_, err := archiver.Archive(context.Background(), "run-3", []string{path})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to upload report")
}

func TestArchive_MissingFile(t *testing.T) {
	uploader := &fakeUploader{}
	archiver := NewArchiver(uploader, "risk-reports", "bulwark", zerolog.New(nil).Level(zerolog.Disabled))

	_, err := archiver.Archive(context.Background(), "run-4", []string{"/no/such/report.csv"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to open report")
}

func TestNewS3Archiver_DisabledWithoutBucket(t *testing.T) {
	archiver, err := NewS3Archiver(context.Background(), "", "bulwark", "eu-west-1", zerolog.New(nil).Level(zerolog.Disabled))
	assert.NoError(t, err)
	assert.Nil(t, archiver)
}
