package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/logger"
	"rvpark-listings/internal/repository"
)

type memObjects struct {
	data      map[string][]byte
	uploadErr error
}

func (m *memObjects) Upload(_ context.Context, storagePath, _, _ string, src io.Reader) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	m.data[storagePath] = b
	return nil
}

func (m *memObjects) Open(_ context.Context, storagePath string) (io.ReadCloser, int64, error) {
	b, ok := m.data[storagePath]
	if !ok {
		return nil, 0, repository.ErrImageNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), int64(len(b)), nil
}

type imageRecord struct {
	listingID, path string
	primary         bool
}

type memRecords struct {
	listings map[string]bool
	added    []imageRecord
	addErr   error
}

func (m *memRecords) Exists(_ context.Context, id string) (bool, error) {
	return m.listings[id], nil
}

func (m *memRecords) AddImage(_ context.Context, listingID, storagePath string, primary bool) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, imageRecord{listingID, storagePath, primary})
	return nil
}

func newImageService(t *testing.T) (*ImageService, *memObjects, *memRecords) {
	objects := &memObjects{data: map[string][]byte{}}
	records := &memRecords{listings: map[string]bool{"l1": true}}
	svc := NewImageService(objects, records, prefixResolver{}, logger.NewTestLogger(t))
	svc.newID = func() string { return "fixed-id" }
	return svc, objects, records
}

func TestImageService_Upload(t *testing.T) {
	svc, objects, records := newImageService(t)

	got, err := svc.Upload(context.Background(), "l1", "Front Gate.JPG", strings.NewReader("jpegbytes"), true)
	require.NoError(t, err)

	assert.Equal(t, "l1/fixed-id.jpg", got.StoragePath)
	assert.Equal(t, "https://cdn.test/l1/fixed-id.jpg", got.URL)
	assert.True(t, got.Primary)
	assert.Equal(t, []byte("jpegbytes"), objects.data["l1/fixed-id.jpg"])
	assert.Equal(t, []imageRecord{{"l1", "l1/fixed-id.jpg", true}}, records.added)
}

func TestImageService_Upload_Rejections(t *testing.T) {
	svc, _, _ := newImageService(t)

	_, err := svc.Upload(context.Background(), "l1", "malware.exe", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, apperrors.ErrUnsupportedImageType)

	_, err = svc.Upload(context.Background(), "nope", "a.png", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, apperrors.ErrListingNotFound)
}

func TestImageService_Upload_StoreFailures(t *testing.T) {
	svc, objects, records := newImageService(t)

	objects.uploadErr = errors.New("gridfs unavailable")
	_, err := svc.Upload(context.Background(), "l1", "a.png", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, apperrors.ErrImageUploadFailed)

	objects.uploadErr = nil
	records.addErr = errors.New("insert failed")
	_, err = svc.Upload(context.Background(), "l1", "a.png", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, apperrors.ErrImageUploadFailed)
}

func TestImageService_Open(t *testing.T) {
	svc, objects, _ := newImageService(t)
	objects.data["l1/x.webp"] = []byte("webp")

	rc, size, ct, err := svc.Open(context.Background(), "l1/x.webp")
	require.NoError(t, err)
	defer rc.Close()

	body, _ := io.ReadAll(rc)
	assert.Equal(t, "webp", string(body))
	assert.Equal(t, int64(4), size)
	assert.Equal(t, "image/webp", ct)

	_, _, _, err = svc.Open(context.Background(), "l1/missing.png")
	assert.ErrorIs(t, err, apperrors.ErrImageNotFound)
}
