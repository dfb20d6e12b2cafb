package service

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/logger"
	"rvpark-listings/internal/metrics"
	"rvpark-listings/internal/model"
	"rvpark-listings/internal/repository"
)

var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ImageObjectStore holds image bytes.
type ImageObjectStore interface {
	Upload(ctx context.Context, storagePath, contentType, listingID string, src io.Reader) error
	Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, error)
}

// ImageRecordStore holds the listing_images rows.
type ImageRecordStore interface {
	Exists(ctx context.Context, listingID string) (bool, error)
	AddImage(ctx context.Context, listingID, storagePath string, primary bool) error
}

type ImageService struct {
	objects  ImageObjectStore
	records  ImageRecordStore
	resolver ImageURLResolver
	logger   logger.Logger
	newID    func() string
}

func NewImageService(objects ImageObjectStore, records ImageRecordStore, resolver ImageURLResolver, log logger.Logger) *ImageService {
	return &ImageService{
		objects:  objects,
		records:  records,
		resolver: resolver,
		logger:   log.WithFields(map[string]interface{}{"component": "image_service"}),
		newID:    uuid.NewString,
	}
}

// ContentType returns the MIME type for a storage path, or an error if the
// extension is not an accepted image type.
func ContentType(storagePath string) (string, error) {
	ext := strings.ToLower(path.Ext(storagePath))
	ct, ok := imageContentTypes[ext]
	if !ok {
		return "", apperrors.NewUnsupportedImageTypeError(ext)
	}
	return ct, nil
}

// Upload stores an image for listingID under "<listingID>/<uuid><ext>" and records it.
func (s *ImageService) Upload(ctx context.Context, listingID, filename string, src io.Reader, primary bool) (*model.ListingImage, error) {
	ct, err := ContentType(filename)
	if err != nil {
		return nil, err
	}

	exists, err := s.records.Exists(ctx, listingID)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("image_listing_exists", err)
	}
	if !exists {
		return nil, apperrors.NewListingNotFoundError(listingID)
	}

	storagePath := listingID + "/" + s.newID() + strings.ToLower(path.Ext(filename))
	if err := s.objects.Upload(ctx, storagePath, ct, listingID, src); err != nil {
		return nil, apperrors.NewImageUploadFailedError(err)
	}
	if err := s.records.AddImage(ctx, listingID, storagePath, primary); err != nil {
		// TODO: delete the stored object here once ImageObjectStore supports removal.
		s.logger.Error("image stored but not recorded", map[string]interface{}{
			"storagePath": storagePath,
			"error":       err,
		})
		return nil, apperrors.NewImageUploadFailedError(err)
	}

	metrics.ImagesUploaded.Inc()
	s.logger.Info("listing image uploaded", map[string]interface{}{
		"listingId":   listingID,
		"storagePath": storagePath,
		"primary":     primary,
	})

	return &model.ListingImage{
		ListingID:   listingID,
		StoragePath: storagePath,
		URL:         s.resolver.PublicURL(storagePath),
		Primary:     primary,
	}, nil
}

// Open returns the stored bytes, their size and MIME type.
func (s *ImageService) Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, string, error) {
	ct, err := ContentType(storagePath)
	if err != nil {
		return nil, 0, "", err
	}

	rc, size, err := s.objects.Open(ctx, storagePath)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return nil, 0, "", apperrors.NewImageNotFoundError(storagePath)
		}
		return nil, 0, "", apperrors.NewStoreQueryFailedError("open_image", err)
	}
	return rc, size, ct, nil
}
