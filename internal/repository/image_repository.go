package repository

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrImageNotFound is returned when no object is stored under a path.
var ErrImageNotFound = errors.New("image not found")

// ImageRepository keeps listing image bytes in a GridFS bucket, keyed by storage path.
type ImageRepository struct {
	DB     *mongo.Database
	Bucket string
}

func NewImageRepository(client *mongo.Client, dbName, bucket string) *ImageRepository {
	return &ImageRepository{DB: client.Database(dbName), Bucket: bucket}
}

func (r *ImageRepository) bucket() (*gridfs.Bucket, error) {
	return gridfs.NewBucket(r.DB, options.GridFSBucket().SetName(r.Bucket))
}

// Upload streams src into the bucket under storagePath.
func (r *ImageRepository) Upload(ctx context.Context, storagePath, contentType, listingID string, src io.Reader) error {
	bucket, err := r.bucket()
	if err != nil {
		return fmt.Errorf("ImageRepository.Upload: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return fmt.Errorf("ImageRepository.Upload: %w", err)
		}
	}

	opts := options.GridFSUpload().SetMetadata(bson.D{
		{Key: "contentType", Value: contentType},
		{Key: "listingId", Value: listingID},
	})
	if _, err := bucket.UploadFromStream(storagePath, src, opts); err != nil {
		return fmt.Errorf("ImageRepository.Upload: %w", err)
	}
	return nil
}

// Open returns a reader over the object stored at storagePath and its size.
// The caller must close the reader.
func (r *ImageRepository) Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, error) {
	bucket, err := r.bucket()
	if err != nil {
		return nil, 0, fmt.Errorf("ImageRepository.Open: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, 0, fmt.Errorf("ImageRepository.Open: %w", err)
		}
	}

	stream, err := bucket.OpenDownloadStreamByName(storagePath)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, 0, ErrImageNotFound
		}
		return nil, 0, fmt.Errorf("ImageRepository.Open: %w", err)
	}
	return stream, stream.GetFile().Length, nil
}
