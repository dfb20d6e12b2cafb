package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/model"
	"rvpark-listings/internal/storage"
)

// ImageStore uploads listing images and streams them back.
type ImageStore interface {
	Upload(ctx context.Context, listingID, filename string, src io.Reader, primary bool) (*model.ListingImage, error)
	Open(ctx context.Context, storagePath string) (io.ReadCloser, int64, string, error)
}

type ImageHandler struct {
	Images ImageStore
	Bucket string
}

func NewImageHandler(images ImageStore, bucket string) *ImageHandler {
	return &ImageHandler{Images: images, Bucket: bucket}
}

// RegisterAdminRoutes mounts the upload route on the admin group.
func (h *ImageHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/listings/:id/images", h.UploadImage)
}

// RegisterPublicRoutes mounts the object route at the path the resolver
// produces URLs for.
func (h *ImageHandler) RegisterPublicRoutes(r gin.IRoutes) {
	r.GET(storage.PublicPathPrefix+"/:bucket/*path", h.DownloadImage)
}

// POST /api/admin/listings/:id/images (multipart: file, primary)
func (h *ImageHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_UPLOAD", "message": "file is required"})
		return
	}

	primary := false
	if v := c.PostForm("primary"); v != "" {
		primary, err = strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_UPLOAD", "message": "primary must be a boolean"})
			return
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, apperrors.NewImageUploadFailedError(err))
		return
	}
	defer file.Close()

	img, err := h.Images.Upload(c.Request.Context(), c.Param("id"), fileHeader.Filename, file, primary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, img)
}

// GET /storage/v1/object/public/:bucket/*path
func (h *ImageHandler) DownloadImage(c *gin.Context) {
	storagePath := strings.TrimPrefix(c.Param("path"), "/")
	if c.Param("bucket") != h.Bucket || storagePath == "" {
		respondError(c, apperrors.NewImageNotFoundError(storagePath))
		return
	}

	rc, size, contentType, err := h.Images.Open(c.Request.Context(), storagePath)
	if err != nil {
		respondError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Cache-Control", "public, max-age=86400")
	c.DataFromReader(http.StatusOK, size, contentType, rc, nil)
}
