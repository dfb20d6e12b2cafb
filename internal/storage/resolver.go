package storage

import (
	"net/url"
	"strings"
)

// DefaultBucket is the bucket listing images are stored in.
const DefaultBucket = "listing-images"

// PublicPathPrefix is the route prefix under which bucket objects are served.
const PublicPathPrefix = "/storage/v1/object/public"

// Resolver derives public URLs for stored listing images.
type Resolver struct {
	BaseURL string
	Bucket  string
}

func NewResolver(baseURL, bucket string) *Resolver {
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Resolver{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Bucket:  bucket,
	}
}

// PublicURL returns the public URL of the object stored at storagePath.
func (r *Resolver) PublicURL(storagePath string) string {
	segments := strings.Split(strings.TrimLeft(storagePath, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return r.BaseURL + PublicPathPrefix + "/" + url.PathEscape(r.Bucket) + "/" + strings.Join(segments, "/")
}
