package service

import (
	"errors"
	"fmt"
	"time"

	"rvpark-listings/internal/model"
)

// Placeholder contact shown until listings carry a real broker profile.
const (
	DefaultTitle      = "Untitled Listing"
	PlaceholderName   = "Contact Agent"
	PlaceholderEmail  = "info@rvparkmarketplace.com"
	PlaceholderAvatar = "/placeholder.svg"
)

var (
	errMissingID          = errors.New("listing row has no id")
	errMissingStoragePath = errors.New("image row has no storage path")
)

// ImageURLResolver turns a stored object path into a public URL.
type ImageURLResolver interface {
	PublicURL(storagePath string) string
}

// Normalizer maps raw listing rows to display records.
type Normalizer struct {
	resolver ImageURLResolver
	now      func() time.Time

	// OnDrop, if set, is called for every row NormalizeAll leaves out.
	OnDrop func(id string, err error)
}

func NewNormalizer(resolver ImageURLResolver) *Normalizer {
	return &Normalizer{resolver: resolver, now: time.Now}
}

// Normalize maps one row. Zero and NULL column values both become the field
// default, so a price of 0 and an unknown price are reported the same way.
func (n *Normalizer) Normalize(row model.RawListingRow, featured bool) (model.ListingRecord, error) {
	if row.ID == "" {
		return model.ListingRecord{}, errMissingID
	}

	images, err := n.resolveImages(row.Images)
	if err != nil {
		return model.ListingRecord{}, fmt.Errorf("listing %s: %w", row.ID, err)
	}

	createdAt := n.now().UTC().Format(time.RFC3339)
	if row.CreatedAt.Valid && !row.CreatedAt.Time.IsZero() {
		createdAt = row.CreatedAt.Time.UTC().Format(time.RFC3339)
	}

	return model.ListingRecord{
		ID:          row.ID,
		Title:       stringOr(row.Title.String, DefaultTitle),
		Description: row.Description.String,
		Price:       row.Price.Float64,
		Location: model.Location{
			Address: row.Address.String,
			City:    row.City.String,
			State:   row.State.String,
			Lat:     row.Latitude.Float64,
			Lng:     row.Longitude.Float64,
		},
		NumSites:      int(row.NumSites.Int64),
		OccupancyRate: row.OccupancyRate.Float64,
		CapRate:       row.CapRate.Float64,
		AnnualRevenue: row.AnnualRevenue.Float64,
		PropertyType:  row.PropertyType.String,
		Images:        images,
		Broker: model.Broker{
			ID:     row.UserID.String,
			Name:   PlaceholderName,
			Email:  PlaceholderEmail,
			Avatar: PlaceholderAvatar,
		},
		CreatedAt: createdAt,
		Featured:  featured,
		Status:    stringOr(row.Status.String, model.StatusApproved),
	}, nil
}

// NormalizeAll maps rows in order, leaving out the ones that fail.
func (n *Normalizer) NormalizeAll(rows []model.RawListingRow, featured bool) []model.ListingRecord {
	out := make([]model.ListingRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := n.Normalize(row, featured)
		if err != nil {
			if n.OnDrop != nil {
				n.OnDrop(row.ID, err)
			}
			continue
		}
		out = append(out, rec)
	}
	return out
}

// resolveImages keeps input order, except that the first primary image moves to the front.
func (n *Normalizer) resolveImages(rows []model.RawImageRow) ([]string, error) {
	urls := make([]string, 0, len(rows))
	primary := -1
	for i, img := range rows {
		if img.StoragePath.String == "" {
			return nil, errMissingStoragePath
		}
		urls = append(urls, n.resolver.PublicURL(img.StoragePath.String))
		if primary < 0 && img.IsPrimary.Bool {
			primary = i
		}
	}

	if primary > 0 {
		p := urls[primary]
		copy(urls[1:primary+1], urls[:primary])
		urls[0] = p
	}
	return urls, nil
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
