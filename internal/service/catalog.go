package service

import (
	"context"

	"rvpark-listings/internal/logger"
	"rvpark-listings/internal/metrics"
	"rvpark-listings/internal/model"
)

// Catalog is the public read boundary. Its operations never fail: any error
// becomes an empty list, nil or zero, and is logged and counted instead.
type Catalog struct {
	listings *ListingService
	logger   logger.Logger
}

func NewCatalog(listings *ListingService, log logger.Logger) *Catalog {
	return &Catalog{
		listings: listings,
		logger:   log.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

func (c *Catalog) absorb(operation string, err error) {
	metrics.StoreErrors.WithLabelValues(operation).Inc()
	c.logger.Warn("listing read failed, serving empty result", map[string]interface{}{
		"operation": operation,
		"error":     err,
	})
}

func (c *Catalog) FetchApprovedListings(ctx context.Context, f model.ListingFilters) []model.ListingRecord {
	recs, err := c.listings.ApprovedListings(ctx, f)
	if err != nil {
		c.absorb("fetch_approved_listings", err)
		return []model.ListingRecord{}
	}
	return recs
}

func (c *Catalog) FetchFeaturedApprovedListings(ctx context.Context) []model.ListingRecord {
	recs, err := c.listings.FeaturedListings(ctx)
	if err != nil {
		c.absorb("fetch_featured_approved_listings", err)
		return []model.ListingRecord{}
	}
	return recs
}

// FetchApprovedListingByID returns nil when the listing is missing, not
// approved, unreadable or not normalizable.
func (c *Catalog) FetchApprovedListingByID(ctx context.Context, id string) *model.ListingRecord {
	rec, err := c.listings.ListingByID(ctx, id)
	if err != nil {
		if !isNotFound(err) {
			c.absorb("fetch_approved_listing_by_id", err)
		}
		return nil
	}
	return rec
}

func (c *Catalog) CountApprovedListings(ctx context.Context) int {
	n, err := c.listings.CountApproved(ctx)
	if err != nil {
		c.absorb("count_approved_listings", err)
		return 0
	}
	return n
}
