package service

import (
	"context"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/logger"
	"rvpark-listings/internal/metrics"
	"rvpark-listings/internal/model"
	"rvpark-listings/internal/repository"
)

// ListingStore is the read side of the listings table.
type ListingStore interface {
	FindApproved(ctx context.Context, f model.ListingFilters) ([]model.RawListingRow, error)
	FindRecentApproved(ctx context.Context, limit int) ([]model.RawListingRow, error)
	FindApprovedByID(ctx context.Context, id string) (*model.RawListingRow, error)
	CountApproved(ctx context.Context) (int, error)
}

// ListingService serves approved listings and reports every failure to the caller.
type ListingService struct {
	store      ListingStore
	normalizer *Normalizer
	logger     logger.Logger
}

// NewListingService wires the normalizer's drop hook to logging and metrics.
func NewListingService(store ListingStore, normalizer *Normalizer, log logger.Logger) *ListingService {
	s := &ListingService{
		store:      store,
		normalizer: normalizer,
		logger:     log.WithFields(map[string]interface{}{"component": "listing_service"}),
	}
	if normalizer.OnDrop == nil {
		normalizer.OnDrop = s.recordDrop
	}
	return s
}

func (s *ListingService) recordDrop(id string, err error) {
	metrics.NormalizeDropped.Inc()
	s.logger.Warn("listing dropped during normalization", map[string]interface{}{
		"listingId": id,
		"error":     err,
	})
}

// ApprovedListings returns approved listings matching f.
func (s *ListingService) ApprovedListings(ctx context.Context, f model.ListingFilters) ([]model.ListingRecord, error) {
	rows, err := s.store.FindApproved(ctx, f)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("approved_listings", err)
	}
	return s.normalizer.NormalizeAll(rows, false), nil
}

// FeaturedListings returns the newest approved listings, flagged as featured.
func (s *ListingService) FeaturedListings(ctx context.Context) ([]model.ListingRecord, error) {
	rows, err := s.store.FindRecentApproved(ctx, repository.FeaturedLimit)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("featured_listings", err)
	}
	return s.normalizer.NormalizeAll(rows, true), nil
}

// ListingByID returns LISTING_NOT_FOUND when id is unknown or not approved.
func (s *ListingService) ListingByID(ctx context.Context, id string) (*model.ListingRecord, error) {
	row, err := s.store.FindApprovedByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("listing_by_id", err)
	}
	if row == nil {
		return nil, apperrors.NewListingNotFoundError(id)
	}

	rec, err := s.normalizer.Normalize(*row, false)
	if err != nil {
		return nil, apperrors.NewNormalizationFailedError(id, err)
	}
	return &rec, nil
}

// CountApproved counts approved listings.
func (s *ListingService) CountApproved(ctx context.Context) (int, error) {
	n, err := s.store.CountApproved(ctx)
	if err != nil {
		return 0, apperrors.NewStoreQueryFailedError("count_approved", err)
	}
	return n, nil
}
