package service

import (
	"context"
	"errors"

	apperrors "rvpark-listings/internal/errors"
	"rvpark-listings/internal/logger"
	"rvpark-listings/internal/model"
	"rvpark-listings/internal/repository"
)

// ModerationStore is what admins need from the listings table.
type ModerationStore interface {
	FindPending(ctx context.Context) ([]model.RawListingRow, error)
	SetStatus(ctx context.Context, id, status string) error
}

// ModerationService lets admins review pending listings.
type ModerationService struct {
	store      ModerationStore
	normalizer *Normalizer
	logger     logger.Logger
}

func NewModerationService(store ModerationStore, normalizer *Normalizer, log logger.Logger) *ModerationService {
	return &ModerationService{
		store:      store,
		normalizer: normalizer,
		logger:     log.WithFields(map[string]interface{}{"component": "moderation_service"}),
	}
}

// PendingListings returns listings awaiting review, newest first.
func (s *ModerationService) PendingListings(ctx context.Context) ([]model.ListingRecord, error) {
	rows, err := s.store.FindPending(ctx)
	if err != nil {
		return nil, apperrors.NewStoreQueryFailedError("pending_listings", err)
	}
	return s.normalizer.NormalizeAll(rows, false), nil
}

func (s *ModerationService) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, model.StatusApproved)
}

func (s *ModerationService) Reject(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, model.StatusRejected)
}

func (s *ModerationService) setStatus(ctx context.Context, id, status string) error {
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return apperrors.NewListingNotFoundError(id)
		}
		return apperrors.NewStoreQueryFailedError("set_status", err)
	}
	s.logger.Info("listing moderated", map[string]interface{}{
		"listingId": id,
		"status":    status,
	})
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrListingNotFound)
}
