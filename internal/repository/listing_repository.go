package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"rvpark-listings/internal/model"
)

// ErrListingNotFound is returned by mutations that matched no listing row.
var ErrListingNotFound = errors.New("listing not found")

type ListingRepository struct {
	DB           *sqlx.DB
	QueryTimeout time.Duration
}

func NewListingRepository(db *sqlx.DB, queryTimeout time.Duration) *ListingRepository {
	return &ListingRepository{DB: db, QueryTimeout: queryTimeout}
}

func (r *ListingRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, r.QueryTimeout)
}

// FindApproved returns approved listings matching the filters, with their images.
func (r *ListingRepository) FindApproved(ctx context.Context, f model.ListingFilters) ([]model.RawListingRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := BuildApprovedListingsQuery(f)
	var rows []model.RawListingRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindApproved: %w", err)
	}
	if err := r.attachImages(ctx, rows); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindApproved: %w", err)
	}
	return rows, nil
}

// FindRecentApproved returns the newest approved listings, at most limit of them.
func (r *ListingRepository) FindRecentApproved(ctx context.Context, limit int) ([]model.RawListingRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := BuildFeaturedListingsQuery(limit)
	var rows []model.RawListingRow
	if err := r.DB.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindRecentApproved: %w", err)
	}
	if err := r.attachImages(ctx, rows); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindRecentApproved: %w", err)
	}
	return rows, nil
}

// FindApprovedByID returns nil, nil when no approved listing has that id.
func (r *ListingRepository) FindApprovedByID(ctx context.Context, id string) (*model.RawListingRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := BuildApprovedListingByIDQuery(id)
	var row model.RawListingRow
	if err := r.DB.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("ListingRepository.FindApprovedByID: %w", err)
	}

	rows := []model.RawListingRow{row}
	if err := r.attachImages(ctx, rows); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindApprovedByID: %w", err)
	}
	return &rows[0], nil
}

// CountApproved counts approved listings.
func (r *ListingRepository) CountApproved(ctx context.Context) (int, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	query, args := BuildCountApprovedQuery()
	var count int
	if err := r.DB.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("ListingRepository.CountApproved: %w", err)
	}
	return count, nil
}

// FindPending returns listings awaiting moderation, newest first.
func (r *ListingRepository) FindPending(ctx context.Context) ([]model.RawListingRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var rows []model.RawListingRow
	err := r.DB.SelectContext(ctx, &rows,
		"SELECT "+listingColumns+" FROM listings WHERE status = $1 ORDER BY created_at DESC",
		model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("ListingRepository.FindPending: %w", err)
	}
	if err := r.attachImages(ctx, rows); err != nil {
		return nil, fmt.Errorf("ListingRepository.FindPending: %w", err)
	}
	return rows, nil
}

// SetStatus moves a listing to the given moderation status.
func (r *ListingRepository) SetStatus(ctx context.Context, id, status string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	res, err := r.DB.ExecContext(ctx, `UPDATE listings SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("ListingRepository.SetStatus: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ListingRepository.SetStatus: %w", err)
	}
	if n == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (r *ListingRepository) Exists(ctx context.Context, listingID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var count int
	const q = `SELECT COUNT(1) FROM listings WHERE id = $1`
	if err := r.DB.GetContext(ctx, &count, q, listingID); err != nil {
		return false, fmt.Errorf("ListingRepository.Exists: %w", err)
	}
	return count > 0, nil
}

// AddImage records an uploaded image. A primary image clears the flag on the
// listing's other images in the same transaction.
func (r *ListingRepository) AddImage(ctx context.Context, listingID, storagePath string, primary bool) (err error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ListingRepository.AddImage begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if primary {
		if _, err = tx.ExecContext(ctx,
			`UPDATE listing_images SET is_primary = false WHERE listing_id = $1 AND is_primary`,
			listingID); err != nil {
			return fmt.Errorf("ListingRepository.AddImage clear primary: %w", err)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO listing_images (listing_id, storage_path, is_primary) VALUES ($1, $2, $3)`,
		listingID, storagePath, primary); err != nil {
		return fmt.Errorf("ListingRepository.AddImage insert: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ListingRepository.AddImage commit: %w", err)
	}
	return nil
}

// attachImages loads listing_images for rows in one query, keeping insertion order.
func (r *ListingRepository) attachImages(ctx context.Context, rows []model.RawListingRow) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	var images []model.RawImageRow
	err := r.DB.SelectContext(ctx, &images, `
		SELECT listing_id, storage_path, is_primary
		FROM listing_images
		WHERE listing_id = ANY($1)
		ORDER BY id`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load images: %w", err)
	}

	byListing := make(map[string][]model.RawImageRow, len(rows))
	for _, img := range images {
		byListing[img.ListingID] = append(byListing[img.ListingID], img)
	}
	for i := range rows {
		rows[i].Images = byListing[rows[i].ID]
	}
	return nil
}
