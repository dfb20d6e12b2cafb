package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS listings (
	id TEXT PRIMARY KEY,
	user_id TEXT,
	title TEXT,
	description TEXT,
	price NUMERIC(14,2),
	address TEXT,
	city TEXT,
	state TEXT,
	latitude DOUBLE PRECISION,
	longitude DOUBLE PRECISION,
	num_sites INTEGER,
	occupancy_rate NUMERIC(5,2),
	annual_revenue NUMERIC(14,2),
	cap_rate NUMERIC(5,2),
	property_type TEXT,
	status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('approved', 'pending', 'rejected')),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listings_status_created ON listings(status, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_listings_state ON listings(state);

CREATE TABLE IF NOT EXISTS listing_images (
	id BIGSERIAL PRIMARY KEY,
	listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
	storage_path TEXT NOT NULL,
	is_primary BOOLEAN NOT NULL DEFAULT false,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_listing_images_listing ON listing_images(listing_id);
`

// EnsureSchema creates the listings tables if they do not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
