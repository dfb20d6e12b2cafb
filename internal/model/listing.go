package model

import "database/sql"

// Статусы модерации объявления.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// RawListingRow is a row of the listings table as stored. Every column except
// id is nullable.
type RawListingRow struct {
	ID            string          `db:"id"`
	Title         sql.NullString  `db:"title"`
	Description   sql.NullString  `db:"description"`
	Price         sql.NullFloat64 `db:"price"`
	Address       sql.NullString  `db:"address"`
	City          sql.NullString  `db:"city"`
	State         sql.NullString  `db:"state"`
	Latitude      sql.NullFloat64 `db:"latitude"`
	Longitude     sql.NullFloat64 `db:"longitude"`
	NumSites      sql.NullInt64   `db:"num_sites"`
	OccupancyRate sql.NullFloat64 `db:"occupancy_rate"`
	AnnualRevenue sql.NullFloat64 `db:"annual_revenue"`
	CapRate       sql.NullFloat64 `db:"cap_rate"`
	CreatedAt     sql.NullTime    `db:"created_at"`
	Status        sql.NullString  `db:"status"`
	PropertyType  sql.NullString  `db:"property_type"`
	UserID        sql.NullString  `db:"user_id"`

	Images []RawImageRow `db:"-"`
}

// RawImageRow is a row of listing_images.
type RawImageRow struct {
	ListingID   string         `db:"listing_id"`
	StoragePath sql.NullString `db:"storage_path"`
	IsPrimary   sql.NullBool   `db:"is_primary"`
}

// Location groups the address and coordinates of a park.
type Location struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   string  `json:"state"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Broker is the contact shown on a listing card.
type Broker struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Avatar  string `json:"avatar"`
}

// ListingRecord is the display-ready form of a listing.
type ListingRecord struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Location      Location `json:"location"`
	NumSites      int      `json:"numSites"`
	OccupancyRate float64  `json:"occupancyRate"`
	CapRate       float64  `json:"capRate"`
	AnnualRevenue float64  `json:"annualRevenue"`
	PropertyType  string   `json:"propertyType"`
	Images        []string `json:"images"`
	Broker        Broker   `json:"broker"`
	CreatedAt     string   `json:"createdAt"`
	Featured      bool     `json:"featured"`
	Status        string   `json:"status"`
}

// ListingImage describes an image that was attached to a listing.
type ListingImage struct {
	ListingID   string `json:"listingId"`
	StoragePath string `json:"storagePath"`
	URL         string `json:"url"`
	Primary     bool   `json:"primary"`
}
