package model

// Sentinel upper bounds: a max at or above these means "no upper bound".
const (
	PriceMaxUnbounded = 10_000_000
	SitesMaxUnbounded = 1000
)

// ListingFilters is the closed set of filters accepted by the public listing
// search. The zero value of every field means "not set".
type ListingFilters struct {
	PriceMin         float64 `form:"priceMin" json:"priceMin,omitempty" validate:"gte=0"`
	PriceMax         float64 `form:"priceMax" json:"priceMax,omitempty" validate:"gte=0"`
	State            string  `form:"state" json:"state,omitempty" validate:"max=64"`
	SitesMin         int     `form:"sitesMin" json:"sitesMin,omitempty" validate:"gte=0"`
	SitesMax         int     `form:"sitesMax" json:"sitesMax,omitempty" validate:"gte=0"`
	CapRateMin       float64 `form:"capRateMin" json:"capRateMin,omitempty" validate:"gte=0"`
	OccupancyRateMin float64 `form:"occupancyRateMin" json:"occupancyRateMin,omitempty" validate:"gte=0"`
	Search           string  `form:"search" json:"search,omitempty" validate:"max=200"`
}

// FilterKeys lists the query parameter names that map onto ListingFilters.
var FilterKeys = map[string]struct{}{
	"priceMin":         {},
	"priceMax":         {},
	"state":            {},
	"sitesMin":         {},
	"sitesMax":         {},
	"capRateMin":       {},
	"occupancyRateMin": {},
	"search":           {},
}
