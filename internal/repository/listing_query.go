package repository

import (
	"fmt"
	"strings"

	"rvpark-listings/internal/model"
)

const listingColumns = `id, title, description, price, address, city, state, latitude, longitude,
	num_sites, occupancy_rate, annual_revenue, cap_rate, created_at, status, property_type, user_id`

// FeaturedLimit is how many listings the featured query returns.
const FeaturedLimit = 3

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// listingQuery accumulates AND-ed conditions with positional args.
type listingQuery struct {
	conds []string
	args  []interface{}
}

// add appends a condition; every "?" in cond is replaced by the placeholder of v.
func (q *listingQuery) add(cond string, v interface{}) {
	q.args = append(q.args, v)
	q.conds = append(q.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(q.args))))
}

func (q *listingQuery) where() string {
	return strings.Join(q.conds, " AND ")
}

func approvedQuery() *listingQuery {
	q := &listingQuery{}
	q.add("status = ?", model.StatusApproved)
	return q
}

// BuildApprovedListingsQuery translates filters into the approved-listings SELECT.
// Zero values and sentinel upper bounds are skipped.
func BuildApprovedListingsQuery(f model.ListingFilters) (string, []interface{}) {
	q := approvedQuery()

	if f.PriceMin > 0 {
		q.add("price >= ?", f.PriceMin)
	}
	if f.PriceMax > 0 && f.PriceMax < model.PriceMaxUnbounded {
		q.add("price <= ?", f.PriceMax)
	}
	if f.State != "" {
		q.add("state = ?", f.State)
	}
	if f.SitesMin > 0 {
		q.add("num_sites >= ?", f.SitesMin)
	}
	if f.SitesMax > 0 && f.SitesMax < model.SitesMaxUnbounded {
		q.add("num_sites <= ?", f.SitesMax)
	}
	if f.CapRateMin > 0 {
		q.add("cap_rate >= ?", f.CapRateMin)
	}
	if f.OccupancyRateMin > 0 {
		q.add("occupancy_rate >= ?", f.OccupancyRateMin)
	}
	if term := strings.TrimSpace(f.Search); term != "" {
		q.add("(title ILIKE ? OR description ILIKE ? OR city ILIKE ? OR state ILIKE ?)",
			"%"+likeEscaper.Replace(term)+"%")
	}

	query := "SELECT " + listingColumns + " FROM listings WHERE " + q.where() + " ORDER BY created_at DESC"
	return query, q.args
}

// BuildFeaturedListingsQuery selects the most recently created approved listings.
func BuildFeaturedListingsQuery(limit int) (string, []interface{}) {
	q := approvedQuery()
	query := fmt.Sprintf("SELECT %s FROM listings WHERE %s ORDER BY created_at DESC LIMIT $%d",
		listingColumns, q.where(), len(q.args)+1)
	return query, append(q.args, limit)
}

// BuildApprovedListingByIDQuery selects one approved listing.
func BuildApprovedListingByIDQuery(id string) (string, []interface{}) {
	q := approvedQuery()
	q.add("id = ?", id)
	return "SELECT " + listingColumns + " FROM listings WHERE " + q.where(), q.args
}

// BuildCountApprovedQuery counts approved listings without fetching them.
func BuildCountApprovedQuery() (string, []interface{}) {
	q := approvedQuery()
	return "SELECT COUNT(*) FROM listings WHERE " + q.where(), q.args
}
