package validator

import (
	"strings"
	"testing"

	"rvpark-listings/internal/model"
)

func TestValidator_ValidateStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		filters model.ListingFilters
		wantErr bool
	}{
		{
			name:    "Empty filters",
			filters: model.ListingFilters{},
			wantErr: false,
		},
		{
			name: "Full filters",
			filters: model.ListingFilters{
				PriceMin:         100000,
				PriceMax:         2500000,
				State:            "TX",
				SitesMin:         20,
				SitesMax:         200,
				CapRateMin:       7.5,
				OccupancyRateMin: 60,
				Search:           "lakefront",
			},
			wantErr: false,
		},
		{
			name:    "Negative price",
			filters: model.ListingFilters{PriceMin: -1},
			wantErr: true,
		},
		{
			name:    "Negative sites",
			filters: model.ListingFilters{SitesMax: -5},
			wantErr: true,
		},
		{
			name:    "Search too long",
			filters: model.ListingFilters{Search: strings.Repeat("a", 201)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := v.ValidateStruct(tt.filters); (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
