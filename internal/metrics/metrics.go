package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_store_errors_total",
			Help: "Listing store failures absorbed at the public boundary",
		},
		[]string{"operation"},
	)

	NormalizeDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_normalize_dropped_total",
			Help: "Listing rows dropped because they could not be normalized",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"route", "status"},
	)

	ImagesUploaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "listings_images_uploaded_total",
			Help: "Listing images stored",
		},
	)
)
