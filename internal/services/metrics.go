package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// schoolsCreated counts successfully inserted schools.
	schoolsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "schools_created_total",
			Help: "Total number of schools registered.",
		},
	)

	// mediaUploads counts image relay attempts by backend and outcome
	// (stored, rejected, failed).
	mediaUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Total number of school image uploads by backend and outcome.",
		},
		[]string{"backend", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(schoolsCreated, mediaUploads)
}
