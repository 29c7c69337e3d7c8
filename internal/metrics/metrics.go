// Package metrics provides the Prometheus metrics shared by the bot, the HTTP API and the indexer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "aquahealth"

var (
	// HTTPRequestTotal counts requests by method, route and status.
	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route, and status.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds is request latency by method and route.
	HTTPRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10),
		},
		[]string{"method", "route"},
	)

	// AssessmentsTotal counts scored observations by prediction and color tier.
	AssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Total number of scored observations by prediction and color tier.",
		},
		[]string{"prediction", "tier"},
	)

	// RiskScore is the distribution of computed risk scores.
	RiskScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "risk_score",
			Help:      "Distribution of risk scores between 0 and 100.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)

	// RejectedObservationsTotal counts observations rejected at validation.
	RejectedObservationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_observations_total",
			Help:      "Total number of observations rejected by input validation.",
		},
	)

	// PostsTotal counts community posts accepted into the feed.
	PostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_posts_total",
			Help:      "Total number of community posts appended to the feed.",
		},
		[]string{"with_image"},
	)

	// MissingImagesTotal counts feed posts whose image file is gone.
	MissingImagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_missing_images_total",
			Help:      "Total number of feed posts rendered without their missing image.",
		},
	)

	// LogbookEntriesIndexed is the number of logbook rows in the dashboard index.
	LogbookEntriesIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "logbook_entries_indexed",
			Help:      "Number of logbook entries in the dashboard index.",
		},
	)

	// InsightsGeneratedTotal counts Harbor Helper insights by outcome.
	InsightsGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_generated_total",
			Help:      "Total number of Harbor Helper insight generations by result.",
		},
		[]string{"result"},
	)
)
