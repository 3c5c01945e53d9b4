// Package analytics exposes engine usage as Prometheus metrics.
package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts project analyses by resulting archetype.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "declutterd",
			Subsystem: "organizer",
			Name:      "analyses_total",
			Help:      "Total number of project analyses by detected archetype",
		},
		[]string{"archetype"},
	)

	// SuggestionsTotal counts emitted suggestions by kind.
	SuggestionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "declutterd",
			Subsystem: "organizer",
			Name:      "suggestions_total",
			Help:      "Total number of suggestions emitted by kind",
		},
		[]string{"kind"},
	)

	// AnalysisDuration tracks how long analyses take.
	AnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "declutterd",
			Subsystem: "organizer",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of project analyses in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// TemplateApplications counts template applications.
	// Labels: template, result (success, error)
	TemplateApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "declutterd",
			Subsystem: "templates",
			Name:      "applications_total",
			Help:      "Total number of template applications",
		},
		[]string{"template", "result"},
	)

	// FoldersCreated counts folders created through template application.
	FoldersCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "declutterd",
			Subsystem: "templates",
			Name:      "folders_created_total",
			Help:      "Total number of folders created by template applications",
		},
	)

	// AssetsMoved counts asset moves performed by template application.
	AssetsMoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "declutterd",
			Subsystem: "templates",
			Name:      "assets_moved_total",
			Help:      "Total number of assets moved by template applications",
		},
	)

	// ApplicationErrors counts per-folder errors during template
	// application.
	ApplicationErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "declutterd",
			Subsystem: "templates",
			Name:      "application_errors_total",
			Help:      "Total number of per-folder errors during template applications",
		},
	)

	// HealthScore reports the last computed overall project health.
	HealthScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "declutterd",
			Subsystem: "project",
			Name:      "health_score",
			Help:      "Most recently computed overall project health score (0-100)",
		},
	)
)
