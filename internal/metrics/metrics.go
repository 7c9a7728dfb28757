package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TemplatesGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fingerprint_templates_generated_total",
		Help: "Total number of fingerprint templates successfully generated",
	})

	TemplateRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fingerprint_template_rejections_total",
		Help: "Total number of rejected template generations by reason",
	}, []string{"reason"})

	MatchComparisons = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fingerprint_match_comparisons_total",
		Help: "Total number of pairwise template comparisons performed",
	})

	CandidatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fingerprint_match_candidates_skipped_total",
		Help: "Total number of candidate templates skipped during matching (undecodable or empty)",
	})

	MatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fingerprint_match_duration_seconds",
		Help:    "Duration of best-match searches across a candidate list",
		Buckets: prometheus.DefBuckets,
	})
)
