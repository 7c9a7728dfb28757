// Package matching finds the best one-to-one correspondence between two
// minutiae sets and converts it into a [0,1] similarity score, selects the
// best candidate above threshold from a list, and verifies template pairs.
package matching

import (
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-fingerprint-service/internal/logger"
	"go-fingerprint-service/internal/metrics"
	"go-fingerprint-service/internal/minutiae"
	"go-fingerprint-service/internal/template"
)

// Confidence factor weights and count bonuses
const (
	weightMatchRatio       = 0.4
	weightDistanceScore    = 0.3
	weightOrientationScore = 0.3

	bonusHighCount     = 0.10
	bonusHighThreshold = 15
	bonusMidCount      = 0.05
	bonusMidThreshold  = 10
)

// Config holds the matching thresholds, passed explicitly instead of living
// in package state
type Config struct {
	MatchThreshold       float64
	MaxDistanceThreshold float64
	OrientationTolerance float64
}

// DefaultConfig returns the documented default thresholds
func DefaultConfig() Config {
	return Config{
		MatchThreshold:       0.7,
		MaxDistanceThreshold: 50,
		OrientationTolerance: 0.5,
	}
}

// Candidate is one entry of the list a probe template is matched against
type Candidate struct {
	IdentityID string `json:"identity_id"`
	Template   string `json:"template"`
}

// MatchResult names the winning candidate and its confidence
type MatchResult struct {
	IdentityID string  `json:"identity_id"`
	Confidence float64 `json:"confidence"`
}

// VerifyResult reports a 1:1 comparison outcome
type VerifyResult struct {
	IsMatch    bool    `json:"is_match"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
}

// Engine scores minutiae-set similarity and selects best matches
type Engine struct {
	cfg    Config
	finder CorrespondenceFinder
	pool   *WorkerPool
}

// NewEngine creates a matching engine with the greedy correspondence finder
// and a started worker pool for candidate evaluation
func NewEngine(cfg Config) *Engine {
	pool := NewWorkerPool(0)
	pool.Start()
	return &Engine{
		cfg: cfg,
		finder: GreedyFinder{
			MaxDistance:          cfg.MaxDistanceThreshold,
			OrientationTolerance: cfg.OrientationTolerance,
		},
		pool: pool,
	}
}

// Close releases the engine's worker pool
func (e *Engine) Close() {
	e.pool.Close()
}

// Confidence scores how well two minutiae sets correspond. Both orders of
// arguments yield values in [0,1]; an empty set on either side scores zero
// without searching.
func (e *Engine) Confidence(source, target []minutiae.Minutia) float64 {
	if len(source) == 0 || len(target) == 0 {
		return 0
	}

	matches := e.finder.Find(source, target)
	if len(matches) == 0 {
		return 0
	}

	total := len(source)
	if len(target) > total {
		total = len(target)
	}
	matchRatio := float64(len(matches)) / float64(total)

	var distanceSum, orientationSum float64
	for _, m := range matches {
		distanceSum += math.Max(0, 1-m.Distance/e.cfg.MaxDistanceThreshold)
		orientationSum += math.Max(0, 1-math.Abs(m.OrientationDiff)/e.cfg.OrientationTolerance)
	}
	avgDistanceScore := distanceSum / float64(len(matches))
	avgOrientationScore := orientationSum / float64(len(matches))

	confidence := weightMatchRatio*matchRatio +
		weightDistanceScore*avgDistanceScore +
		weightOrientationScore*avgOrientationScore

	switch {
	case len(matches) >= bonusHighThreshold:
		confidence += bonusHighCount
	case len(matches) >= bonusMidThreshold:
		confidence += bonusMidCount
	}

	return math.Min(confidence, 1.0)
}

// BestMatch compares a probe template against a candidate list and returns
// the highest-confidence candidate at or above the match threshold, or nil
// when none clears it. Candidates that fail to decode or carry no minutiae
// are logged and skipped; one corrupt candidate never aborts the rest.
// Returns an error only when the probe itself cannot be decoded.
func (e *Engine) BestMatch(probe string, candidates []Candidate) (*MatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.MatchDuration.Observe(time.Since(start).Seconds())
	}()

	probeTemplate, err := template.Decode(probe)
	if err != nil {
		return nil, err
	}
	if len(probeTemplate.Minutiae) == 0 {
		logger.Warn("probe template carries no minutiae")
		return nil, nil
	}

	// Evaluate every candidate concurrently, then reduce sequentially in
	// input order so ties keep the first-seen candidate regardless of
	// worker scheduling.
	confidences := make([]float64, len(candidates))
	usable := make([]bool, len(candidates))

	var wg sync.WaitGroup
	for i := range candidates {
		i := i
		wg.Add(1)
		e.pool.Submit(func() {
			defer wg.Done()

			cand := candidates[i]
			if cand.IdentityID == "" || cand.Template == "" {
				metrics.CandidatesSkipped.Inc()
				return
			}
			decoded, err := template.Decode(cand.Template)
			if err != nil {
				metrics.CandidatesSkipped.Inc()
				logger.WithError(err).WithField("identity_id", cand.IdentityID).
					Warn("Skipping undecodable candidate template")
				return
			}
			if len(decoded.Minutiae) == 0 {
				metrics.CandidatesSkipped.Inc()
				return
			}

			metrics.MatchComparisons.Inc()
			confidences[i] = e.Confidence(probeTemplate.Minutiae, decoded.Minutiae)
			usable[i] = true
		})
	}
	wg.Wait()

	var best *MatchResult
	bestConfidence := 0.0
	for i, cand := range candidates {
		if !usable[i] {
			continue
		}
		confidence := confidences[i]
		logger.WithFields(logrus.Fields{
			"identity_id": cand.IdentityID,
			"confidence":  confidence,
		}).Debug("Candidate comparison complete")

		if confidence > bestConfidence && confidence >= e.cfg.MatchThreshold {
			bestConfidence = confidence
			best = &MatchResult{IdentityID: cand.IdentityID, Confidence: confidence}
		}
	}

	if best != nil {
		logger.WithFields(logrus.Fields{
			"identity_id": best.IdentityID,
			"confidence":  best.Confidence,
		}).Info("Best match found")
	} else {
		logger.WithField("threshold", e.cfg.MatchThreshold).Info("No match above threshold")
	}
	return best, nil
}

// VerifyPair decodes exactly two templates and reports whether their
// confidence clears the match threshold, for 1:1 verification flows
func (e *Engine) VerifyPair(first, second string) (*VerifyResult, error) {
	a, err := template.Decode(first)
	if err != nil {
		return nil, err
	}
	b, err := template.Decode(second)
	if err != nil {
		return nil, err
	}

	metrics.MatchComparisons.Inc()
	confidence := e.Confidence(a.Minutiae, b.Minutiae)
	return &VerifyResult{
		IsMatch:    confidence >= e.cfg.MatchThreshold,
		Confidence: confidence,
		Threshold:  e.cfg.MatchThreshold,
	}, nil
}
