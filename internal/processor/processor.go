// Package processor orchestrates the template-generation pipeline: image
// enhancement, binarization, ridge thinning, minutiae extraction, quality
// gating and template encoding. It also answers quality and feature queries
// about existing templates.
package processor

import (
	"fmt"
	"image"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"go-fingerprint-service/internal/config"
	apperrors "go-fingerprint-service/internal/errors"
	"go-fingerprint-service/internal/enhance"
	"go-fingerprint-service/internal/imaging"
	"go-fingerprint-service/internal/logger"
	"go-fingerprint-service/internal/metrics"
	"go-fingerprint-service/internal/minutiae"
	"go-fingerprint-service/internal/quality"
	"go-fingerprint-service/internal/skeleton"
	"go-fingerprint-service/internal/template"
)

// GenerateResult is the outcome of a successful template generation
type GenerateResult struct {
	Template      string  `json:"template"`
	Quality       float64 `json:"quality"`
	MinutiaeCount int     `json:"minutiae_count"`
}

// QualityReport answers whether an existing template clears the quality gate
type QualityReport struct {
	IsValid       bool    `json:"is_valid"`
	Quality       float64 `json:"quality"`
	MinutiaeCount int     `json:"minutiae_count"`
}

// Features summarizes a decoded template for analysis
type Features struct {
	MinutiaeCount      int     `json:"minutiae_count"`
	Quality            float64 `json:"quality"`
	ImageWidth         int     `json:"image_width"`
	ImageHeight        int     `json:"image_height"`
	MinutiaeDensity    float64 `json:"minutiae_density"`
	AverageOrientation float64 `json:"average_orientation"`
	Version            string  `json:"version"`
}

// Processor runs the template-generation pipeline with explicit configuration
type Processor struct {
	cfg *config.Config
}

// New creates a processor with the given configuration
func New(cfg *config.Config) *Processor {
	return &Processor{cfg: cfg}
}

// GenerateTemplate decodes raw image bytes and runs the full pipeline
func (p *Processor) GenerateTemplate(imageData []byte) (*GenerateResult, error) {
	gray, err := imaging.DecodeGray(imageData)
	if err != nil {
		metrics.TemplateRejections.WithLabelValues(string(apperrors.ErrorTypeInvalidImage)).Inc()
		return nil, err
	}
	return p.GenerateFromGray(gray)
}

// GenerateFromGray runs the pipeline on an already-decoded grayscale buffer
func (p *Processor) GenerateFromGray(gray *image.Gray) (*GenerateResult, error) {
	start := time.Now()

	enhanced, err := enhance.Enhance(gray)
	if err != nil {
		metrics.TemplateRejections.WithLabelValues(string(apperrors.ErrorTypeInvalidImage)).Inc()
		return nil, err
	}

	binary := enhance.BinarizeOtsu(enhanced)
	skel := skeleton.Thin(binary)

	points := minutiae.Extract(skel, p.cfg.MaxMinutiaePoints)
	if len(points) == 0 {
		metrics.TemplateRejections.WithLabelValues(string(apperrors.ErrorTypeNoMinutiaeFound)).Inc()
		return nil, apperrors.NewNoMinutiaeFoundError("no minutiae points found in fingerprint")
	}

	score := quality.Score(enhanced, len(points))
	if score < p.cfg.MinQualityThreshold {
		metrics.TemplateRejections.WithLabelValues(string(apperrors.ErrorTypeLowQuality)).Inc()
		return nil, apperrors.NewLowQualityError(fmt.Sprintf(
			"fingerprint quality too low: %.2f (minimum: %.2f)", score, p.cfg.MinQualityThreshold))
	}

	bounds := enhanced.Bounds()
	record := template.New(points, score, bounds.Dy(), bounds.Dx())
	record.Version = p.cfg.TemplateVersion
	encoded, err := template.Encode(record)
	if err != nil {
		return nil, err
	}

	metrics.TemplatesGenerated.Inc()
	logger.WithFields(logrus.Fields{
		"quality":            score,
		"minutiae_count":     len(points),
		"processing_time_ms": time.Since(start).Milliseconds(),
	}).Info("Fingerprint template generated")

	return &GenerateResult{
		Template:      encoded,
		Quality:       score,
		MinutiaeCount: len(points),
	}, nil
}

// ScoreQuality reports whether an existing template clears the configured
// quality gate: quality at or above the minimum threshold and at least the
// minimum number of minutiae
func (p *Processor) ScoreQuality(encoded string) (*QualityReport, error) {
	t, err := template.Decode(encoded)
	if err != nil {
		return nil, err
	}
	return &QualityReport{
		IsValid: t.Quality >= p.cfg.MinQualityThreshold &&
			t.MinutiaeCount >= p.cfg.MinMinutiaePoints,
		Quality:       t.Quality,
		MinutiaeCount: t.MinutiaeCount,
	}, nil
}

// ExtractFeatures computes summary statistics over a decoded template.
// Minutiae density is points per 10,000 square pixels.
func (p *Processor) ExtractFeatures(encoded string) (*Features, error) {
	t, err := template.Decode(encoded)
	if err != nil {
		return nil, err
	}

	area := t.Height() * t.Width()
	if area < 1 {
		area = 1
	}

	avgOrientation := 0.0
	if len(t.Minutiae) > 0 {
		orientations := make([]float64, len(t.Minutiae))
		for i, m := range t.Minutiae {
			orientations[i] = m.Orientation
		}
		avgOrientation = stat.Mean(orientations, nil)
	}

	return &Features{
		MinutiaeCount:      len(t.Minutiae),
		Quality:            t.Quality,
		ImageWidth:         t.Width(),
		ImageHeight:        t.Height(),
		MinutiaeDensity:    float64(len(t.Minutiae)) / float64(area) * 10000,
		AverageOrientation: avgOrientation,
		Version:            t.Version,
	}, nil
}
