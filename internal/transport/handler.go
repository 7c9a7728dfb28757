// Package transport exposes the fingerprint pipeline over HTTP: template
// generation from a captured image, 1:N identification, 1:1 verification,
// and quality/feature inspection of existing templates.
package transport

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"go-fingerprint-service/internal/config"
	apperrors "go-fingerprint-service/internal/errors"
	"go-fingerprint-service/internal/imaging"
	"go-fingerprint-service/internal/logger"
	"go-fingerprint-service/internal/matching"
	"go-fingerprint-service/internal/processor"
	"go-fingerprint-service/internal/storage"
	"go-fingerprint-service/pkg/models"
)

// NewHandler wires the HTTP routes to the pipeline components
func NewHandler(proc *processor.Processor, engine *matching.Engine, fetcher storage.ImageFetcher, cfg *config.Config) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestID(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/capture", captureFingerprint(proc, fetcher, cfg))
	r.POST("/match", matchFingerprint(engine))
	r.POST("/verify", verifyPair(engine))
	r.POST("/verify-quality", verifyQuality(proc))
	r.POST("/extract-features", extractFeatures(proc))

	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"service": "fingerprint",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// captureFingerprint generates a template from an inlined base64 image or a
// fetchable image URL
func captureFingerprint(proc *processor.Processor, fetcher storage.ImageFetcher, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.CaptureRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		var result *processor.GenerateResult
		var err error
		switch {
		case req.Image != "":
			var data []byte
			data, err = decodeBase64Image(req.Image)
			if err == nil {
				result, err = proc.GenerateTemplate(data)
			}
		case req.ImageURL != "":
			result, err = generateFromURL(c.Request.Context(), proc, fetcher, cfg, req.ImageURL)
		default:
			err = apperrors.NewValidationError("either image or image_url is required", nil)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, models.CaptureResponse{
			Success:       true,
			Template:      result.Template,
			Quality:       result.Quality,
			MinutiaeCount: result.MinutiaeCount,
		})
	}
}

func generateFromURL(ctx context.Context, proc *processor.Processor, fetcher storage.ImageFetcher, cfg *config.Config, imageURL string) (*processor.GenerateResult, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Host == "" {
		return nil, apperrors.NewValidationError("image_url must be a valid absolute URL", err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.ImageFetchTimeout)
	defer cancel()

	img, err := fetcher.FetchImage(fetchCtx, imageURL)
	if err != nil {
		if fetchCtx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError("image fetch timed out", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}
	return proc.GenerateFromGray(imaging.ToGray(img))
}

// decodeBase64Image accepts plain base64 or a data: URL as produced by
// browser capture widgets
func decodeBase64Image(encoded string) ([]byte, error) {
	if strings.HasPrefix(encoded, "data:") {
		parts := strings.SplitN(encoded, ",", 2)
		if len(parts) != 2 {
			return nil, apperrors.NewValidationError("invalid data URL", nil)
		}
		encoded = parts[1]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewInvalidImageError("image is not valid base64", err)
	}
	return data, nil
}

// matchFingerprint runs 1:N identification against the candidate list
func matchFingerprint(engine *matching.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.MatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		candidates := make([]matching.Candidate, len(req.Candidates))
		for i, cand := range req.Candidates {
			candidates[i] = matching.Candidate{IdentityID: cand.IdentityID, Template: cand.Template}
		}

		result, err := engine.BestMatch(req.Template, candidates)
		if err != nil {
			respondError(c, err)
			return
		}
		if result == nil {
			c.JSON(http.StatusOK, models.MatchResponse{Matched: false})
			return
		}
		c.JSON(http.StatusOK, models.MatchResponse{
			Matched:    true,
			IdentityID: result.IdentityID,
			Confidence: result.Confidence,
		})
	}
}

// verifyPair runs 1:1 verification of two templates
func verifyPair(engine *matching.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		result, err := engine.VerifyPair(req.Template1, req.Template2)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.VerifyResponse{
			Success:    true,
			Match:      result.IsMatch,
			Confidence: result.Confidence,
			Threshold:  result.Threshold,
		})
	}
}

// verifyQuality reports whether a stored template clears the quality gate
func verifyQuality(proc *processor.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TemplateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		report, err := proc.ScoreQuality(req.Template)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

// extractFeatures returns summary statistics for a stored template
func extractFeatures(proc *processor.Processor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.TemplateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}

		features, err := proc.ExtractFeatures(req.Template)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "features": features})
	}
}

// Middleware

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"request_id":  c.GetString("request_id"),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%v", err),
	})
}
