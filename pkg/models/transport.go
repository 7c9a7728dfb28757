// Package models holds the request and response shapes of the fingerprint
// HTTP API, shared between the transport layer and clients.
package models

// CaptureRequest carries a captured fingerprint image, either inlined as
// base64 bytes or referenced by URL
type CaptureRequest struct {
	Image    string `json:"image,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// CaptureResponse returns the generated template with its quality metadata
type CaptureResponse struct {
	Success       bool    `json:"success"`
	Template      string  `json:"template"`
	Quality       float64 `json:"quality"`
	MinutiaeCount int     `json:"minutiae_count"`
}

// CandidateRef pairs an identity with its stored template for 1:N matching
type CandidateRef struct {
	IdentityID string `json:"identity_id" binding:"required"`
	Template   string `json:"template" binding:"required"`
}

// MatchRequest asks for the best match of a probe template against a
// candidate list
type MatchRequest struct {
	Template   string         `json:"template" binding:"required"`
	Candidates []CandidateRef `json:"candidates" binding:"required"`
}

// MatchResponse reports the winning candidate, if any cleared the threshold
type MatchResponse struct {
	Matched    bool    `json:"matched"`
	IdentityID string  `json:"identity_id,omitempty"`
	Confidence float64 `json:"confidence"`
}

// VerifyRequest asks whether two templates belong to the same finger
type VerifyRequest struct {
	Template1 string `json:"template1" binding:"required"`
	Template2 string `json:"template2" binding:"required"`
}

// VerifyResponse reports a 1:1 verification outcome
type VerifyResponse struct {
	Success    bool    `json:"success"`
	Match      bool    `json:"match"`
	Confidence float64 `json:"confidence"`
	Threshold  float64 `json:"threshold"`
}

// TemplateRequest wraps a single encoded template for quality or feature
// queries
type TemplateRequest struct {
	Template string `json:"template" binding:"required"`
}

// ErrorResponse is the uniform error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
