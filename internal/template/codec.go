package template

import (
	"encoding/base64"
	"encoding/json"

	apperrors "go-fingerprint-service/internal/errors"
	"go-fingerprint-service/internal/minutiae"
)

// Encode serializes a template to compact JSON and wraps it in standard
// base64, producing the opaque transport-safe string
func Encode(t *Template) (string, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return "", apperrors.NewInternalError("failed to serialize template", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// templateWire distinguishes absent fields from zero values during decode.
// version and minutiae are required; the rest default.
type templateWire struct {
	Version       *string             `json:"version"`
	Quality       *float64            `json:"quality"`
	ImageShape    []int               `json:"image_shape"`
	Minutiae      *[]minutiae.Minutia `json:"minutiae"`
	MinutiaeCount *int                `json:"minutiae_count"`
}

// Decode reverses Encode, validating untrusted input defensively. It returns
// a malformed_template error for anything that is not validly encoded or not
// a well-formed record, and unsupported_version for unknown versions.
// Unknown extra fields are ignored for forward compatibility, and the
// minutiae count soft invariant is deliberately not enforced here so
// out-of-range templates stay inspectable.
func Decode(encoded string) (*Template, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, apperrors.NewMalformedTemplateError("template is not valid base64", err)
	}

	var wire templateWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, apperrors.NewMalformedTemplateError("template is not a well-formed record", err)
	}

	if wire.Version == nil || *wire.Version == "" {
		return nil, apperrors.NewMalformedTemplateError("template is missing required field: version", nil)
	}
	if wire.Minutiae == nil {
		return nil, apperrors.NewMalformedTemplateError("template is missing required field: minutiae", nil)
	}
	if !supportedVersions[*wire.Version] {
		return nil, apperrors.NewUnsupportedVersionError("unsupported template version: " + *wire.Version)
	}

	t := &Template{
		Version:  *wire.Version,
		Minutiae: *wire.Minutiae,
	}
	if wire.Quality != nil {
		t.Quality = *wire.Quality
	}
	if len(wire.ImageShape) >= 2 {
		t.ImageShape = [2]int{wire.ImageShape[0], wire.ImageShape[1]}
	}
	if wire.MinutiaeCount != nil {
		t.MinutiaeCount = *wire.MinutiaeCount
	} else {
		t.MinutiaeCount = len(t.Minutiae)
	}
	return t, nil
}
