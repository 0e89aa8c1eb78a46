package models

import (
	"encoding/base64"
	"strings"
)

// ImageReference is a provider-agnostic handle to a generated image:
// either a remote URL or an inline base64 data URL.
type ImageReference string

// InlinePNG wraps raw base64 PNG bytes into a data-URL reference.
func InlinePNG(b64 string) ImageReference {
	return ImageReference("data:image/png;base64," + b64)
}

// Inline reports whether the reference carries the image bytes inline.
func (r ImageReference) Inline() bool {
	return strings.HasPrefix(string(r), "data:")
}

// DecodedImage is an uploaded image after data-URL parsing.
type DecodedImage struct {
	MIMEType string
	Data     []byte
}

// Extension returns the file extension implied by the MIME type.
func (d DecodedImage) Extension() string {
	if i := strings.IndexByte(d.MIMEType, '/'); i >= 0 && i+1 < len(d.MIMEType) {
		return d.MIMEType[i+1:]
	}
	return "png"
}

// DataURL re-encodes the image as a base64 data URL.
func (d DecodedImage) DataURL() string {
	return "data:" + d.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// ImageTransformRequest is the payload sent to the image transform endpoint.
type ImageTransformRequest struct {
	Image string `json:"image"` // base64 data URL
}

// ImageTransformResult is the application-level outcome of a transform.
// Recoverable failures are reported with Success=false and HTTP 200.
type ImageTransformResult struct {
	Success          bool   `json:"success"`
	TransformedImage string `json:"transformedImage,omitempty"`
	Note             string `json:"note,omitempty"`
	Error            string `json:"error,omitempty"`
}

// ImageTransformError is the flat error body used for hard failures
// (validation, configuration, timeout, network).
type ImageTransformError struct {
	Error string `json:"error"`
}
