package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"chronicle-backend/internal/fallback"
	"chronicle-backend/internal/models"
	"chronicle-backend/internal/services"
)

// maxImageBase64 caps the base64 payload length, matching the frontend's
// canvas downscaling budget.
const maxImageBase64 = 4 << 20

var errImageTooLarge = errors.New("image payload too large")

// Returned alongside a regenerated image so the client can tell it apart
// from a true edit of the original photo.
const regenerationNote = "Used generation fallback - edit endpoint not available"

type ImageHandler struct {
	imageService *services.ImageService
	configured   bool
}

// NewImageHandler wires the transform chain. configured reports whether the
// xAI credential was present at startup; without it the endpoint fails fast.
func NewImageHandler(imageService *services.ImageService, configured bool) *ImageHandler {
	return &ImageHandler{imageService: imageService, configured: configured}
}

// Transform applies the persona skin-tone edit to an uploaded portrait.
// Recoverable provider exhaustion is reported as 200 {success:false} so the
// frontend can fall back to the original photo; only timeouts and transport
// failures surface as 5xx.
func (h *ImageHandler) Transform(w http.ResponseWriter, r *http.Request) {
	var req models.ImageTransformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ImageTransformError{Error: "Invalid request body"})
		return
	}

	if req.Image == "" {
		writeJSON(w, http.StatusBadRequest, models.ImageTransformError{Error: "No image provided"})
		return
	}

	if !h.configured {
		writeJSON(w, http.StatusInternalServerError, models.ImageTransformError{Error: "xAI API key not configured"})
		return
	}

	img, err := decodeImageDataURL(req.Image)
	if err != nil {
		if errors.Is(err, errImageTooLarge) {
			writeJSON(w, http.StatusBadRequest, models.ImageTransformError{Error: "Image too large. Please use an image under 4MB."})
			return
		}
		writeJSON(w, http.StatusBadRequest, models.ImageTransformError{Error: "Invalid image format. Expected a base64 data URL."})
		return
	}

	result, err := h.imageService.Transform(r.Context(), img)
	if err != nil {
		var exhausted *fallback.ExhaustedError
		if errors.As(err, &exhausted) {
			last := exhausted.Last()
			switch {
			case fallback.IsTimeout(last):
				writeJSON(w, http.StatusGatewayTimeout, models.ImageTransformError{Error: "Image transformation timed out. Please try a smaller image."})
				return
			case fallback.IsTransport(last):
				writeJSON(w, http.StatusServiceUnavailable, models.ImageTransformError{Error: "Image service is temporarily unavailable. Please try again."})
				return
			}
		}
		writeJSON(w, http.StatusOK, models.ImageTransformResult{Success: false, Error: err.Error()})
		return
	}

	resp := models.ImageTransformResult{
		Success:          true,
		TransformedImage: string(result.Image),
	}
	if result.Regenerated {
		resp.Note = regenerationNote
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeImageDataURL parses a "data:image/<type>;base64,<payload>" URL. The
// size check runs on the base64 text before decoding.
func decodeImageDataURL(s string) (models.DecodedImage, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return models.DecodedImage{}, fmt.Errorf("missing data URL prefix")
	}

	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return models.DecodedImage{}, fmt.Errorf("missing data URL payload")
	}

	mimeType, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return models.DecodedImage{}, fmt.Errorf("expected base64 encoding")
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return models.DecodedImage{}, fmt.Errorf("unsupported media type %q", mimeType)
	}

	if len(payload) > maxImageBase64 {
		return models.DecodedImage{}, errImageTooLarge
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return models.DecodedImage{}, fmt.Errorf("decode base64: %w", err)
	}

	return models.DecodedImage{MIMEType: mimeType, Data: data}, nil
}
