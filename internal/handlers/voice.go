package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"chronicle-backend/internal/models"
	"chronicle-backend/internal/services"
)

type VoiceHandler struct {
	voiceService *services.VoiceService
	configured   bool
}

func NewVoiceHandler(voiceService *services.VoiceService, configured bool) *VoiceHandler {
	return &VoiceHandler{voiceService: voiceService, configured: configured}
}

// Speak synthesizes persona text into audio. The response mirrors the shape
// the frontend audio player expects.
func (h *VoiceHandler) Speak(w http.ResponseWriter, r *http.Request) {
	var req models.VoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.VoiceError{Error: "Invalid request body"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, models.VoiceError{Error: "No text provided"})
		return
	}

	if !h.configured {
		writeJSON(w, http.StatusInternalServerError, models.VoiceError{Error: "ElevenLabs API key not configured"})
		return
	}

	audioURL, err := h.voiceService.Speak(r.Context(), req.Text, req.VoiceID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.VoiceError{Error: "Failed to generate speech: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, models.VoiceResponse{
		Status:   "success",
		Output:   []string{audioURL},
		AudioURL: audioURL,
	})
}
