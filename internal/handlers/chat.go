package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"chronicle-backend/internal/models"
	"chronicle-backend/internal/services"
)

type ChatHandler struct {
	chatService *services.ChatService
}

func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat answers a persona question. The endpoint always responds 200 with a
// displayable message; only a missing or blank message is a client error.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Message is required", r))
		return
	}

	reply := h.chatService.Respond(r.Context(), req)
	writeJSON(w, http.StatusOK, models.ChatResponse{Response: reply})
}
