package handlers

import (
	"fmt"
	"net/http"
	"time"

	"chronicle-backend/internal/services"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Get serves the curated datasets: facts, the "On This Day" timeline, or
// the daily quiz. Any other type, including none, returns the front page
// bundle.
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("type") {
	case "facts":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"facts": h.contentService.Facts(),
		})
	case "timeline":
		date := r.URL.Query().Get("date")
		if date == "" {
			now := time.Now()
			date = fmt.Sprintf("%d-%d", int(now.Month()), now.Day())
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"date":   date,
			"events": h.contentService.TimelineFor(date),
		})
	case "quiz":
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"questions": h.contentService.DailyQuiz(time.Now()),
		})
	default:
		writeJSON(w, http.StatusOK, h.contentService.FrontPage())
	}
}
