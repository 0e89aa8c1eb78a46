package services

import (
	"testing"
	"time"
)

func TestContentDatasetsLoad(t *testing.T) {
	svc, err := NewContentService()
	if err != nil {
		t.Fatalf("Failed to load bundled datasets: %v", err)
	}
	if len(svc.Facts()) == 0 {
		t.Error("Expected bundled facts")
	}
	if len(svc.TimelineFor("default")) == 0 {
		t.Error("Expected default timeline events")
	}
}

func TestTimelineForDate(t *testing.T) {
	svc, err := NewContentService()
	if err != nil {
		t.Fatalf("Failed to load datasets: %v", err)
	}

	curated := svc.TimelineFor("2-1")
	found := false
	for _, e := range curated {
		if e.Title == "Greensboro Sit-ins Begin" {
			found = true
		}
	}
	if !found {
		t.Error("Expected curated events for 2-1")
	}

	fallback := svc.TimelineFor("7-33")
	if len(fallback) == 0 {
		t.Error("Expected default events for an unknown date")
	}
}

func TestDailyQuiz(t *testing.T) {
	svc, err := NewContentService()
	if err != nil {
		t.Fatalf("Failed to load datasets: %v", err)
	}

	day := time.Date(2026, 2, 8, 12, 0, 0, 0, time.UTC)
	first := svc.DailyQuiz(day)
	second := svc.DailyQuiz(day)

	if len(first) != dailyQuizSize {
		t.Fatalf("Expected %d questions, got %d", dailyQuizSize, len(first))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Error("Expected the same quiz for the same day")
			break
		}
	}

	seen := map[int]bool{}
	for _, q := range first {
		if seen[q.ID] {
			t.Errorf("Duplicate question %d in daily quiz", q.ID)
		}
		seen[q.ID] = true
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			t.Errorf("Question %d has out-of-range answer index", q.ID)
		}
	}
}

func TestFrontPageBundle(t *testing.T) {
	svc, err := NewContentService()
	if err != nil {
		t.Fatalf("Failed to load datasets: %v", err)
	}

	bundle := svc.FrontPage()
	if len(bundle.Facts) == 0 || len(bundle.Facts) > 5 {
		t.Errorf("Expected 1-5 front page facts, got %d", len(bundle.Facts))
	}
	if len(bundle.Quiz) == 0 || len(bundle.Quiz) > 5 {
		t.Errorf("Expected 1-5 front page quiz questions, got %d", len(bundle.Quiz))
	}
	if len(bundle.Timeline) == 0 {
		t.Error("Expected default timeline on the front page")
	}
}
