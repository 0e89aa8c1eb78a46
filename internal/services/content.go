package services

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"chronicle-backend/internal/models"
)

//go:embed data/facts.json data/timeline.json data/quiz.json
var contentFS embed.FS

const dailyQuizSize = 5

// ContentService serves the curated static datasets: fact cards, the
// "On This Day" timeline, and the daily quiz. Everything is bundled at
// build time; nothing is persisted or mutated.
type ContentService struct {
	facts    []models.Fact
	timeline map[string][]models.TimelineEvent
	quiz     []models.QuizQuestion
}

func NewContentService() (*ContentService, error) {
	s := &ContentService{}

	var facts struct {
		Facts []models.Fact `json:"facts"`
	}
	if err := loadDataset("data/facts.json", &facts); err != nil {
		return nil, err
	}
	s.facts = facts.Facts

	var timeline struct {
		Events map[string][]models.TimelineEvent `json:"events"`
	}
	if err := loadDataset("data/timeline.json", &timeline); err != nil {
		return nil, err
	}
	s.timeline = timeline.Events

	var quiz struct {
		Questions []models.QuizQuestion `json:"questions"`
	}
	if err := loadDataset("data/quiz.json", &quiz); err != nil {
		return nil, err
	}
	s.quiz = quiz.Questions

	if _, ok := s.timeline["default"]; !ok {
		return nil, fmt.Errorf("timeline dataset missing default events")
	}
	return s, nil
}

func loadDataset(name string, v any) error {
	data, err := contentFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (s *ContentService) Facts() []models.Fact {
	return s.facts
}

// TimelineFor returns the events for a "M-D" date key, or the default set
// when the date has no curated entries.
func (s *ContentService) TimelineFor(date string) []models.TimelineEvent {
	if events, ok := s.timeline[date]; ok && len(events) > 0 {
		return events
	}
	return s.timeline["default"]
}

// DailyQuiz picks five questions with an ordering that is stable for a
// given day: every visitor sees the same quiz, and it rotates overnight.
func (s *ContentService) DailyQuiz(now time.Time) []models.QuizQuestion {
	seed := now.Year()*10000 + int(now.Month())*100 + now.Day()

	shuffled := make([]models.QuizQuestion, len(s.quiz))
	copy(shuffled, s.quiz)
	sort.SliceStable(shuffled, func(i, j int) bool {
		return (shuffled[i].ID*seed)%100 < (shuffled[j].ID*seed)%100
	})

	if len(shuffled) > dailyQuizSize {
		shuffled = shuffled[:dailyQuizSize]
	}
	return shuffled
}

// FrontPage is the default bundle when no content type is requested.
func (s *ContentService) FrontPage() models.ContentBundle {
	facts := s.facts
	if len(facts) > 5 {
		facts = facts[:5]
	}
	quiz := s.quiz
	if len(quiz) > 5 {
		quiz = quiz[:5]
	}
	return models.ContentBundle{
		Facts:    facts,
		Timeline: s.timeline["default"],
		Quiz:     quiz,
	}
}
