package models

// Fact is a single "Did you know" card.
type Fact struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Fact     string `json:"fact"`
	Source   string `json:"source,omitempty"`
	Year     int    `json:"year,omitempty"`
}

// TimelineEvent is one entry in the "On This Day" timeline.
type TimelineEvent struct {
	Year        int    `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty"`
}

// QuizQuestion is a single daily-quiz question.
type QuizQuestion struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	Difficulty    string   `json:"difficulty"`
}

// ContentBundle is the default content payload when no type is requested.
type ContentBundle struct {
	Facts    []Fact          `json:"facts"`
	Timeline []TimelineEvent `json:"timeline"`
	Quiz     []QuizQuestion  `json:"quiz"`
}
