package models

import "time"

type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	Company   *string   `json:"company"`
	Field     *string   `json:"field"`
	Likes     int       `json:"likes"`
	Comments  int       `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

type PostView struct {
	Post
	Author UserSummary `json:"author"`
}

type PostFilter struct {
	Company string
	Field   string
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type InterviewGuide struct {
	ID         string     `json:"id"`
	AuthorID   string     `json:"authorId"`
	Company    string     `json:"company"`
	Role       string     `json:"role"`
	Experience string     `json:"experience"`
	Questions  []string   `json:"questions"`
	Tips       *string    `json:"tips"`
	Difficulty Difficulty `json:"difficulty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

type InterviewGuideView struct {
	InterviewGuide
	Author UserSummary `json:"author"`
}

type AssessmentQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correctAnswer" yaml:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty" yaml:"explanation"`
}

type Assessment struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Description    string               `json:"description"`
	Category       string               `json:"category"`
	Questions      []AssessmentQuestion `json:"questions"`
	TimeLimit      int                  `json:"timeLimit"`
	TotalQuestions int                  `json:"totalQuestions"`
	CreatedAt      time.Time            `json:"createdAt"`
}

// Score counts answers matching the correct option index, position by position.
func (a Assessment) Score(answers []int) int {
	score := 0
	for i, q := range a.Questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			score++
		}
	}
	return score
}

type AssessmentResult struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	AssessmentID   string    `json:"assessmentId"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	TimeSpent      int       `json:"timeSpent"`
	Answers        []int     `json:"answers"`
	CreatedAt      time.Time `json:"createdAt"`
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Images      []string  `json:"images"`
	ChiefGuest  *string   `json:"chiefGuest"`
	OrganizerID string    `json:"organizerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

type EventView struct {
	Event
	Organizer UserSummary `json:"organizer"`
}
