package studynet

import (
	"time"
)

// Question is a multiple-choice question. Options maps a small stable key
// set ("A".."D") to the option text; CorrectAnswer holds the winning key.
type Question struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

// Quiz derives from a summary; at most one quiz exists per summary.
type Quiz struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	Timestamp time.Time  `json:"timestamp"`

	SummaryID int `json:"summaryID"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CorrectAnswers returns the correct-answer key per question, in order.
func (q Quiz) CorrectAnswers() []string {
	answers := make([]string, len(q.Questions))
	for i, question := range q.Questions {
		answers[i] = question.CorrectAnswer
	}
	return answers
}

type QuizRepository interface {
	Get(int) (Quiz, error)
	// GetBySummary returns the zero Quiz when the summary has none.
	GetBySummary(int) (Quiz, error)
	Upsert(*Quiz) error
	Delete(int) error
}

// QuizAttempt is a user's single graded submission against a quiz. One
// attempt per (quiz, user); there are no retries.
type QuizAttempt struct {
	ID     int `json:"id"`
	QuizID int `json:"quizID"`
	UserID int `json:"userID"`

	Answers        []string `json:"answers"`
	Score          int      `json:"score"`
	TotalQuestions int      `json:"totalQuestions"`
	Percentage     int      `json:"percentage"`

	CompletedAt time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AttemptRepository interface {
	Get(int) (QuizAttempt, error)
	GetForQuiz(int) ([]QuizAttempt, error)
	GetForUser(int) ([]QuizAttempt, error)
	// GetUserAttempt returns the zero QuizAttempt when the user has not
	// attempted the quiz.
	GetUserAttempt(quizID, userID int) (QuizAttempt, error)
	Upsert(*QuizAttempt) error
	Delete(int) error
	DeleteForQuiz(int) error
}
