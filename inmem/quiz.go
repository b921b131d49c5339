package inmem

import (
	"sort"
	"sync"
	"time"

	"github.com/studynet/studynet"
)

type QuizRepository struct {
	mu      sync.Mutex
	quizzes map[int]studynet.Quiz
	maxID   int
}

func NewQuizRepository() *QuizRepository {
	return &QuizRepository{
		quizzes: make(map[int]studynet.Quiz),
	}
}

func (r *QuizRepository) Get(id int) (studynet.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.quizzes[id], nil
}

func (r *QuizRepository) GetBySummary(summaryID int) (studynet.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range r.quizzes {
		if q.SummaryID == summaryID {
			return q, nil
		}
	}
	return studynet.Quiz{}, nil
}

func (r *QuizRepository) Upsert(quiz *studynet.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if quiz.ID == 0 {
		r.maxID++
		quiz.ID = r.maxID
		quiz.CreatedAt = time.Now()
	} else if quiz.ID > r.maxID {
		r.maxID = quiz.ID
	}
	quiz.UpdatedAt = time.Now()

	r.quizzes[quiz.ID] = *quiz
	return nil
}

func (r *QuizRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.quizzes, id)
	return nil
}

type AttemptRepository struct {
	mu       sync.Mutex
	attempts map[int]studynet.QuizAttempt
	maxID    int
}

func NewAttemptRepository() *AttemptRepository {
	return &AttemptRepository{
		attempts: make(map[int]studynet.QuizAttempt),
	}
}

func (r *AttemptRepository) Get(id int) (studynet.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.attempts[id], nil
}

func (r *AttemptRepository) GetForQuiz(quizID int) ([]studynet.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempts := make([]studynet.QuizAttempt, 0)
	for _, a := range r.attempts {
		if a.QuizID == quizID {
			attempts = append(attempts, a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (r *AttemptRepository) GetForUser(userID int) ([]studynet.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	attempts := make([]studynet.QuizAttempt, 0)
	for _, a := range r.attempts {
		if a.UserID == userID {
			attempts = append(attempts, a)
		}
	}
	sort.Slice(attempts, func(i, j int) bool { return attempts[i].ID < attempts[j].ID })
	return attempts, nil
}

func (r *AttemptRepository) GetUserAttempt(quizID, userID int) (studynet.QuizAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.attempts {
		if a.QuizID == quizID && a.UserID == userID {
			return a, nil
		}
	}
	return studynet.QuizAttempt{}, nil
}

func (r *AttemptRepository) Upsert(attempt *studynet.QuizAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if attempt.ID == 0 {
		r.maxID++
		attempt.ID = r.maxID
		attempt.CreatedAt = time.Now()
	} else if attempt.ID > r.maxID {
		r.maxID = attempt.ID
	}
	attempt.UpdatedAt = time.Now()

	r.attempts[attempt.ID] = *attempt
	return nil
}

func (r *AttemptRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attempts, id)
	return nil
}

func (r *AttemptRepository) DeleteForQuiz(quizID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.attempts {
		if a.QuizID == quizID {
			delete(r.attempts, id)
		}
	}
	return nil
}
