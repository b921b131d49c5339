package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
)

type AttemptService struct {
	attempts    studynet.AttemptRepository
	quizzes     studynet.QuizRepository
	summaries   studynet.SummaryRepository
	collections studynet.CollectionRepository
	users       studynet.UserRepository

	policy Policy
}

func NewAttemptService(
	attempts studynet.AttemptRepository,
	quizzes studynet.QuizRepository,
	summaries studynet.SummaryRepository,
	collections studynet.CollectionRepository,
	users studynet.UserRepository,
) *AttemptService {
	return &AttemptService{
		attempts:    attempts,
		quizzes:     quizzes,
		summaries:   summaries,
		collections: collections,
		users:       users,
	}
}

// Submit grades the caller's answers against the quiz. A user gets a
// single attempt per quiz; submitting again is rejected.
func (s *AttemptService) Submit(caller studynet.User, quizID int, answers []string) (studynet.QuizAttempt, error) {
	quiz, err := s.getQuiz(caller, quizID)
	if err != nil {
		return studynet.QuizAttempt{}, err
	}

	previous, err := s.attempts.GetUserAttempt(quizID, caller.ID)
	if err != nil {
		return studynet.QuizAttempt{}, err
	}
	if previous.ID != 0 {
		return studynet.QuizAttempt{}, errors.New("you have already attempted this quiz", errors.BadRequest())
	}

	if len(answers) != len(quiz.Questions) {
		return studynet.QuizAttempt{}, errors.New(
			fmt.Sprintf("expected %d answers, got %d", len(quiz.Questions), len(answers)),
			errors.BadRequest(),
		)
	}

	score := 0
	for i, question := range quiz.Questions {
		if answers[i] == question.CorrectAnswer {
			score++
		}
	}

	total := len(quiz.Questions)
	percentage := 0
	if total > 0 {
		percentage = score * 100 / total
	}

	attempt := studynet.QuizAttempt{
		QuizID:         quizID,
		UserID:         caller.ID,
		Answers:        answers,
		Score:          score,
		TotalQuestions: total,
		Percentage:     percentage,
		CompletedAt:    time.Now(),
	}
	if err := s.attempts.Upsert(&attempt); err != nil {
		return studynet.QuizAttempt{}, err
	}
	return attempt, nil
}

func (s *AttemptService) Get(caller studynet.User, id int) (studynet.QuizAttempt, error) {
	attempt, err := s.attempts.Get(id)
	if err != nil {
		return studynet.QuizAttempt{}, err
	} else if attempt.ID == 0 {
		return studynet.QuizAttempt{}, errAttemptNotFound(id)
	}

	if _, err := s.getQuiz(caller, attempt.QuizID); err != nil {
		return studynet.QuizAttempt{}, err
	}
	return attempt, nil
}

func (s *AttemptService) ListForUser(caller studynet.User) ([]studynet.QuizAttempt, error) {
	return s.attempts.GetForUser(caller.ID)
}

// ListForQuiz returns every attempt on the quiz, newest submission state
// as stored. Anyone with access to the quiz's collection can read them.
func (s *AttemptService) ListForQuiz(caller studynet.User, quizID int) ([]studynet.QuizAttempt, error) {
	if _, err := s.getQuiz(caller, quizID); err != nil {
		return nil, err
	}
	return s.attempts.GetForQuiz(quizID)
}

// MyAttempt returns the caller's attempt on the quiz, or a zero attempt
// when they have not taken it yet.
func (s *AttemptService) MyAttempt(caller studynet.User, quizID int) (studynet.QuizAttempt, error) {
	if _, err := s.getQuiz(caller, quizID); err != nil {
		return studynet.QuizAttempt{}, err
	}
	return s.attempts.GetUserAttempt(quizID, caller.ID)
}

// LeaderboardEntry is one ranked row of a quiz leaderboard.
type LeaderboardEntry struct {
	Rank        int       `json:"rank"`
	UserID      int       `json:"user_id"`
	Username    string    `json:"username"`
	Score       int       `json:"score"`
	Percentage  int       `json:"percentage"`
	CompletedAt time.Time `json:"completed_at"`
}

// Leaderboard ranks all attempts on the quiz by percentage, best first.
// Ties go to whoever finished earlier.
func (s *AttemptService) Leaderboard(caller studynet.User, quizID int) ([]LeaderboardEntry, error) {
	if _, err := s.getQuiz(caller, quizID); err != nil {
		return nil, err
	}

	attempts, err := s.attempts.GetForQuiz(quizID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		if attempts[i].Percentage != attempts[j].Percentage {
			return attempts[i].Percentage > attempts[j].Percentage
		}
		return attempts[i].CompletedAt.Before(attempts[j].CompletedAt)
	})

	entries := make([]LeaderboardEntry, 0, len(attempts))
	for i, attempt := range attempts {
		username := ""
		user, err := s.users.Get(attempt.UserID)
		if err != nil {
			return nil, err
		} else if user.ID != 0 {
			username = user.Username
		}

		entries = append(entries, LeaderboardEntry{
			Rank:        i + 1,
			UserID:      attempt.UserID,
			Username:    username,
			Score:       attempt.Score,
			Percentage:  attempt.Percentage,
			CompletedAt: attempt.CompletedAt,
		})
	}
	return entries, nil
}

// AttemptReview pairs an attempt with the graded detail of each question.
type AttemptReview struct {
	Attempt            studynet.QuizAttempt `json:"attempt"`
	UserAnswersText    []string             `json:"user_answers_text"`
	CorrectAnswersText []string             `json:"correct_answers_text"`
	IncorrectIndices   []int                `json:"incorrect_indices"`
	WrongQuestions     []studynet.Question  `json:"wrong_questions"`
}

// Review expands the caller's attempt into per-question detail: the text of
// what they picked, the text of each correct option, and which questions
// they missed. The attempt's author can always read it, even after losing
// access to the collection; everyone else needs collection access.
func (s *AttemptService) Review(caller studynet.User, attemptID int) (AttemptReview, error) {
	attempt, err := s.attempts.Get(attemptID)
	if err != nil {
		return AttemptReview{}, err
	} else if attempt.ID == 0 {
		return AttemptReview{}, errAttemptNotFound(attemptID)
	}

	if attempt.UserID != caller.ID {
		if _, err := s.getQuiz(caller, attempt.QuizID); err != nil {
			return AttemptReview{}, err
		}
	}

	quiz, err := s.quizzes.Get(attempt.QuizID)
	if err != nil {
		return AttemptReview{}, err
	} else if quiz.ID == 0 {
		return AttemptReview{}, errQuizNotFound(attempt.QuizID)
	}

	review := AttemptReview{
		Attempt:            attempt,
		UserAnswersText:    make([]string, 0, len(quiz.Questions)),
		CorrectAnswersText: make([]string, 0, len(quiz.Questions)),
		IncorrectIndices:   []int{},
		WrongQuestions:     []studynet.Question{},
	}

	for i, question := range quiz.Questions {
		answer := ""
		if i < len(attempt.Answers) {
			answer = attempt.Answers[i]
		}

		review.UserAnswersText = append(review.UserAnswersText, question.Options[answer])
		review.CorrectAnswersText = append(review.CorrectAnswersText, question.Options[question.CorrectAnswer])

		if answer != question.CorrectAnswer {
			review.IncorrectIndices = append(review.IncorrectIndices, i)
			review.WrongQuestions = append(review.WrongQuestions, question)
		}
	}
	return review, nil
}

func (s *AttemptService) getQuiz(caller studynet.User, quizID int) (studynet.Quiz, error) {
	quiz, err := s.quizzes.Get(quizID)
	if err != nil {
		return studynet.Quiz{}, err
	} else if quiz.ID == 0 {
		return studynet.Quiz{}, errQuizNotFound(quizID)
	}

	summary, err := s.summaries.Get(quiz.SummaryID)
	if err != nil {
		return studynet.Quiz{}, err
	} else if summary.ID == 0 {
		return studynet.Quiz{}, errSummaryNotFound(quiz.SummaryID)
	}

	collection, err := s.collections.Get(summary.CollectionID)
	if err != nil {
		return studynet.Quiz{}, err
	} else if collection.ID == 0 {
		return studynet.Quiz{}, errCollectionNotFound(summary.CollectionID)
	}

	if !s.policy.CanAccessCollection(caller, collection) {
		return studynet.Quiz{}, errNoAccess()
	}
	return quiz, nil
}
