package services

import (
	"context"
	"time"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/aigen"
	"github.com/studynet/studynet/errors"
)

const defaultQuestionCount = 4

type QuizService struct {
	quizzes     studynet.QuizRepository
	attempts    studynet.AttemptRepository
	summaries   studynet.SummaryRepository
	collections studynet.CollectionRepository
	generator   aigen.Generator

	policy Policy
}

func NewQuizService(
	quizzes studynet.QuizRepository,
	attempts studynet.AttemptRepository,
	summaries studynet.SummaryRepository,
	collections studynet.CollectionRepository,
	generator aigen.Generator,
) *QuizService {
	return &QuizService{
		quizzes:     quizzes,
		attempts:    attempts,
		summaries:   summaries,
		collections: collections,
		generator:   generator,
	}
}

func (s *QuizService) Get(caller studynet.User, id int) (studynet.Quiz, error) {
	quiz, err := s.quizzes.Get(id)
	if err != nil {
		return studynet.Quiz{}, err
	} else if quiz.ID == 0 {
		return studynet.Quiz{}, errQuizNotFound(id)
	}

	if err := s.checkAccess(caller, quiz.SummaryID); err != nil {
		return studynet.Quiz{}, err
	}
	return quiz, nil
}

func (s *QuizService) GetBySummary(caller studynet.User, summaryID int) (studynet.Quiz, error) {
	if err := s.checkAccess(caller, summaryID); err != nil {
		return studynet.Quiz{}, err
	}

	quiz, err := s.quizzes.GetBySummary(summaryID)
	if err != nil {
		return studynet.Quiz{}, err
	} else if quiz.ID == 0 {
		return studynet.Quiz{}, errors.New("no quiz exists for this summary", errors.NotFound())
	}
	return quiz, nil
}

// Create builds a quiz for the summary. A summary carries at most one
// quiz; creating another while one exists is rejected. Questions can be
// provided directly; when omitted they come from the generation adapter.
func (s *QuizService) Create(ctx context.Context, caller studynet.User, summaryID int, title string, questions []studynet.Question, questionCount int) (studynet.Quiz, error) {
	summary, err := s.summaries.Get(summaryID)
	if err != nil {
		return studynet.Quiz{}, err
	} else if summary.ID == 0 {
		return studynet.Quiz{}, errSummaryNotFound(summaryID)
	}

	if err := s.checkCollectionAccess(caller, summary.CollectionID); err != nil {
		return studynet.Quiz{}, err
	}

	existing, err := s.quizzes.GetBySummary(summaryID)
	if err != nil {
		return studynet.Quiz{}, err
	}
	if existing.ID != 0 {
		return studynet.Quiz{}, errors.New("a quiz already exists for this summary", errors.BadRequest())
	}

	if len(questions) == 0 {
		if questionCount <= 0 {
			questionCount = defaultQuestionCount
		}

		generated, err := s.generator.Quizify(ctx, summary.Content, questionCount)
		if err != nil {
			return studynet.Quiz{}, err
		}
		questions = generated.Questions
		if title == "" {
			title = generated.Title
		}
	}

	quiz := studynet.Quiz{
		Title:     title,
		Questions: questions,
		Timestamp: time.Now(),
		SummaryID: summaryID,
	}
	if err := s.quizzes.Upsert(&quiz); err != nil {
		return studynet.Quiz{}, err
	}
	return quiz, nil
}

type QuizPatch struct {
	Title     *string             `json:"title"`
	Questions []studynet.Question `json:"questions"`
	SummaryID *int                `json:"summary_id"`
}

// Update replaces quiz fields in place, including the summary linkage.
// None of the creation checks run again.
func (s *QuizService) Update(caller studynet.User, id int, patch QuizPatch) (studynet.Quiz, error) {
	quiz, err := s.Get(caller, id)
	if err != nil {
		return studynet.Quiz{}, err
	}

	if patch.Title != nil {
		quiz.Title = *patch.Title
	}
	if patch.Questions != nil {
		quiz.Questions = patch.Questions
	}
	if patch.SummaryID != nil {
		quiz.SummaryID = *patch.SummaryID
	}

	if err := s.quizzes.Upsert(&quiz); err != nil {
		return studynet.Quiz{}, err
	}
	return quiz, nil
}

// Regenerate replaces the quiz's questions from its summary. Previous
// attempts graded against the old questions are dropped.
func (s *QuizService) Regenerate(ctx context.Context, caller studynet.User, id int) (studynet.Quiz, error) {
	quiz, err := s.Get(caller, id)
	if err != nil {
		return studynet.Quiz{}, err
	}

	summary, err := s.summaries.Get(quiz.SummaryID)
	if err != nil {
		return studynet.Quiz{}, err
	} else if summary.ID == 0 {
		return studynet.Quiz{}, errSummaryNotFound(quiz.SummaryID)
	}

	generated, err := s.generator.Quizify(ctx, summary.Content, len(quiz.Questions))
	if err != nil {
		return studynet.Quiz{}, err
	}

	quiz.Title = generated.Title
	quiz.Questions = generated.Questions
	quiz.Timestamp = time.Now()

	if err := s.attempts.DeleteForQuiz(quiz.ID); err != nil {
		return studynet.Quiz{}, err
	}
	if err := s.quizzes.Upsert(&quiz); err != nil {
		return studynet.Quiz{}, err
	}
	return quiz, nil
}

// ListAccessible returns every quiz the caller can reach through their
// collections.
func (s *QuizService) ListAccessible(caller studynet.User) ([]studynet.Quiz, error) {
	collections, err := s.collections.GetForUser(caller.ID)
	if err != nil {
		return nil, err
	}

	quizzes := []studynet.Quiz{}
	for _, collection := range collections {
		summaries, err := s.summaries.GetForCollection(collection.ID)
		if err != nil {
			return nil, err
		}
		for _, summary := range summaries {
			quiz, err := s.quizzes.GetBySummary(summary.ID)
			if err != nil {
				return nil, err
			}
			if quiz.ID != 0 {
				quizzes = append(quizzes, quiz)
			}
		}
	}
	return quizzes, nil
}

// Delete removes the quiz and all attempts recorded against it.
func (s *QuizService) Delete(caller studynet.User, id int) error {
	if _, err := s.Get(caller, id); err != nil {
		return err
	}

	if err := s.attempts.DeleteForQuiz(id); err != nil {
		return err
	}
	return s.quizzes.Delete(id)
}

func (s *QuizService) checkAccess(caller studynet.User, summaryID int) error {
	summary, err := s.summaries.Get(summaryID)
	if err != nil {
		return err
	} else if summary.ID == 0 {
		return errSummaryNotFound(summaryID)
	}
	return s.checkCollectionAccess(caller, summary.CollectionID)
}

func (s *QuizService) checkCollectionAccess(caller studynet.User, collectionID int) error {
	collection, err := s.collections.Get(collectionID)
	if err != nil {
		return err
	} else if collection.ID == 0 {
		return errCollectionNotFound(collectionID)
	}

	if !s.policy.CanAccessCollection(caller, collection) {
		return errNoAccess()
	}
	return nil
}
