package services

import (
	"context"
	"time"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/aigen"
	"github.com/studynet/studynet/errors"
)

type SummaryService struct {
	summaries   studynet.SummaryRepository
	collections studynet.CollectionRepository
	highlights  studynet.HighlightRepository
	quizzes     studynet.QuizRepository
	attempts    studynet.AttemptRepository
	generator   aigen.Generator

	policy Policy
}

func NewSummaryService(
	summaries studynet.SummaryRepository,
	collections studynet.CollectionRepository,
	highlights studynet.HighlightRepository,
	quizzes studynet.QuizRepository,
	attempts studynet.AttemptRepository,
	generator aigen.Generator,
) *SummaryService {
	return &SummaryService{
		summaries:   summaries,
		collections: collections,
		highlights:  highlights,
		quizzes:     quizzes,
		attempts:    attempts,
		generator:   generator,
	}
}

func (s *SummaryService) Get(caller studynet.User, id int) (studynet.Summary, error) {
	summary, err := s.summaries.Get(id)
	if err != nil {
		return studynet.Summary{}, err
	} else if summary.ID == 0 {
		return studynet.Summary{}, errSummaryNotFound(id)
	}

	if err := s.checkAccess(caller, summary.CollectionID); err != nil {
		return studynet.Summary{}, err
	}
	return summary, nil
}

func (s *SummaryService) ListForCollection(caller studynet.User, collectionID int) ([]studynet.Summary, error) {
	if err := s.checkAccess(caller, collectionID); err != nil {
		return nil, err
	}
	return s.summaries.GetForCollection(collectionID)
}

func (s *SummaryService) ListForUser(caller studynet.User) ([]studynet.Summary, error) {
	return s.summaries.GetForUser(caller.ID)
}

// Create summarizes a set of the collection's highlights. The highlight
// set is deduplicated and order-insensitive: a second request covering the
// same set is rejected so each summary stays unique per set. When content
// is given the generation adapter is skipped.
func (s *SummaryService) Create(ctx context.Context, caller studynet.User, collectionID int, highlightIDs []int, content string) (studynet.Summary, error) {
	collection, err := s.collections.Get(collectionID)
	if err != nil {
		return studynet.Summary{}, err
	} else if collection.ID == 0 {
		return studynet.Summary{}, errCollectionNotFound(collectionID)
	}

	if !s.policy.CanAccessCollection(caller, collection) {
		return studynet.Summary{}, errNoAccess()
	}

	ids := studynet.NormalizeIDs(highlightIDs)
	if len(ids) == 0 {
		return studynet.Summary{}, errors.New("no highlight ids provided", errors.BadRequest())
	}

	picked := make([]aigen.Highlight, 0, len(ids))
	for _, id := range ids {
		found, err := s.highlights.Get(id)
		if err != nil {
			return studynet.Summary{}, err
		} else if len(found) == 0 {
			return studynet.Summary{}, errHighlightNotFound(id)
		}

		highlight := found[0]
		if highlight.CollectionID != collectionID {
			return studynet.Summary{}, errors.New("all highlights must belong to the collection", errors.BadRequest())
		}
		picked = append(picked, aigen.Highlight{Text: highlight.Text, URL: highlight.URL})
	}

	existing, err := s.summaries.GetForCollection(collectionID)
	if err != nil {
		return studynet.Summary{}, err
	}
	for _, other := range existing {
		if studynet.SameIDSet(other.HighlightIDs, ids) {
			return studynet.Summary{}, errors.New("a summary already exists for this set of highlights", errors.BadRequest())
		}
	}

	if content == "" {
		content, err = s.generator.Summarize(ctx, picked, collection.Title)
		if err != nil {
			return studynet.Summary{}, err
		}
	}

	summary := studynet.Summary{
		Content:      content,
		Timestamp:    time.Now(),
		CollectionID: collectionID,
		OwnerID:      caller.ID,
		HighlightIDs: ids,
	}
	if err := s.summaries.Upsert(&summary); err != nil {
		return studynet.Summary{}, err
	}
	return summary, nil
}

type SummaryPatch struct {
	Content      *string    `json:"content"`
	Timestamp    *time.Time `json:"timestamp"`
	HighlightIDs *[]int     `json:"highlight_ids"`
}

// Update edits a summary in place. The highlight set can be replaced
// freely: the uniqueness check only runs at creation.
func (s *SummaryService) Update(caller studynet.User, id int, patch SummaryPatch) (studynet.Summary, error) {
	summary, err := s.Get(caller, id)
	if err != nil {
		return studynet.Summary{}, err
	}

	if patch.Content != nil {
		summary.Content = *patch.Content
	}
	if patch.Timestamp != nil {
		summary.Timestamp = *patch.Timestamp
	}
	if patch.HighlightIDs != nil {
		summary.HighlightIDs = studynet.NormalizeIDs(*patch.HighlightIDs)
	}

	if err := s.summaries.Upsert(&summary); err != nil {
		return studynet.Summary{}, err
	}
	return summary, nil
}

// Regenerate replaces the summary's content from its original highlight
// set. Highlights removed since generation make the set unresolvable and
// the call fails.
func (s *SummaryService) Regenerate(ctx context.Context, caller studynet.User, id int) (studynet.Summary, error) {
	summary, err := s.Get(caller, id)
	if err != nil {
		return studynet.Summary{}, err
	}

	if len(summary.HighlightIDs) == 0 {
		return studynet.Summary{}, errors.New("summary has no highlights to regenerate from", errors.BadRequest())
	}

	collection, err := s.collections.Get(summary.CollectionID)
	if err != nil {
		return studynet.Summary{}, err
	}

	picked := make([]aigen.Highlight, 0, len(summary.HighlightIDs))
	for _, highlightID := range summary.HighlightIDs {
		found, err := s.highlights.Get(highlightID)
		if err != nil {
			return studynet.Summary{}, err
		} else if len(found) == 0 {
			return studynet.Summary{}, errors.New("some of the summary's highlights no longer exist", errors.BadRequest())
		}
		picked = append(picked, aigen.Highlight{Text: found[0].Text, URL: found[0].URL})
	}

	content, err := s.generator.Summarize(ctx, picked, collection.Title)
	if err != nil {
		return studynet.Summary{}, err
	}

	summary.Content = content
	summary.Timestamp = time.Now()
	if err := s.summaries.Upsert(&summary); err != nil {
		return studynet.Summary{}, err
	}
	return summary, nil
}

// Delete removes the summary together with its quiz and that quiz's
// attempts.
func (s *SummaryService) Delete(caller studynet.User, id int) error {
	summary, err := s.Get(caller, id)
	if err != nil {
		return err
	}

	quiz, err := s.quizzes.GetBySummary(summary.ID)
	if err != nil {
		return err
	}
	if quiz.ID != 0 {
		if err := s.attempts.DeleteForQuiz(quiz.ID); err != nil {
			return err
		}
		if err := s.quizzes.Delete(quiz.ID); err != nil {
			return err
		}
	}
	return s.summaries.Delete(id)
}

func (s *SummaryService) checkAccess(caller studynet.User, collectionID int) error {
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
