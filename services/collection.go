package services

import (
	"fmt"
	"time"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
)

const maxTitleLength = 255

type CollectionService struct {
	collections studynet.CollectionRepository
	highlights  studynet.HighlightRepository
	summaries   studynet.SummaryRepository
	quizzes     studynet.QuizRepository
	attempts    studynet.AttemptRepository
	users       studynet.UserRepository

	policy Policy
}

func NewCollectionService(
	collections studynet.CollectionRepository,
	highlights studynet.HighlightRepository,
	summaries studynet.SummaryRepository,
	quizzes studynet.QuizRepository,
	attempts studynet.AttemptRepository,
	users studynet.UserRepository,
) *CollectionService {
	return &CollectionService{
		collections: collections,
		highlights:  highlights,
		summaries:   summaries,
		quizzes:     quizzes,
		attempts:    attempts,
		users:       users,
	}
}

func (s *CollectionService) Get(caller studynet.User, id int) (studynet.Collection, error) {
	collection, err := s.collections.Get(id)
	if err != nil {
		return studynet.Collection{}, err
	} else if collection.ID == 0 {
		return studynet.Collection{}, errCollectionNotFound(id)
	}

	if !s.policy.CanAccessCollection(caller, collection) {
		return studynet.Collection{}, errNoAccess()
	}
	return collection, nil
}

func (s *CollectionService) ListForUser(caller studynet.User) ([]studynet.Collection, error) {
	return s.collections.GetForUser(caller.ID)
}

func (s *CollectionService) Create(caller studynet.User, collection studynet.Collection) (studynet.Collection, error) {
	if collection.ID != 0 {
		return studynet.Collection{}, errors.New("field id should be empty", errors.BadRequest())
	}
	if collection.Title == "" {
		return studynet.Collection{}, errors.New("title is required", errors.BadRequest())
	}
	if len(collection.Title) > maxTitleLength {
		return studynet.Collection{}, errors.New(fmt.Sprintf("title cannot exceed %d characters", maxTitleLength), errors.BadRequest())
	}

	collection.OwnerID = caller.ID
	collection.Collaborators = []int{}
	if collection.Timestamp.IsZero() {
		collection.Timestamp = time.Now()
	}

	if err := s.collections.Upsert(&collection); err != nil {
		return studynet.Collection{}, err
	}
	return collection, nil
}

type CollectionPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Timestamp   *time.Time `json:"timestamp"`
}

func (s *CollectionService) Update(caller studynet.User, id int, patch CollectionPatch) (studynet.Collection, error) {
	collection, err := s.collections.Get(id)
	if err != nil {
		return studynet.Collection{}, err
	} else if collection.ID == 0 {
		return studynet.Collection{}, errCollectionNotFound(id)
	}

	if !s.policy.CanModifyCollection(caller, collection) {
		return studynet.Collection{}, errNoAccess()
	}

	if patch.Title != nil {
		if *patch.Title == "" {
			return studynet.Collection{}, errors.New("title is required", errors.BadRequest())
		}
		if len(*patch.Title) > maxTitleLength {
			return studynet.Collection{}, errors.New(fmt.Sprintf("title cannot exceed %d characters", maxTitleLength), errors.BadRequest())
		}
		collection.Title = *patch.Title
	}
	if patch.Description != nil {
		collection.Description = *patch.Description
	}
	if patch.Timestamp != nil {
		collection.Timestamp = *patch.Timestamp
	}

	if err := s.collections.Upsert(&collection); err != nil {
		return studynet.Collection{}, err
	}
	return collection, nil
}

// Delete removes the collection. Contained highlights are unlinked, never
// deleted; summaries are deleted along with their quiz and its attempts.
func (s *CollectionService) Delete(caller studynet.User, id int) error {
	collection, err := s.collections.Get(id)
	if err != nil {
		return err
	} else if collection.ID == 0 {
		return errCollectionNotFound(id)
	}

	if !s.policy.CanModifyCollection(caller, collection) {
		return errNoAccess()
	}

	highlights, err := s.highlights.GetForCollection(id)
	if err != nil {
		return err
	}
	for i := range highlights {
		highlights[i].CollectionID = 0
		if err := s.highlights.Upsert(&highlights[i]); err != nil {
			return err
		}
	}

	summaries, err := s.summaries.GetForCollection(id)
	if err != nil {
		return err
	}
	for _, summary := range summaries {
		if err := s.deleteSummaryCascade(summary.ID); err != nil {
			return err
		}
	}

	return s.collections.Delete(id)
}

func (s *CollectionService) deleteSummaryCascade(summaryID int) error {
	quiz, err := s.quizzes.GetBySummary(summaryID)
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
	return s.summaries.Delete(summaryID)
}

// AddCollaborator grants email's user access to the collection. Owner only;
// the owner cannot add themselves, and duplicates are rejected.
func (s *CollectionService) AddCollaborator(caller studynet.User, collectionID int, email string) (studynet.User, error) {
	collection, err := s.collections.Get(collectionID)
	if err != nil {
		return studynet.User{}, err
	} else if collection.ID == 0 {
		return studynet.User{}, errCollectionNotFound(collectionID)
	}

	if !s.policy.CanModifyCollection(caller, collection) {
		return studynet.User{}, errors.New("only the owner can manage collaborators", errors.Forbidden())
	}

	collaborator, err := s.users.GetByEmail(email)
	if err != nil {
		return studynet.User{}, err
	} else if collaborator.ID == 0 {
		return studynet.User{}, errors.New(fmt.Sprintf("no user found for email %s", email), errors.NotFound())
	}

	if collaborator.ID == collection.OwnerID {
		return studynet.User{}, errors.New("cannot add the owner as a collaborator", errors.BadRequest())
	}
	if collection.HasCollaborator(collaborator.ID) {
		return studynet.User{}, errors.New("user is already a collaborator", errors.BadRequest())
	}

	collection.Collaborators = append(collection.Collaborators, collaborator.ID)
	if err := s.collections.Upsert(&collection); err != nil {
		return studynet.User{}, err
	}
	return collaborator, nil
}

// RemoveCollaborator revokes a collaborator's access. Removing a user that
// is not currently a collaborator is a 404, so callers can tell the
// difference from a successful removal.
func (s *CollectionService) RemoveCollaborator(caller studynet.User, collectionID, userID int) (studynet.Collection, error) {
	collection, err := s.collections.Get(collectionID)
	if err != nil {
		return studynet.Collection{}, err
	} else if collection.ID == 0 {
		return studynet.Collection{}, errCollectionNotFound(collectionID)
	}

	if !s.policy.CanModifyCollection(caller, collection) {
		return studynet.Collection{}, errors.New("only the owner can manage collaborators", errors.Forbidden())
	}

	index := -1
	for i, id := range collection.Collaborators {
		if id == userID {
			index = i
			break
		}
	}
	if index == -1 {
		return studynet.Collection{}, errors.New(fmt.Sprintf("user %d is not a collaborator of collection %d", userID, collectionID), errors.NotFound())
	}

	collection.Collaborators = append(collection.Collaborators[:index], collection.Collaborators[index+1:]...)
	if err := s.collections.Upsert(&collection); err != nil {
		return studynet.Collection{}, err
	}
	return collection, nil
}

func (s *CollectionService) Collaborators(caller studynet.User, collectionID int) ([]studynet.User, error) {
	collection, err := s.Get(caller, collectionID)
	if err != nil {
		return nil, err
	}

	collaborators := make([]studynet.User, 0, len(collection.Collaborators))
	for _, id := range collection.Collaborators {
		user, err := s.users.Get(id)
		if err != nil {
			return nil, err
		} else if user.ID == 0 {
			return nil, errUserNotFound(id)
		}
		collaborators = append(collaborators, user)
	}
	return collaborators, nil
}

// AttachHighlights files the given highlights under the collection as one
// all-or-nothing batch: if any highlight is missing, not owned by the
// caller, or already in the collection, nothing is written.
func (s *CollectionService) AttachHighlights(caller studynet.User, collectionID int, highlightIDs []int) ([]studynet.Highlight, error) {
	collection, err := s.collections.Get(collectionID)
	if err != nil {
		return nil, err
	} else if collection.ID == 0 {
		return nil, errCollectionNotFound(collectionID)
	}

	if !s.policy.CanAccessCollection(caller, collection) {
		return nil, errNoAccess()
	}

	ids := studynet.NormalizeIDs(highlightIDs)
	if len(ids) == 0 {
		return nil, errors.New("no highlight ids provided", errors.BadRequest())
	}

	for _, id := range ids {
		found, err := s.highlights.Get(id)
		if err != nil {
			return nil, err
		} else if len(found) == 0 {
			return nil, errHighlightNotFound(id)
		}

		highlight := found[0]
		if highlight.OwnerID != caller.ID {
			return nil, errors.New(fmt.Sprintf("highlight %d does not belong to you", id), errors.BadRequest())
		}
		if highlight.CollectionID == collectionID {
			return nil, errors.New(fmt.Sprintf("highlight %d is already in the collection", id), errors.BadRequest())
		}
	}

	// The repository re-checks inside a single transaction, so a concurrent
	// attach cannot leave the batch half applied.
	if err := s.highlights.Attach(collectionID, ids); err != nil {
		return nil, errors.New("could not attach highlights", errors.BadRequest(), errors.WithCause(err))
	}

	return s.highlights.Get(ids...)
}

// RemoveHighlight unlinks the highlight from the collection. The highlight
// itself survives.
func (s *CollectionService) RemoveHighlight(caller studynet.User, collectionID, highlightID int) (studynet.Highlight, error) {
	collection, err := s.collections.Get(collectionID)
	if err != nil {
		return studynet.Highlight{}, err
	} else if collection.ID == 0 {
		return studynet.Highlight{}, errCollectionNotFound(collectionID)
	}

	if !s.policy.CanAccessCollection(caller, collection) {
		return studynet.Highlight{}, errNoAccess()
	}

	found, err := s.highlights.Get(highlightID)
	if err != nil {
		return studynet.Highlight{}, err
	} else if len(found) == 0 {
		return studynet.Highlight{}, errHighlightNotFound(highlightID)
	}

	highlight := found[0]
	if highlight.CollectionID != collectionID {
		return studynet.Highlight{}, errors.New("highlight is not in this collection", errors.BadRequest())
	}

	highlight.CollectionID = 0
	if err := s.highlights.Upsert(&highlight); err != nil {
		return studynet.Highlight{}, err
	}
	return highlight, nil
}

func (s *CollectionService) Highlights(caller studynet.User, collectionID int) ([]studynet.Highlight, error) {
	if _, err := s.Get(caller, collectionID); err != nil {
		return nil, err
	}
	return s.highlights.GetForCollection(collectionID)
}
