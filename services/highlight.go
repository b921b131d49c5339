package services

import (
	"fmt"
	"time"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/log"
)

const maxHighlightLength = 10000

type HighlightService struct {
	highlights  studynet.HighlightRepository
	collections studynet.CollectionRepository
	index       studynet.HighlightIndex

	policy Policy
	logger log.Logger
}

func NewHighlightService(
	highlights studynet.HighlightRepository,
	collections studynet.CollectionRepository,
	index studynet.HighlightIndex,
	logger log.Logger,
) *HighlightService {
	return &HighlightService{
		highlights:  highlights,
		collections: collections,
		index:       index,
		logger:      logger,
	}
}

func (s *HighlightService) Get(caller studynet.User, id int) (studynet.Highlight, error) {
	highlight, err := s.get(id)
	if err != nil {
		return studynet.Highlight{}, err
	}

	ok, err := s.canAccess(caller, highlight)
	if err != nil {
		return studynet.Highlight{}, err
	} else if !ok {
		return studynet.Highlight{}, errNoAccess()
	}
	return highlight, nil
}

func (s *HighlightService) ListForUser(caller studynet.User) ([]studynet.Highlight, error) {
	return s.highlights.GetForUser(caller.ID)
}

// Search runs a full-text query over the caller's own highlights.
func (s *HighlightService) Search(caller studynet.User, q string) ([]studynet.Highlight, error) {
	if q == "" {
		return s.highlights.GetForUser(caller.ID)
	}

	ids, err := s.index.Search(q)
	if err != nil {
		return nil, err
	}

	highlights, err := s.highlights.Get(ids...)
	if err != nil {
		return nil, err
	}

	own := make([]studynet.Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.OwnerID == caller.ID {
			own = append(own, h)
		}
	}
	return own, nil
}

func (s *HighlightService) Create(caller studynet.User, highlight studynet.Highlight) (studynet.Highlight, error) {
	if highlight.ID != 0 {
		return studynet.Highlight{}, errors.New("field id should be empty", errors.BadRequest())
	}
	if highlight.URL == "" {
		return studynet.Highlight{}, errors.New("url is required", errors.BadRequest())
	}
	if highlight.Text == "" {
		return studynet.Highlight{}, errors.New("text is required", errors.BadRequest())
	}
	if len(highlight.Text) > maxHighlightLength {
		return studynet.Highlight{}, errors.New(fmt.Sprintf("text cannot exceed %d characters", maxHighlightLength), errors.BadRequest())
	}

	if highlight.CollectionID != 0 {
		collection, err := s.collections.Get(highlight.CollectionID)
		if err != nil {
			return studynet.Highlight{}, err
		} else if collection.ID == 0 {
			return studynet.Highlight{}, errCollectionNotFound(highlight.CollectionID)
		}
		if !s.policy.CanAccessCollection(caller, collection) {
			return studynet.Highlight{}, errNoAccess()
		}
	}

	highlight.OwnerID = caller.ID
	if highlight.Timestamp.IsZero() {
		highlight.Timestamp = time.Now()
	}

	if err := s.highlights.Upsert(&highlight); err != nil {
		return studynet.Highlight{}, err
	}

	if err := s.index.Index(&highlight); err != nil {
		// The highlight is saved; it just won't turn up in search.
		s.logger.Errorf("could not index highlight %d: %v", highlight.ID, err)
	}
	return highlight, nil
}

type HighlightPatch struct {
	URL          *string    `json:"url"`
	Text         *string    `json:"text"`
	Timestamp    *time.Time `json:"timestamp"`
	CollectionID *int       `json:"collection_id"`
}

func (s *HighlightService) Update(caller studynet.User, id int, patch HighlightPatch) (studynet.Highlight, error) {
	highlight, err := s.get(id)
	if err != nil {
		return studynet.Highlight{}, err
	}

	if !s.policy.CanModifyHighlight(caller, highlight) {
		return studynet.Highlight{}, errNoAccess()
	}

	if patch.URL != nil {
		if *patch.URL == "" {
			return studynet.Highlight{}, errors.New("url is required", errors.BadRequest())
		}
		highlight.URL = *patch.URL
	}
	if patch.Text != nil {
		if *patch.Text == "" {
			return studynet.Highlight{}, errors.New("text is required", errors.BadRequest())
		}
		if len(*patch.Text) > maxHighlightLength {
			return studynet.Highlight{}, errors.New(fmt.Sprintf("text cannot exceed %d characters", maxHighlightLength), errors.BadRequest())
		}
		highlight.Text = *patch.Text
	}
	if patch.Timestamp != nil {
		highlight.Timestamp = *patch.Timestamp
	}
	if patch.CollectionID != nil {
		// Moving to a collection requires access to the destination.
		// 0 unfiles the highlight.
		if *patch.CollectionID != 0 {
			collection, err := s.collections.Get(*patch.CollectionID)
			if err != nil {
				return studynet.Highlight{}, err
			} else if collection.ID == 0 {
				return studynet.Highlight{}, errCollectionNotFound(*patch.CollectionID)
			}
			if !s.policy.CanAccessCollection(caller, collection) {
				return studynet.Highlight{}, errNoAccess()
			}
		}
		highlight.CollectionID = *patch.CollectionID
	}

	if err := s.highlights.Upsert(&highlight); err != nil {
		return studynet.Highlight{}, err
	}

	if err := s.index.Index(&highlight); err != nil {
		s.logger.Errorf("could not reindex highlight %d: %v", highlight.ID, err)
	}
	return highlight, nil
}

func (s *HighlightService) Delete(caller studynet.User, id int) error {
	highlight, err := s.get(id)
	if err != nil {
		return err
	}

	if !s.policy.CanModifyHighlight(caller, highlight) {
		return errNoAccess()
	}

	if err := s.highlights.Delete(id); err != nil {
		return err
	}

	if err := s.index.Delete(id); err != nil {
		s.logger.Errorf("could not remove highlight %d from index: %v", id, err)
	}
	return nil
}

func (s *HighlightService) get(id int) (studynet.Highlight, error) {
	found, err := s.highlights.Get(id)
	if err != nil {
		return studynet.Highlight{}, err
	} else if len(found) == 0 {
		return studynet.Highlight{}, errHighlightNotFound(id)
	}
	return found[0], nil
}

func (s *HighlightService) canAccess(caller studynet.User, highlight studynet.Highlight) (bool, error) {
	var collection studynet.Collection
	if highlight.CollectionID != 0 {
		var err error
		collection, err = s.collections.Get(highlight.CollectionID)
		if err != nil {
			return false, err
		}
	}
	return s.policy.CanAccessHighlight(caller, highlight, collection), nil
}
