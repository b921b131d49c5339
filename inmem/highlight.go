package inmem

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/studynet/studynet"
)

type HighlightRepository struct {
	mu         sync.Mutex
	highlights map[int]studynet.Highlight
	maxID      int
}

func NewHighlightRepository() *HighlightRepository {
	return &HighlightRepository{
		highlights: make(map[int]studynet.Highlight),
	}
}

func (r *HighlightRepository) Get(ids ...int) ([]studynet.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	highlights := make([]studynet.Highlight, 0, len(ids))
	for _, id := range ids {
		if h, ok := r.highlights[id]; ok {
			highlights = append(highlights, h)
		}
	}
	return highlights, nil
}

func (r *HighlightRepository) GetForUser(userID int) ([]studynet.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	highlights := make([]studynet.Highlight, 0)
	for _, h := range r.highlights {
		if h.OwnerID == userID {
			highlights = append(highlights, h)
		}
	}
	sort.Slice(highlights, func(i, j int) bool { return highlights[i].ID < highlights[j].ID })
	return highlights, nil
}

func (r *HighlightRepository) GetForCollection(collectionID int) ([]studynet.Highlight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	highlights := make([]studynet.Highlight, 0)
	for _, h := range r.highlights {
		if h.CollectionID == collectionID {
			highlights = append(highlights, h)
		}
	}
	sort.Slice(highlights, func(i, j int) bool { return highlights[i].ID < highlights[j].ID })
	return highlights, nil
}

func (r *HighlightRepository) Upsert(highlight *studynet.Highlight) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if highlight.ID == 0 {
		r.maxID++
		highlight.ID = r.maxID
		highlight.CreatedAt = time.Now()
	} else if highlight.ID > r.maxID {
		r.maxID = highlight.ID
	}
	highlight.UpdatedAt = time.Now()

	r.highlights[highlight.ID] = *highlight
	return nil
}

func (r *HighlightRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.highlights, id)
	return nil
}

// Attach validates the whole batch before writing anything, so a failure
// leaves no partial state.
func (r *HighlightRepository) Attach(collectionID int, highlightIDs []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range highlightIDs {
		h, ok := r.highlights[id]
		if !ok {
			return fmt.Errorf("highlight %d not found", id)
		}
		if h.CollectionID == collectionID {
			return fmt.Errorf("highlight %d is already in collection %d", id, collectionID)
		}
	}

	now := time.Now()
	for _, id := range highlightIDs {
		h := r.highlights[id]
		h.CollectionID = collectionID
		h.UpdatedAt = now
		r.highlights[id] = h
	}
	return nil
}
