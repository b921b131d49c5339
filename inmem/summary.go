package inmem

import (
	"sort"
	"sync"
	"time"

	"github.com/studynet/studynet"
)

type SummaryRepository struct {
	mu        sync.Mutex
	summaries map[int]studynet.Summary
	maxID     int
}

func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{
		summaries: make(map[int]studynet.Summary),
	}
}

func (r *SummaryRepository) Get(id int) (studynet.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.summaries[id], nil
}

func (r *SummaryRepository) GetForCollection(collectionID int) ([]studynet.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]studynet.Summary, 0)
	for _, s := range r.summaries {
		if s.CollectionID == collectionID {
			summaries = append(summaries, s)
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

func (r *SummaryRepository) GetForUser(userID int) ([]studynet.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	summaries := make([]studynet.Summary, 0)
	for _, s := range r.summaries {
		if s.OwnerID == userID {
			summaries = append(summaries, s)
		}
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

func (r *SummaryRepository) Upsert(summary *studynet.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if summary.ID == 0 {
		r.maxID++
		summary.ID = r.maxID
		summary.CreatedAt = time.Now()
	} else if summary.ID > r.maxID {
		r.maxID = summary.ID
	}
	summary.UpdatedAt = time.Now()

	r.summaries[summary.ID] = *summary
	return nil
}

func (r *SummaryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.summaries, id)
	return nil
}
