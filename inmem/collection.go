package inmem

import (
	"sort"
	"sync"
	"time"

	"github.com/studynet/studynet"
)

type CollectionRepository struct {
	mu          sync.Mutex
	collections map[int]studynet.Collection
	maxID       int
}

func NewCollectionRepository() *CollectionRepository {
	return &CollectionRepository{
		collections: make(map[int]studynet.Collection),
	}
}

func (r *CollectionRepository) Get(id int) (studynet.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collections[id], nil
}

func (r *CollectionRepository) GetForUser(userID int) ([]studynet.Collection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	collections := make([]studynet.Collection, 0)
	for _, c := range r.collections {
		if c.OwnerID == userID || c.HasCollaborator(userID) {
			collections = append(collections, c)
		}
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i].ID < collections[j].ID })
	return collections, nil
}

func (r *CollectionRepository) Upsert(collection *studynet.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if collection.ID == 0 {
		r.maxID++
		collection.ID = r.maxID
		collection.CreatedAt = time.Now()
	} else if collection.ID > r.maxID {
		r.maxID = collection.ID
	}
	collection.UpdatedAt = time.Now()

	r.collections[collection.ID] = *collection
	return nil
}

func (r *CollectionRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.collections, id)
	return nil
}
