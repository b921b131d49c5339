package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/studynet/studynet"
)

var highlightBucket = []byte("highlights")

// HighlightStore is used to store and retrieve highlights from a bolt
// database.
type HighlightStore struct {
	Driver *Driver
}

func (s *HighlightStore) Get(ids ...int) ([]studynet.Highlight, error) {
	highlights := make([]studynet.Highlight, 0, len(ids))
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(highlightBucket)

		for _, id := range ids {
			data := bucket.Get(itob(id))
			if data == nil {
				continue
			}

			var highlight studynet.Highlight
			if err := json.Unmarshal(data, &highlight); err != nil {
				return err
			}
			highlights = append(highlights, highlight)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return highlights, nil
}

func (s *HighlightStore) GetForUser(userID int) ([]studynet.Highlight, error) {
	return s.scan(func(h studynet.Highlight) bool { return h.OwnerID == userID })
}

func (s *HighlightStore) GetForCollection(collectionID int) ([]studynet.Highlight, error) {
	return s.scan(func(h studynet.Highlight) bool { return h.CollectionID == collectionID })
}

// List returns every highlight in the store. Used to rebuild the search
// index, it is not part of the repository interface.
func (s *HighlightStore) List() ([]studynet.Highlight, error) {
	return s.scan(func(studynet.Highlight) bool { return true })
}

func (s *HighlightStore) Upsert(highlight *studynet.Highlight) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		return upsertHighlight(tx, highlight)
	})
}

func (s *HighlightStore) Delete(id int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(highlightBucket)
		return bucket.Delete(itob(id))
	})
}

// Attach files all the highlights under collectionID in one transaction.
// Every highlight is checked inside the transaction: any missing one, or
// one already in the collection, rolls the whole batch back.
func (s *HighlightStore) Attach(collectionID int, highlightIDs []int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(highlightBucket)

		highlights := make([]studynet.Highlight, 0, len(highlightIDs))
		for _, id := range highlightIDs {
			data := bucket.Get(itob(id))
			if data == nil {
				return fmt.Errorf("no highlight for id %d", id)
			}

			var highlight studynet.Highlight
			if err := json.Unmarshal(data, &highlight); err != nil {
				return err
			}
			if highlight.CollectionID == collectionID {
				return fmt.Errorf("highlight %d is already in collection %d", id, collectionID)
			}
			highlights = append(highlights, highlight)
		}

		for i := range highlights {
			highlights[i].CollectionID = collectionID
			if err := upsertHighlight(tx, &highlights[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *HighlightStore) scan(match func(studynet.Highlight) bool) ([]studynet.Highlight, error) {
	highlights := []studynet.Highlight{}

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(highlightBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var highlight studynet.Highlight
			if err := json.Unmarshal(data, &highlight); err != nil {
				return err
			}
			if match(highlight) {
				highlights = append(highlights, highlight)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return highlights, nil
}

func upsertHighlight(tx *bolt.Tx, highlight *studynet.Highlight) error {
	bucket := tx.Bucket(highlightBucket)

	if highlight.ID <= 0 {
		id, err := bucket.NextSequence()
		if err != nil {
			return fmt.Errorf("error incrementing id: %v", err)
		}
		highlight.ID = int(id)
		highlight.CreatedAt = time.Now()
	}
	highlight.UpdatedAt = time.Now()

	data, err := json.Marshal(highlight)
	if err != nil {
		return err
	}

	return bucket.Put(itob(highlight.ID), data)
}
