package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/studynet/studynet"
)

var summaryBucket = []byte("summaries")

// SummaryStore is used to store and retrieve summaries from a bolt
// database.
type SummaryStore struct {
	Driver *Driver
}

func (s *SummaryStore) Get(id int) (studynet.Summary, error) {
	var summary studynet.Summary
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(summaryBucket)

		data := bucket.Get(itob(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &summary)
	})
	if err != nil {
		return studynet.Summary{}, err
	}

	return summary, nil
}

func (s *SummaryStore) GetForCollection(collectionID int) ([]studynet.Summary, error) {
	return s.scan(func(sum studynet.Summary) bool { return sum.CollectionID == collectionID })
}

func (s *SummaryStore) GetForUser(userID int) ([]studynet.Summary, error) {
	return s.scan(func(sum studynet.Summary) bool { return sum.OwnerID == userID })
}

func (s *SummaryStore) Upsert(summary *studynet.Summary) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(summaryBucket)

		if summary.ID <= 0 {
			id, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("error incrementing id: %v", err)
			}
			summary.ID = int(id)
			summary.CreatedAt = time.Now()
		}
		summary.UpdatedAt = time.Now()

		data, err := json.Marshal(summary)
		if err != nil {
			return err
		}

		return bucket.Put(itob(summary.ID), data)
	})
}

func (s *SummaryStore) Delete(id int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(summaryBucket)
		return bucket.Delete(itob(id))
	})
}

func (s *SummaryStore) scan(match func(studynet.Summary) bool) ([]studynet.Summary, error) {
	summaries := []studynet.Summary{}

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(summaryBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var summary studynet.Summary
			if err := json.Unmarshal(data, &summary); err != nil {
				return err
			}
			if match(summary) {
				summaries = append(summaries, summary)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return summaries, nil
}
