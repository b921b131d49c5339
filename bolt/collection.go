package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/studynet/studynet"
)

var collectionBucket = []byte("collections")

// CollectionStore is used to store and retrieve collections from a bolt
// database.
type CollectionStore struct {
	Driver *Driver
}

func (s *CollectionStore) Get(id int) (studynet.Collection, error) {
	var collection studynet.Collection
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(collectionBucket)

		data := bucket.Get(itob(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &collection)
	})
	if err != nil {
		return studynet.Collection{}, err
	}

	return collection, nil
}

func (s *CollectionStore) GetForUser(userID int) ([]studynet.Collection, error) {
	collections := []studynet.Collection{}

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(collectionBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var collection studynet.Collection
			if err := json.Unmarshal(data, &collection); err != nil {
				return err
			}
			if collection.OwnerID == userID || collection.HasCollaborator(userID) {
				collections = append(collections, collection)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return collections, nil
}

func (s *CollectionStore) Upsert(collection *studynet.Collection) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(collectionBucket)

		if collection.ID <= 0 {
			id, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("error incrementing id: %v", err)
			}
			collection.ID = int(id)
			collection.CreatedAt = time.Now()
		}
		collection.UpdatedAt = time.Now()

		data, err := json.Marshal(collection)
		if err != nil {
			return err
		}

		return bucket.Put(itob(collection.ID), data)
	})
}

func (s *CollectionStore) Delete(id int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(collectionBucket)
		return bucket.Delete(itob(id))
	})
}
