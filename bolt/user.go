package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/studynet/studynet"
)

var (
	userBucket       = []byte("users")
	resetTokenBucket = []byte("reset_tokens")
)

// UserStore is used to store and retrieve users from a bolt database.
type UserStore struct {
	Driver *Driver
}

func (s *UserStore) Get(id int) (studynet.User, error) {
	var user studynet.User
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		data := bucket.Get(itob(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &user)
	})
	if err != nil {
		return studynet.User{}, err
	}

	return user, nil
}

func (s *UserStore) GetByEmail(email string) (studynet.User, error) {
	return s.find(func(u studynet.User) bool { return u.Email == email })
}

func (s *UserStore) GetByUsername(username string) (studynet.User, error) {
	return s.find(func(u studynet.User) bool { return u.Username == username })
}

func (s *UserStore) Upsert(user *studynet.User) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		if user.ID <= 0 {
			id, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("error incrementing id: %v", err)
			}
			user.ID = int(id)
			user.CreatedAt = time.Now()
		}
		user.UpdatedAt = time.Now()

		data, err := json.Marshal(user)
		if err != nil {
			return err
		}

		return bucket.Put(itob(user.ID), data)
	})
}

func (s *UserStore) Delete(id int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)
		return bucket.Delete(itob(id))
	})
}

func (s *UserStore) List() ([]studynet.User, error) {
	users := []studynet.User{}

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var user studynet.User
			if err := json.Unmarshal(data, &user); err != nil {
				return err
			}
			users = append(users, user)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (s *UserStore) find(match func(studynet.User) bool) (studynet.User, error) {
	var user studynet.User
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(userBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var u studynet.User
			if err := json.Unmarshal(data, &u); err != nil {
				return err
			}
			if match(u) {
				user = u
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return studynet.User{}, err
	}

	return user, nil
}

// ResetTokenStore persists password-reset tokens, keyed by the token
// itself.
type ResetTokenStore struct {
	Driver *Driver
}

func (s *ResetTokenStore) Get(token string) (studynet.ResetToken, error) {
	var reset studynet.ResetToken
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resetTokenBucket)

		data := bucket.Get([]byte(token))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &reset)
	})
	if err != nil {
		return studynet.ResetToken{}, err
	}

	return reset, nil
}

func (s *ResetTokenStore) Insert(reset studynet.ResetToken) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resetTokenBucket)

		data, err := json.Marshal(reset)
		if err != nil {
			return err
		}
		return bucket.Put([]byte(reset.Token), data)
	})
}

func (s *ResetTokenStore) Delete(token string) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(resetTokenBucket)
		return bucket.Delete([]byte(token))
	})
}
