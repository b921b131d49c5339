package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"

	"github.com/studynet/studynet"
)

var (
	quizBucket    = []byte("quizzes")
	attemptBucket = []byte("attempts")
)

// QuizStore is used to store and retrieve quizzes from a bolt database.
type QuizStore struct {
	Driver *Driver
}

func (s *QuizStore) Get(id int) (studynet.Quiz, error) {
	var quiz studynet.Quiz
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(quizBucket)

		data := bucket.Get(itob(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &quiz)
	})
	if err != nil {
		return studynet.Quiz{}, err
	}

	return quiz, nil
}

func (s *QuizStore) GetBySummary(summaryID int) (studynet.Quiz, error) {
	var quiz studynet.Quiz
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(quizBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var q studynet.Quiz
			if err := json.Unmarshal(data, &q); err != nil {
				return err
			}
			if q.SummaryID == summaryID {
				quiz = q
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return studynet.Quiz{}, err
	}

	return quiz, nil
}

func (s *QuizStore) Upsert(quiz *studynet.Quiz) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(quizBucket)

		if quiz.ID <= 0 {
			id, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("error incrementing id: %v", err)
			}
			quiz.ID = int(id)
			quiz.CreatedAt = time.Now()
		}
		quiz.UpdatedAt = time.Now()

		data, err := json.Marshal(quiz)
		if err != nil {
			return err
		}

		return bucket.Put(itob(quiz.ID), data)
	})
}

func (s *QuizStore) Delete(id int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(quizBucket)
		return bucket.Delete(itob(id))
	})
}

// AttemptStore is used to store and retrieve quiz attempts from a bolt
// database.
type AttemptStore struct {
	Driver *Driver
}

func (s *AttemptStore) Get(id int) (studynet.QuizAttempt, error) {
	var attempt studynet.QuizAttempt
	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(attemptBucket)

		data := bucket.Get(itob(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &attempt)
	})
	if err != nil {
		return studynet.QuizAttempt{}, err
	}

	return attempt, nil
}

func (s *AttemptStore) GetForQuiz(quizID int) ([]studynet.QuizAttempt, error) {
	return s.scan(func(a studynet.QuizAttempt) bool { return a.QuizID == quizID })
}

func (s *AttemptStore) GetForUser(userID int) ([]studynet.QuizAttempt, error) {
	return s.scan(func(a studynet.QuizAttempt) bool { return a.UserID == userID })
}

func (s *AttemptStore) GetUserAttempt(quizID, userID int) (studynet.QuizAttempt, error) {
	attempts, err := s.scan(func(a studynet.QuizAttempt) bool {
		return a.QuizID == quizID && a.UserID == userID
	})
	if err != nil {
		return studynet.QuizAttempt{}, err
	}
	if len(attempts) == 0 {
		return studynet.QuizAttempt{}, nil
	}
	return attempts[0], nil
}

func (s *AttemptStore) Upsert(attempt *studynet.QuizAttempt) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(attemptBucket)

		if attempt.ID <= 0 {
			id, err := bucket.NextSequence()
			if err != nil {
				return fmt.Errorf("error incrementing id: %v", err)
			}
			attempt.ID = int(id)
			attempt.CreatedAt = time.Now()
		}
		attempt.UpdatedAt = time.Now()

		data, err := json.Marshal(attempt)
		if err != nil {
			return err
		}

		return bucket.Put(itob(attempt.ID), data)
	})
}

func (s *AttemptStore) Delete(id int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(attemptBucket)
		return bucket.Delete(itob(id))
	})
}

func (s *AttemptStore) DeleteForQuiz(quizID int) error {
	return s.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(attemptBucket)

		var toDelete [][]byte
		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var attempt studynet.QuizAttempt
			if err := json.Unmarshal(data, &attempt); err != nil {
				return err
			}
			if attempt.QuizID == quizID {
				key := make([]byte, len(id))
				copy(key, id)
				toDelete = append(toDelete, key)
			}
		}

		for _, key := range toDelete {
			if err := bucket.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *AttemptStore) scan(match func(studynet.QuizAttempt) bool) ([]studynet.QuizAttempt, error) {
	attempts := []studynet.QuizAttempt{}

	err := s.Driver.store.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(attemptBucket)

		c := bucket.Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var attempt studynet.QuizAttempt
			if err := json.Unmarshal(data, &attempt); err != nil {
				return err
			}
			if match(attempt) {
				attempts = append(attempts, attempt)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return attempts, nil
}
