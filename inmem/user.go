package inmem

import (
	"sync"
	"time"

	"github.com/studynet/studynet"
)

type UserRepository struct {
	mu    sync.Mutex
	users map[int]studynet.User
	maxID int
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[int]studynet.User),
	}
}

func (r *UserRepository) Get(id int) (studynet.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.users[id], nil
}

func (r *UserRepository) GetByEmail(email string) (studynet.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return studynet.User{}, nil
}

func (r *UserRepository) GetByUsername(username string) (studynet.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return studynet.User{}, nil
}

func (r *UserRepository) Upsert(user *studynet.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.ID == 0 {
		r.maxID++
		user.ID = r.maxID
		user.CreatedAt = time.Now()
	} else if user.ID > r.maxID {
		r.maxID = user.ID
	}
	user.UpdatedAt = time.Now()

	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *UserRepository) List() ([]studynet.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	users := make([]studynet.User, 0, len(r.users))
	for _, user := range r.users {
		users = append(users, user)
	}
	return users, nil
}

type ResetTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]studynet.ResetToken
}

func NewResetTokenRepository() *ResetTokenRepository {
	return &ResetTokenRepository{
		tokens: make(map[string]studynet.ResetToken),
	}
}

func (r *ResetTokenRepository) Get(token string) (studynet.ResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.tokens[token], nil
}

func (r *ResetTokenRepository) Insert(token studynet.ResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens[token.Token] = token
	return nil
}

func (r *ResetTokenRepository) Delete(token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}
