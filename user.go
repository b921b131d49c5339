package studynet

import (
	"time"
)

// SigningKey is the content of the JWT key file.
type SigningKey struct {
	Key string `json:"k"`
}

type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	PasswordHash string `json:"-"`
	Salt         string `json:"-"`

	IsAdmin          bool       `json:"isAdmin"`
	AdminGrantedBy   int        `json:"adminGrantedBy,omitempty"`
	AdminGrantedAt   *time.Time `json:"adminGrantedAt,omitempty"`
	AdminGrantReason string     `json:"adminGrantReason,omitempty"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UserRepository interface {
	Get(int) (User, error)
	GetByEmail(string) (User, error)
	GetByUsername(string) (User, error)
	Upsert(*User) error
	Delete(int) error

	List() ([]User, error)
}

// ResetToken is a one-time password-reset token. It is consumed on use and
// rejected after ExpiresAt.
type ResetToken struct {
	Token     string    `json:"token"`
	UserID    int       `json:"userID"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (t ResetToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

type ResetTokenRepository interface {
	Get(token string) (ResetToken, error)
	Insert(ResetToken) error
	Delete(token string) error
}
