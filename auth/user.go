package auth

import (
	"fmt"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/jwt"
)

const resetTokenTTL = time.Hour

var emailRegexp = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

type UserService struct {
	repository  studynet.UserRepository
	resetTokens studynet.ResetTokenRepository
	encoder     *jwt.EncodeDecoder
}

func NewUserService(repo studynet.UserRepository, resetTokens studynet.ResetTokenRepository, encoder *jwt.EncodeDecoder) *UserService {
	return &UserService{
		repository:  repo,
		resetTokens: resetTokens,
		encoder:     encoder,
	}
}

// Register creates an account and returns it with a fresh session token.
// Usernames and emails are unique across the system.
func (s *UserService) Register(username, email, password string) (studynet.User, string, error) {
	if username == "" || email == "" || password == "" {
		return studynet.User{}, "", errors.New("username, email and password are required", errors.BadRequest())
	}
	if !emailRegexp.MatchString(email) {
		return studynet.User{}, "", errors.New("invalid email address", errors.BadRequest())
	}
	if len(password) < 6 {
		return studynet.User{}, "", errors.New("password must be at least 6 characters", errors.BadRequest())
	}

	if existing, err := s.repository.GetByUsername(username); err != nil {
		return studynet.User{}, "", err
	} else if existing.ID != 0 {
		return studynet.User{}, "", errors.New("username already exists", errors.BadRequest())
	}
	if existing, err := s.repository.GetByEmail(email); err != nil {
		return studynet.User{}, "", err
	} else if existing.ID != 0 {
		return studynet.User{}, "", errors.New("email already exists", errors.BadRequest())
	}

	user := studynet.User{
		Username: username,
		Email:    email,
		Salt:     randToken(64),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password+user.Salt), bcrypt.DefaultCost)
	if err != nil {
		return studynet.User{}, "", err
	}
	user.PasswordHash = string(hash)

	if err := s.repository.Upsert(&user); err != nil {
		return studynet.User{}, "", err
	}

	token, err := s.encoder.Encode(user.ID)
	if err != nil {
		return studynet.User{}, "", err
	}
	return user, token, nil
}

// Login checks the credentials and returns the user with a session token.
// The failure message never says which of the two was wrong.
func (s *UserService) Login(email, password string) (studynet.User, string, error) {
	user, err := s.repository.GetByEmail(email)
	if err != nil {
		return studynet.User{}, "", err
	} else if user.ID == 0 {
		return studynet.User{}, "", errors.New("email or password incorrect", errors.Unauthorized())
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password+user.Salt)); err != nil {
		return studynet.User{}, "", errors.New("email or password incorrect", errors.Unauthorized())
	}

	now := time.Now()
	user.LastLogin = &now
	if err := s.repository.Upsert(&user); err != nil {
		return studynet.User{}, "", err
	}

	token, err := s.encoder.Encode(user.ID)
	if err != nil {
		return studynet.User{}, "", err
	}
	return user, token, nil
}

func (s *UserService) Get(id int) (studynet.User, error) {
	user, err := s.repository.Get(id)
	if err != nil {
		return studynet.User{}, err
	} else if user.ID == 0 {
		return studynet.User{}, errUserNotFound(id)
	}
	return user, nil
}

type UserPatch struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// Update edits a profile. Users edit themselves; admins edit anyone.
func (s *UserService) Update(caller studynet.User, id int, patch UserPatch) (studynet.User, error) {
	if caller.ID != id && !caller.IsAdmin {
		return studynet.User{}, errors.New("you can only update your own profile", errors.Forbidden())
	}

	user, err := s.Get(id)
	if err != nil {
		return studynet.User{}, err
	}

	if patch.Username != nil && *patch.Username != user.Username {
		if existing, err := s.repository.GetByUsername(*patch.Username); err != nil {
			return studynet.User{}, err
		} else if existing.ID != 0 {
			return studynet.User{}, errors.New("username already exists", errors.BadRequest())
		}
		user.Username = *patch.Username
	}
	if patch.Email != nil && *patch.Email != user.Email {
		if !emailRegexp.MatchString(*patch.Email) {
			return studynet.User{}, errors.New("invalid email address", errors.BadRequest())
		}
		if existing, err := s.repository.GetByEmail(*patch.Email); err != nil {
			return studynet.User{}, err
		} else if existing.ID != 0 {
			return studynet.User{}, errors.New("email already exists", errors.BadRequest())
		}
		user.Email = *patch.Email
	}
	if patch.Password != nil {
		if err := s.rehash(&user, *patch.Password); err != nil {
			return studynet.User{}, err
		}
	}

	if err := s.repository.Upsert(&user); err != nil {
		return studynet.User{}, err
	}
	return user, nil
}

// Users lists every account. Admin only.
func (s *UserService) Users(caller studynet.User) ([]studynet.User, error) {
	if !caller.IsAdmin {
		return nil, errNotAdmin()
	}
	return s.repository.List()
}

// GrantAdmin promotes a user, recording who granted it, when, and why.
func (s *UserService) GrantAdmin(caller studynet.User, id int, reason string) (studynet.User, error) {
	if !caller.IsAdmin {
		return studynet.User{}, errNotAdmin()
	}
	if reason == "" {
		return studynet.User{}, errors.New("a reason is required to grant admin privilege", errors.BadRequest())
	}

	user, err := s.Get(id)
	if err != nil {
		return studynet.User{}, err
	}
	if user.IsAdmin {
		return studynet.User{}, errors.New(fmt.Sprintf("user %d is already an admin", id), errors.BadRequest())
	}

	now := time.Now()
	user.IsAdmin = true
	user.AdminGrantedBy = caller.ID
	user.AdminGrantedAt = &now
	user.AdminGrantReason = reason

	if err := s.repository.Upsert(&user); err != nil {
		return studynet.User{}, err
	}
	return user, nil
}

// RevokeAdmin demotes a user. Admins cannot revoke themselves, so the
// system always keeps at least the caller as admin.
func (s *UserService) RevokeAdmin(caller studynet.User, id int) (studynet.User, error) {
	if !caller.IsAdmin {
		return studynet.User{}, errNotAdmin()
	}
	if caller.ID == id {
		return studynet.User{}, errors.New("you cannot revoke your own admin privilege", errors.BadRequest())
	}

	user, err := s.Get(id)
	if err != nil {
		return studynet.User{}, err
	}
	if !user.IsAdmin {
		return studynet.User{}, errors.New(fmt.Sprintf("user %d is not an admin", id), errors.BadRequest())
	}

	user.IsAdmin = false
	user.AdminGrantedBy = 0
	user.AdminGrantedAt = nil
	user.AdminGrantReason = ""

	if err := s.repository.Upsert(&user); err != nil {
		return studynet.User{}, err
	}
	return user, nil
}

// ResetPasswordRequest issues a single-use token valid for one hour.
func (s *UserService) ResetPasswordRequest(email string) (string, error) {
	user, err := s.repository.GetByEmail(email)
	if err != nil {
		return "", err
	} else if user.ID == 0 {
		return "", errors.New(fmt.Sprintf("no user found for email %s", email), errors.NotFound())
	}

	token := studynet.ResetToken{
		Token:     randToken(32),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.resetTokens.Insert(token); err != nil {
		return "", err
	}
	return token.Token, nil
}

// ResetPassword consumes a reset token and replaces the user's password.
func (s *UserService) ResetPassword(token, password string) error {
	if len(password) < 6 {
		return errors.New("password must be at least 6 characters", errors.BadRequest())
	}

	reset, err := s.resetTokens.Get(token)
	if err != nil {
		return err
	} else if reset.Token == "" {
		return errors.New("invalid or expired reset token", errors.BadRequest())
	}

	if reset.Expired(time.Now()) {
		// Expired tokens are still consumed.
		if err := s.resetTokens.Delete(token); err != nil {
			return err
		}
		return errors.New("invalid or expired reset token", errors.BadRequest())
	}

	user, err := s.Get(reset.UserID)
	if err != nil {
		return err
	}
	if err := s.rehash(&user, password); err != nil {
		return err
	}
	if err := s.repository.Upsert(&user); err != nil {
		return err
	}
	return s.resetTokens.Delete(token)
}

func (s *UserService) rehash(user *studynet.User, password string) error {
	user.Salt = randToken(64)
	hash, err := bcrypt.GenerateFromPassword([]byte(password+user.Salt), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return nil
}
