package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/inmem"
	"github.com/studynet/studynet/jwt"
)

func newService() (*UserService, *inmem.UserRepository, *inmem.ResetTokenRepository) {
	users := inmem.NewUserRepository()
	tokens := inmem.NewResetTokenRepository()
	encoder := jwt.NewEncodeDecoder([]byte("test-signing-key"))
	return NewUserService(users, tokens, encoder), users, tokens
}

func register(t *testing.T, s *UserService, username string) studynet.User {
	user, _, err := s.Register(username, username+"@studynet.test", "s3cret!")
	require.NoError(t, err)
	return user
}

func registerAdmin(t *testing.T, s *UserService, users *inmem.UserRepository, username string) studynet.User {
	user := register(t, s, username)
	user.IsAdmin = true
	require.NoError(t, users.Upsert(&user))
	return user
}

func TestRegister(t *testing.T) {
	s, _, _ := newService()

	user, token, err := s.Register("alice", "alice@studynet.test", "s3cret!")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, user.Salt)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)

	// Duplicates and weak input.
	_, _, err = s.Register("alice", "other@studynet.test", "s3cret!")
	errors.AssertCode(t, err, 400)
	_, _, err = s.Register("alice2", "alice@studynet.test", "s3cret!")
	errors.AssertCode(t, err, 400)
	_, _, err = s.Register("bob", "not-an-email", "s3cret!")
	errors.AssertCode(t, err, 400)
	_, _, err = s.Register("bob", "bob@studynet.test", "short")
	errors.AssertCode(t, err, 400)
	_, _, err = s.Register("", "", "")
	errors.AssertCode(t, err, 400)
}

func TestLogin(t *testing.T) {
	s, _, _ := newService()
	register(t, s, "alice")

	user, token, err := s.Login("alice@studynet.test", "s3cret!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	require.NotNil(t, user.LastLogin)
	assert.WithinDuration(t, time.Now(), *user.LastLogin, time.Minute)

	// Wrong password and unknown email fail the same way.
	_, _, err = s.Login("alice@studynet.test", "wrong")
	errors.AssertCode(t, err, 401)
	_, _, err = s.Login("ghost@studynet.test", "s3cret!")
	errors.AssertCode(t, err, 401)
}

func TestUpdate(t *testing.T) {
	s, _, _ := newService()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	username := "alice2"
	updated, err := s.Update(alice, alice.ID, UserPatch{Username: &username})
	require.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	// Uniqueness still holds on update.
	taken := "bob"
	_, err = s.Update(alice, alice.ID, UserPatch{Username: &taken})
	errors.AssertCode(t, err, 400)
	takenEmail := "bob@studynet.test"
	_, err = s.Update(alice, alice.ID, UserPatch{Email: &takenEmail})
	errors.AssertCode(t, err, 400)

	// Only self or admin.
	_, err = s.Update(alice, bob.ID, UserPatch{Username: &username})
	errors.AssertCode(t, err, 403)

	// Password change rotates the salt.
	password := "n3wpass!"
	updated, err = s.Update(alice, alice.ID, UserPatch{Password: &password})
	require.NoError(t, err)
	assert.NotEqual(t, alice.Salt, updated.Salt)
	_, _, err = s.Login("alice@studynet.test", "n3wpass!")
	assert.NoError(t, err)
}

func TestAdminGrantRevoke(t *testing.T) {
	s, users, _ := newService()
	root := registerAdmin(t, s, users, "root")
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")

	// Plain users cannot touch admin state.
	_, err := s.GrantAdmin(alice, bob.ID, "because")
	errors.AssertCode(t, err, 403)
	_, err = s.Users(alice)
	errors.AssertCode(t, err, 403)

	// A reason is mandatory.
	_, err = s.GrantAdmin(root, alice.ID, "")
	errors.AssertCode(t, err, 400)

	granted, err := s.GrantAdmin(root, alice.ID, "covers on-call")
	require.NoError(t, err)
	assert.True(t, granted.IsAdmin)
	assert.Equal(t, root.ID, granted.AdminGrantedBy)
	assert.NotNil(t, granted.AdminGrantedAt)
	assert.Equal(t, "covers on-call", granted.AdminGrantReason)

	_, err = s.GrantAdmin(root, alice.ID, "again")
	errors.AssertCode(t, err, 400)

	// No self-revoke.
	_, err = s.RevokeAdmin(root, root.ID)
	errors.AssertCode(t, err, 400)

	revoked, err := s.RevokeAdmin(root, alice.ID)
	require.NoError(t, err)
	assert.False(t, revoked.IsAdmin)
	assert.Zero(t, revoked.AdminGrantedBy)
	assert.Nil(t, revoked.AdminGrantedAt)
	assert.Empty(t, revoked.AdminGrantReason)

	_, err = s.RevokeAdmin(root, bob.ID)
	errors.AssertCode(t, err, 400)

	list, err := s.Users(root)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestResetPassword(t *testing.T) {
	s, _, tokens := newService()
	register(t, s, "alice")

	_, err := s.ResetPasswordRequest("ghost@studynet.test")
	errors.AssertCode(t, err, 404)

	token, err := s.ResetPasswordRequest("alice@studynet.test")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	err = s.ResetPassword(token, "short")
	errors.AssertCode(t, err, 400)
	err = s.ResetPassword("bogus", "n3wpass!")
	errors.AssertCode(t, err, 400)

	require.NoError(t, s.ResetPassword(token, "n3wpass!"))
	_, _, err = s.Login("alice@studynet.test", "s3cret!")
	errors.AssertCode(t, err, 401)
	_, _, err = s.Login("alice@studynet.test", "n3wpass!")
	require.NoError(t, err)

	// Tokens are single use.
	err = s.ResetPassword(token, "another1")
	errors.AssertCode(t, err, 400)

	// Expired tokens are rejected and consumed.
	expired := studynet.ResetToken{
		Token:     "expired-token",
		UserID:    1,
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, tokens.Insert(expired))
	err = s.ResetPassword("expired-token", "n3wpass2!")
	errors.AssertCode(t, err, 400)
	got, err := tokens.Get("expired-token")
	require.NoError(t, err)
	assert.Empty(t, got.Token)
}
