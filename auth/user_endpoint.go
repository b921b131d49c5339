package auth

import (
	"context"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/aigen"
)

type UserEndpoint struct {
	service   *UserService
	generator aigen.Generator
}

func NewUserEndpoint(s *UserService, generator aigen.Generator) UserEndpoint {
	return UserEndpoint{
		service:   s,
		generator: generator,
	}
}

type registerRequest struct {
	Username string
	Email    string
	Password string
}

type sessionResponse struct {
	User  studynet.User `json:"user"`
	Token string        `json:"access_token"`
}

func (ep UserEndpoint) Register(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(registerRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	user, token, err := ep.service.Register(req.Username, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return sessionResponse{User: user, Token: token}, nil
}

type loginRequest struct {
	Email    string
	Password string
}

func (ep UserEndpoint) Login(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(loginRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	user, token, err := ep.service.Login(req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return sessionResponse{User: user, Token: token}, nil
}

func (ep UserEndpoint) ResetPasswordRequest(ctx context.Context, r interface{}) (interface{}, error) {
	email, ok := r.(string)
	if !ok {
		return nil, errInvalidRequest
	}

	token, err := ep.service.ResetPasswordRequest(email)
	if err != nil {
		return nil, err
	}

	// There is no mailer: the token comes back in the response and the
	// client is responsible for delivering it.
	return map[string]interface{}{
		"reset_token": token,
	}, nil
}

type resetPasswordRequest struct {
	Token    string
	Password string
}

func (ep UserEndpoint) ResetPassword(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(resetPasswordRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	if err := ep.service.ResetPassword(req.Token, req.Password); err != nil {
		return nil, err
	}
	return map[string]interface{}{
		"message": "password updated",
	}, nil
}

func (ep UserEndpoint) Me(ctx context.Context, _ interface{}) (interface{}, error) {
	callerID, err := extractUserID(ctx)
	if err != nil {
		return nil, err
	}

	return ep.service.Get(callerID)
}

type updateUserRequest struct {
	UserID int
	Patch  UserPatch
}

func (ep UserEndpoint) Update(ctx context.Context, r interface{}) (interface{}, error) {
	caller, err := ep.caller(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(updateUserRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.Update(caller, req.UserID, req.Patch)
}

func (ep UserEndpoint) Users(ctx context.Context, _ interface{}) (interface{}, error) {
	caller, err := ep.caller(ctx)
	if err != nil {
		return nil, err
	}

	return ep.service.Users(caller)
}

type grantAdminRequest struct {
	UserID int
	Reason string
}

func (ep UserEndpoint) GrantAdmin(ctx context.Context, r interface{}) (interface{}, error) {
	caller, err := ep.caller(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(grantAdminRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.GrantAdmin(caller, req.UserID, req.Reason)
}

func (ep UserEndpoint) RevokeAdmin(ctx context.Context, r interface{}) (interface{}, error) {
	caller, err := ep.caller(ctx)
	if err != nil {
		return nil, err
	}

	userID, ok := r.(int)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.RevokeAdmin(caller, userID)
}

// AIHealth reports whether live generation is configured and reachable.
func (ep UserEndpoint) AIHealth(ctx context.Context, _ interface{}) (interface{}, error) {
	caller, err := ep.caller(ctx)
	if err != nil {
		return nil, err
	}
	if !caller.IsAdmin {
		return nil, errNotAdmin()
	}

	status := ep.generator.Status()
	return map[string]interface{}{
		"available":      status.Available,
		"key_configured": status.KeyConfigured,
		"model":          status.Model,
		"reachable":      ep.generator.TestConnection(ctx),
	}, nil
}

func (ep UserEndpoint) caller(ctx context.Context) (studynet.User, error) {
	callerID, err := extractUserID(ctx)
	if err != nil {
		return studynet.User{}, err
	}
	return ep.service.Get(callerID)
}
