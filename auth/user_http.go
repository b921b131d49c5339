package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/studynet/studynet/aigen"
	"github.com/studynet/studynet/jwt"
)

func RegisterUserHTTP(srv HTTPServer, service *UserService, generator aigen.Generator, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}
	authenticationMiddleware := jwt.Middleware(jwtKey)

	ep := NewUserEndpoint(service, generator)

	// Public handlers
	registerHandler := kithttp.NewServer(
		ep.Register,
		decodeRegisterRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	loginHandler := kithttp.NewServer(
		ep.Login,
		decodeLoginRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	resetRequestHandler := kithttp.NewServer(
		ep.ResetPasswordRequest,
		decodeResetPasswordRequestRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	resetHandler := kithttp.NewServer(
		ep.ResetPassword,
		decodeResetPasswordRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Authenticated handlers
	meHandler := kithttp.NewServer(
		authenticationMiddleware(ep.Me),
		decodeMeRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	updateHandler := kithttp.NewServer(
		authenticationMiddleware(ep.Update),
		decodeUpdateUserRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	usersHandler := kithttp.NewServer(
		authenticationMiddleware(ep.Users),
		decodeMeRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	grantAdminHandler := kithttp.NewServer(
		authenticationMiddleware(ep.GrantAdmin),
		decodeGrantAdminRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	revokeAdminHandler := kithttp.NewServer(
		authenticationMiddleware(ep.RevokeAdmin),
		decodeRevokeAdminRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)
	aiHealthHandler := kithttp.NewServer(
		authenticationMiddleware(ep.AIHealth),
		decodeMeRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	srv.RegisterHandler("/register", "POST", registerHandler)
	srv.RegisterHandler("/login", "POST", loginHandler)
	srv.RegisterHandler("/reset-password-request", "POST", resetRequestHandler)
	srv.RegisterHandler("/reset-password", "POST", resetHandler)
	srv.RegisterHandler("/me", "GET", meHandler)
	srv.RegisterHandler("/users/:id", "PUT", updateHandler)
	srv.RegisterHandler("/admin/users", "GET", usersHandler)
	srv.RegisterHandler("/admin/users/:id/grant-admin", "POST", grantAdminHandler)
	srv.RegisterHandler("/admin/users/:id/revoke-admin", "POST", revokeAdminHandler)
	srv.RegisterHandler("/admin/ai-health", "GET", aiHealthHandler)
}

func decodeMeRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return nil, nil
}

func decodeRegisterRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}

	return registerRequest{
		Username: body.Username,
		Email:    body.Email,
		Password: body.Password,
	}, nil
}

func decodeLoginRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}

	return loginRequest{
		Email:    body.Email,
		Password: body.Password,
	}, nil
}

func decodeResetPasswordRequestRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Email, nil
}

func decodeResetPasswordRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}

	return resetPasswordRequest{
		Token:    body.Token,
		Password: body.Password,
	}, nil
}

func decodeUpdateUserRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params := ctx.Value("params").(map[string]string)
	userID, err := strconv.Atoi(params["id"])
	if err != nil {
		return nil, err
	}

	var patch UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		return nil, err
	}

	return updateUserRequest{
		UserID: userID,
		Patch:  patch,
	}, nil
}

func decodeGrantAdminRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params := ctx.Value("params").(map[string]string)
	userID, err := strconv.Atoi(params["id"])
	if err != nil {
		return nil, err
	}

	var body struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}

	return grantAdminRequest{
		UserID: userID,
		Reason: body.Reason,
	}, nil
}

func decodeRevokeAdminRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params := ctx.Value("params").(map[string]string)
	userID, err := strconv.Atoi(params["id"])
	if err != nil {
		return nil, err
	}
	return userID, nil
}
