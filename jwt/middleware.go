package jwt

import (
	"github.com/dgrijalva/jwt-go"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"
)

// Middleware parses and validates the bearer token stored in the context by
// the transport layer, and stores the claims for the endpoints.
func Middleware(key []byte) endpoint.Middleware {
	return kitjwt.NewParser(func(token *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.SigningMethodHS256, func() jwt.Claims { return &Claims{} })
}
