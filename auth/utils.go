package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	kitjwt "github.com/go-kit/kit/auth/jwt"

	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/jwt"
)

var errInvalidRequest = errors.New("invalid request", errors.BadRequest())

// errUserNotFound returns a 404 for when a user could not be found.
func errUserNotFound(id int) error {
	return errors.New(fmt.Sprintf("no user for id %d", id), errors.NotFound())
}

// errNotAdmin returns a 403 for when admin privilege is needed.
func errNotAdmin() error {
	return errors.New("admin privilege required", errors.Forbidden())
}

// HTTPServer defines the interface to register the http handlers.
type HTTPServer interface {
	RegisterHandler(path, method string, f http.Handler)
}

func randToken(size int) string {
	b := make([]byte, size)
	rand.Read(b)
	return base64.StdEncoding.EncodeToString(b)
}

// extractUserID returns the user id present in the context, or an error if
// there is no user id or the claims are not correct.
func extractUserID(ctx context.Context) (int, error) {
	claims := ctx.Value(kitjwt.JWTClaimsContextKey)
	if claims == nil {
		return 0, errors.New("no user", errors.WithCode(http.StatusUnauthorized))
	}

	snClaims, ok := claims.(*jwt.Claims)
	if !ok {
		return 0, errors.New("invalid claims", errors.WithCode(http.StatusForbidden))
	}

	return snClaims.UserID, nil
}

// encodeError writes an error as an HTTP response. It handles the status
// code contained in the error.
func encodeError(_ context.Context, err error, w http.ResponseWriter) {
	statusCode := http.StatusInternalServerError
	if err, ok := err.(errors.Error); ok {
		statusCode = err.Code()
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": err.Error(),
	})
}
