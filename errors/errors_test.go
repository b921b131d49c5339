package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New("boom")
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, DefaultCode, err.(Error).Code())

	err = New("not here", NotFound())
	assert.Equal(t, 404, err.(Error).Code())
	assert.Equal(t, "not here", err.(Error).Message())

	err = New("nope", BadRequest(), WithCode(403))
	assert.Equal(t, 403, err.(Error).Code(), "last enricher wins")
}

func TestWithCode(t *testing.T) {
	tts := map[string]struct {
		err  error
		code int
	}{
		"plain error gets wrapped":  {err: errors.New("plain"), code: 404},
		"typed error keeps message": {err: New("typed", BadRequest()), code: 401},
	}

	for name, tt := range tts {
		t.Run(name, func(t *testing.T) {
			err := WithCode(tt.code)(tt.err)
			assert.Equal(t, tt.code, err.(Error).Code())
			assert.Equal(t, tt.err.Error(), err.Error())
		})
	}

	assert.Nil(t, WithCode(404)(nil), "nil in, nil out")
}

func TestWithCause(t *testing.T) {
	cause := errors.New("db exploded")
	err := New("could not get user", WithCause(cause))
	assert.Equal(t, "could not get user: db exploded", err.Error())
	assert.Equal(t, "db exploded", err.(Error).Cause().Error())

	// The cause's code is forwarded when the wrapper has none of its own.
	err = WithCause(New("gone", NotFound()))(errors.New("lookup failed"))
	assert.Equal(t, 404, err.(Error).Code())

	// An explicit code on the wrapper is kept.
	err = New("bad input", BadRequest(), WithCause(New("gone", NotFound())))
	assert.Equal(t, 400, err.(Error).Code())

	assert.Nil(t, WithCause(cause)(nil), "nil in, nil out")
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode(New("x", NotFound()), 404))
	assert.False(t, IsCode(New("x", NotFound()), 400))
	assert.False(t, IsCode(errors.New("x"), 404))
}
