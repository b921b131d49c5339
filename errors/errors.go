package errors

import (
	"fmt"
)

// Error is an error carrying a code meant to be mapped to an HTTP status by
// the transport layer. Services create them, only handlers interpret them.
type Error interface {
	error

	Code() int
	Message() string
	Cause() error
}

// DefaultCode is used when no enricher sets a code. 500, internal error.
var DefaultCode = 500

type domainError struct {
	code  int
	msg   string
	cause *domainError
}

func (err *domainError) Error() string {
	if err.cause == nil {
		return err.msg
	}

	return fmt.Sprintf("%s: %v", err.msg, err.cause)
}

func (err *domainError) Code() int { return err.code }

func (err *domainError) Message() string { return err.msg }

func (err *domainError) Cause() error {
	if err.cause == nil {
		return nil
	}
	return err.cause
}

// Enricher decorates an error, typically with a code or a cause.
type Enricher func(error) error

func WithCode(code int) Enricher {
	return func(err error) error {
		if err == nil {
			return nil
		}

		if err, ok := err.(*domainError); ok {
			err.code = code
			return err
		}

		return &domainError{
			msg:  err.Error(),
			code: code,
		}
	}
}

func WithCause(cause error) Enricher {
	var inner *domainError
	switch cause := cause.(type) {
	case *domainError:
		inner = cause
	default:
		inner = &domainError{msg: cause.Error(), code: DefaultCode}
	}

	return func(err error) error {
		if err == nil {
			return nil
		}

		if err, ok := err.(*domainError); ok {
			err.cause = inner
			return err
		}

		return &domainError{
			msg:   err.Error(),
			code:  inner.code,
			cause: inner,
		}
	}
}

func New(msg string, fs ...Enricher) error {
	var err error
	err = &domainError{
		msg:  msg,
		code: DefaultCode,
	}

	for _, f := range fs {
		err = f(err)
	}

	return err
}

// IsCode reports whether err is an Error carrying the given code.
func IsCode(err error, code int) bool {
	e, ok := err.(Error)
	return ok && e.Code() == code
}
