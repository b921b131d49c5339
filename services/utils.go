package services

import (
	"fmt"

	"github.com/studynet/studynet/errors"
)

// errUserNotFound returns a 404 for when a user could not be found.
func errUserNotFound(id int) error {
	return errors.New(fmt.Sprintf("no user for id %d", id), errors.NotFound())
}

// errCollectionNotFound returns a 404 for when a collection could not be found.
func errCollectionNotFound(id int) error {
	return errors.New(fmt.Sprintf("no collection for id %d", id), errors.NotFound())
}

// errHighlightNotFound returns a 404 for when a highlight could not be found.
func errHighlightNotFound(id int) error {
	return errors.New(fmt.Sprintf("no highlight for id %d", id), errors.NotFound())
}

// errSummaryNotFound returns a 404 for when a summary could not be found.
func errSummaryNotFound(id int) error {
	return errors.New(fmt.Sprintf("no summary for id %d", id), errors.NotFound())
}

// errQuizNotFound returns a 404 for when a quiz could not be found.
func errQuizNotFound(id int) error {
	return errors.New(fmt.Sprintf("no quiz for id %d", id), errors.NotFound())
}

// errAttemptNotFound returns a 404 for when a quiz attempt could not be found.
func errAttemptNotFound(id int) error {
	return errors.New(fmt.Sprintf("no attempt for id %d", id), errors.NotFound())
}

// errNoAccess returns the 403 used whenever a policy predicate denies.
func errNoAccess() error {
	return errors.New("you do not have access to this resource", errors.Forbidden())
}
