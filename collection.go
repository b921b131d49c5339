package studynet

import (
	"time"
)

// Collection groups highlights captured by a user. The owner can share it
// with collaborators, who get read/write access to its content but not to
// ownership operations (rename, delete, collaborator management).
type Collection struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`

	OwnerID       int   `json:"ownerID"`
	Collaborators []int `json:"collaborators"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasCollaborator reports whether userID is a collaborator. The owner is
// never in the collaborator list.
func (c Collection) HasCollaborator(userID int) bool {
	for _, id := range c.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

type CollectionRepository interface {
	Get(int) (Collection, error)
	// GetForUser returns the collections the user owns or collaborates on.
	GetForUser(int) ([]Collection, error)
	Upsert(*Collection) error
	Delete(int) error
}
