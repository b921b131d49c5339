package studynet

import (
	"time"
)

// Highlight is a text excerpt captured from a web page. CollectionID is 0
// while the highlight is unfiled; removing it from a collection unlinks it,
// it never deletes the highlight. OwnerID never changes.
type Highlight struct {
	ID        int       `json:"id"`
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`

	OwnerID      int `json:"ownerID"`
	CollectionID int `json:"collectionID,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type HighlightRepository interface {
	Get(...int) ([]Highlight, error)
	GetForUser(int) ([]Highlight, error)
	GetForCollection(int) ([]Highlight, error)
	Upsert(*Highlight) error
	Delete(int) error

	// Attach files all the given highlights under collectionID in a single
	// transaction. If any of them is missing or already in that collection
	// the whole batch is rolled back.
	Attach(collectionID int, highlightIDs []int) error
}

// HighlightIndex indexes highlight text for full-text search.
type HighlightIndex interface {
	Index(*Highlight) error
	Search(q string) ([]int, error)
	Delete(int) error
}
