package studynet

import (
	"sort"
	"time"
)

// Summary condenses a specific set of highlights within a collection.
// Within one collection no two summaries may cover the same highlight set.
type Summary struct {
	ID        int       `json:"id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`

	CollectionID int   `json:"collectionID"`
	OwnerID      int   `json:"ownerID"`
	HighlightIDs []int `json:"highlightIDs"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NormalizeIDs sorts ids and drops duplicates, so highlight sets can be
// compared independently of input ordering.
func NormalizeIDs(ids []int) []int {
	normalized := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	sort.Ints(normalized)
	return normalized
}

// SameIDSet compares two id lists as sets.
func SameIDSet(a, b []int) bool {
	na, nb := NormalizeIDs(a), NormalizeIDs(b)
	if len(na) != len(nb) {
		return false
	}
	for i := range na {
		if na[i] != nb[i] {
			return false
		}
	}
	return true
}

type SummaryRepository interface {
	Get(int) (Summary, error)
	GetForCollection(int) ([]Summary, error)
	GetForUser(int) ([]Summary, error)
	Upsert(*Summary) error
	Delete(int) error
}
