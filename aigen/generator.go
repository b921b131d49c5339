package aigen

import (
	"context"
	"fmt"
	"strings"

	"github.com/studynet/studynet"
)

// Highlight is the slice of a highlight the generator needs. Callers map
// domain highlights into this, the generator never touches storage.
type Highlight struct {
	Text string
	URL  string
}

// Quiz is generated quiz content, not yet persisted.
type Quiz struct {
	Title     string              `json:"title"`
	Questions []studynet.Question `json:"questions"`
}

type Status struct {
	Available     bool   `json:"aiAvailable"`
	KeyConfigured bool   `json:"apiKeyConfigured"`
	Model         string `json:"model,omitempty"`
}

// Generator produces summary text and quiz content. Implementations must be
// side-effect free with respect to the domain model; the calling service
// persists the result.
type Generator interface {
	Summarize(ctx context.Context, highlights []Highlight, collectionTitle string) (string, error)
	Quizify(ctx context.Context, summary string, numQuestions int) (Quiz, error)

	Status() Status
	TestConnection(ctx context.Context) bool
}

// highlightsText renders highlights as a numbered list for prompts and for
// the fallback summary.
func highlightsText(highlights []Highlight) string {
	if len(highlights) == 0 {
		return "No highlights provided."
	}

	var b strings.Builder
	for i, h := range highlights {
		fmt.Fprintf(&b, "%d. %s\n", i+1, h.Text)
		if h.URL != "" {
			fmt.Fprintf(&b, "   Source: %s\n", h.URL)
		}
		b.WriteString("\n")
	}
	return b.String()
}
