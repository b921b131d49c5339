package aigen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet/log"
)

func TestFallbackSummary(t *testing.T) {
	highlights := []Highlight{
		{Text: "Mitochondria are the powerhouse of the cell", URL: "https://example.org/bio"},
		{Text: "Cells divide by mitosis"},
	}

	summary := FallbackSummary(highlights, "Bio 101")
	assert.NotEmpty(t, summary)
	assert.Contains(t, summary, "Bio 101")
	assert.Contains(t, summary, "Mitochondria are the powerhouse of the cell")
	assert.Contains(t, summary, "https://example.org/bio")

	assert.Contains(t, FallbackSummary(nil, ""), "Study Collection", "empty title falls back to a default")
}

func TestFallbackQuiz(t *testing.T) {
	quiz := FallbackQuiz(2)
	assert.Equal(t, 2, len(quiz.Questions))
	assert.NotEmpty(t, quiz.Title)
	require.NoError(t, validateQuiz(quiz))

	assert.Equal(t, len(fallbackQuestions), len(FallbackQuiz(0).Questions), "zero means the whole set")
	assert.Equal(t, len(fallbackQuestions), len(FallbackQuiz(100).Questions), "bounded by the set size")
}

func TestServiceWithoutKey(t *testing.T) {
	service := NewService(Config{}, log.New("test"))

	summary, err := service.Summarize(context.Background(), []Highlight{{Text: "some text"}}, "")
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	quiz, err := service.Quizify(context.Background(), "a summary", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, len(quiz.Questions))

	status := service.Status()
	assert.False(t, status.Available)
	assert.False(t, status.KeyConfigured)
	assert.False(t, service.TestConnection(context.Background()))
}

func TestServiceMasksUpstreamFailure(t *testing.T) {
	// A backend that always fails must never surface an error.
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer backend.Close()

	service := NewService(Config{APIKey: "key", BaseURL: backend.URL}, log.New("test"))

	summary, err := service.Summarize(context.Background(), []Highlight{{Text: "some text"}}, "Bio 101")
	require.NoError(t, err)
	assert.NotEmpty(t, summary)

	quiz, err := service.Quizify(context.Background(), "a summary", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, len(quiz.Questions))

	assert.False(t, service.TestConnection(context.Background()))
}

func TestClientQuizify(t *testing.T) {
	wellFormed := Quiz{
		Title: "Quiz based on the summary",
		Questions: fallbackQuestions[:2],
	}
	content, err := json.Marshal(wellFormed)
	require.NoError(t, err)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Here you go:\n" + string(content)}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer backend.Close()

	client := NewClient("key", "", backend.URL)
	quiz, err := client.Quizify(context.Background(), "a summary", 2)
	require.NoError(t, err, "JSON embedded in prose should still parse")
	assert.Equal(t, wellFormed.Title, quiz.Title)
	assert.Equal(t, 2, len(quiz.Questions))
}

func TestParseQuizRejectsMalformed(t *testing.T) {
	tts := map[string]string{
		"no json":          "sorry, I cannot help with that",
		"missing options":  `{"title": "t", "questions": [{"question": "q?", "options": {"A": "a"}, "correct_answer": "A"}]}`,
		"bad correct key":  `{"title": "t", "questions": [{"question": "q?", "options": {"A": "a", "B": "b", "C": "c", "D": "d"}, "correct_answer": "E"}]}`,
		"empty questions":  `{"title": "t", "questions": []}`,
	}

	for name, content := range tts {
		t.Run(name, func(t *testing.T) {
			_, err := parseQuiz(content)
			assert.Error(t, err)
		})
	}
}
