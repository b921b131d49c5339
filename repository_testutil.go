package studynet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Conformance suites for the repository interfaces. Each storage
// implementation calls these from its own tests so that bolt and inmem
// stay interchangeable.

func TestUserRepository(t *testing.T, repo UserRepository) {
	users := []*User{
		{Username: "pizza", Email: "pizza@studynet.test", IsAdmin: true},
		{Username: "yolo", Email: "yolo@studynet.test"},
	}

	for _, user := range users {
		require.NoError(t, repo.Upsert(user), "insert %s must not fail", user.Username)
		require.NotEqual(t, 0, user.ID, "id must be set by insert")
	}
	require.NotEqual(t, users[0].ID, users[1].ID, "all ids must be different")

	for _, user := range users {
		got, err := repo.Get(user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
		assert.Equal(t, user.Email, got.Email)
		assert.Equal(t, user.IsAdmin, got.IsAdmin)
	}

	got, err := repo.GetByEmail("yolo@studynet.test")
	require.NoError(t, err)
	assert.Equal(t, users[1].ID, got.ID)

	got, err = repo.GetByUsername("pizza")
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, got.ID)

	got, err = repo.GetByUsername("nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, got.ID, "unknown username must yield the zero user")

	users[0].Email = "pizza@yolo.space"
	require.NoError(t, repo.Upsert(users[0]))
	got, err = repo.Get(users[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "pizza@yolo.space", got.Email)

	all, err := repo.List()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, repo.Delete(users[1].ID))
	got, err = repo.Get(users[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ID, "deleted user must yield the zero user")
}

func TestResetTokenRepository(t *testing.T, repo ResetTokenRepository) {
	token := ResetToken{
		Token:     "tok-1",
		UserID:    1,
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Insert(token))

	got, err := repo.Get("tok-1")
	require.NoError(t, err)
	assert.Equal(t, 1, got.UserID)

	got, err = repo.Get("tok-2")
	require.NoError(t, err)
	assert.Equal(t, "", got.Token, "unknown token must yield the zero value")

	require.NoError(t, repo.Delete("tok-1"))
	got, err = repo.Get("tok-1")
	require.NoError(t, err)
	assert.Equal(t, "", got.Token)
}

func TestCollectionRepository(t *testing.T, repo CollectionRepository) {
	collections := []*Collection{
		{Title: "Bio 101", OwnerID: 1, Collaborators: []int{}},
		{Title: "Chem 101", OwnerID: 2, Collaborators: []int{1}},
		{Title: "Private", OwnerID: 2, Collaborators: []int{}},
	}

	for _, collection := range collections {
		require.NoError(t, repo.Upsert(collection))
		require.NotEqual(t, 0, collection.ID)
	}

	got, err := repo.Get(collections[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bio 101", got.Title)

	// Owned and collaborated, not the rest.
	forUser, err := repo.GetForUser(1)
	require.NoError(t, err)
	require.Len(t, forUser, 2)

	collections[0].Title = "Bio 102"
	require.NoError(t, repo.Upsert(collections[0]))
	got, err = repo.Get(collections[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Bio 102", got.Title)

	require.NoError(t, repo.Delete(collections[2].ID))
	got, err = repo.Get(collections[2].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ID)
}

func TestHighlightRepository(t *testing.T, repo HighlightRepository) {
	highlights := []*Highlight{
		{URL: "https://example.com/a", Text: "alpha", OwnerID: 1},
		{URL: "https://example.com/b", Text: "beta", OwnerID: 1},
		{URL: "https://example.com/c", Text: "gamma", OwnerID: 2},
	}

	for _, highlight := range highlights {
		require.NoError(t, repo.Upsert(highlight))
		require.NotEqual(t, 0, highlight.ID)
	}

	got, err := repo.Get(highlights[0].ID, highlights[2].ID, 999)
	require.NoError(t, err)
	assert.Len(t, got, 2, "missing ids are skipped, not an error")

	forUser, err := repo.GetForUser(1)
	require.NoError(t, err)
	assert.Len(t, forUser, 2)

	err = repo.Attach(7, []int{highlights[0].ID, highlights[1].ID})
	require.NoError(t, err)
	forCollection, err := repo.GetForCollection(7)
	require.NoError(t, err)
	assert.Len(t, forCollection, 2)

	// A missing id rolls the whole batch back.
	err = repo.Attach(8, []int{highlights[2].ID, 999})
	require.Error(t, err)
	got, err = repo.Get(highlights[2].ID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].CollectionID)

	// Attaching a highlight already in the collection fails too.
	err = repo.Attach(7, []int{highlights[0].ID})
	require.Error(t, err)

	require.NoError(t, repo.Delete(highlights[2].ID))
	got, err = repo.Get(highlights[2].ID)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSummaryRepository(t *testing.T, repo SummaryRepository) {
	summaries := []*Summary{
		{Content: "first", CollectionID: 1, OwnerID: 1, HighlightIDs: []int{1, 2}},
		{Content: "second", CollectionID: 1, OwnerID: 2, HighlightIDs: []int{3}},
		{Content: "third", CollectionID: 2, OwnerID: 1, HighlightIDs: []int{4}},
	}

	for _, summary := range summaries {
		require.NoError(t, repo.Upsert(summary))
		require.NotEqual(t, 0, summary.ID)
	}

	got, err := repo.Get(summaries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got.HighlightIDs)

	forCollection, err := repo.GetForCollection(1)
	require.NoError(t, err)
	assert.Len(t, forCollection, 2)

	forUser, err := repo.GetForUser(1)
	require.NoError(t, err)
	assert.Len(t, forUser, 2)

	require.NoError(t, repo.Delete(summaries[1].ID))
	got, err = repo.Get(summaries[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ID)
}

func TestQuizRepository(t *testing.T, repo QuizRepository) {
	quiz := &Quiz{Title: "Quiz", SummaryID: 3, Questions: []Question{
		{Question: "2+2?", Options: map[string]string{"A": "4", "B": "5"}, CorrectAnswer: "A"},
	}}
	require.NoError(t, repo.Upsert(quiz))
	require.NotEqual(t, 0, quiz.ID)

	got, err := repo.GetBySummary(3)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)
	require.Len(t, got.Questions, 1)
	assert.Equal(t, "A", got.Questions[0].CorrectAnswer)

	got, err = repo.GetBySummary(99)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ID, "summary without quiz must yield the zero quiz")

	require.NoError(t, repo.Delete(quiz.ID))
	got, err = repo.Get(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.ID)
}

func TestAttemptRepository(t *testing.T, repo AttemptRepository) {
	attempts := []*QuizAttempt{
		{QuizID: 1, UserID: 1, Answers: []string{"A"}, Score: 1, TotalQuestions: 1, Percentage: 100},
		{QuizID: 1, UserID: 2, Answers: []string{"B"}, Score: 0, TotalQuestions: 1, Percentage: 0},
		{QuizID: 2, UserID: 1, Answers: []string{"A"}, Score: 1, TotalQuestions: 1, Percentage: 100},
	}

	for _, attempt := range attempts {
		require.NoError(t, repo.Upsert(attempt))
		require.NotEqual(t, 0, attempt.ID)
	}

	forQuiz, err := repo.GetForQuiz(1)
	require.NoError(t, err)
	assert.Len(t, forQuiz, 2)

	forUser, err := repo.GetForUser(1)
	require.NoError(t, err)
	assert.Len(t, forUser, 2)

	mine, err := repo.GetUserAttempt(1, 2)
	require.NoError(t, err)
	assert.Equal(t, attempts[1].ID, mine.ID)

	none, err := repo.GetUserAttempt(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 0, none.ID)

	require.NoError(t, repo.DeleteForQuiz(1))
	forQuiz, err = repo.GetForQuiz(1)
	require.NoError(t, err)
	assert.Empty(t, forQuiz)

	forQuiz, err = repo.GetForQuiz(2)
	require.NoError(t, err)
	assert.Len(t, forQuiz, 1, "other quizzes must keep their attempts")
}
