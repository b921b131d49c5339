package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
)

func (e *env) createSummary(t *testing.T, owner studynet.User, collectionTitle string) studynet.Summary {
	collection := e.createCollection(t, owner, collectionTitle)
	highlight := e.createHighlight(t, owner, collection.ID, "mitochondria")

	summary, err := e.summaryService.Create(context.Background(), owner, collection.ID, []int{highlight.ID}, "")
	require.NoError(t, err)
	return summary
}

func TestQuizCreate(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	summary := e.createSummary(t, alice, "Bio 101")

	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	require.NoError(t, err)
	assert.NotZero(t, quiz.ID)
	assert.Equal(t, summary.ID, quiz.SummaryID)
	assert.Len(t, quiz.Questions, 4)

	// One quiz per summary.
	_, err = e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	errors.AssertCode(t, err, 400)

	_, err = e.quizService.Create(ctx, alice, 999, "", nil, 0)
	errors.AssertCode(t, err, 404)
}

func TestQuizCreateQuestionCount(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	two := e.createSummary(t, alice, "Bio 101")
	quiz, err := e.quizService.Create(ctx, alice, two.ID, "", nil, 2)
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 2)

	// Asking for more than the fallback set holds caps at the set size.
	many := e.createSummary(t, alice, "Chem 101")
	quiz, err = e.quizService.Create(ctx, alice, many.ID, "", nil, 50)
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 4)
}

func TestQuizGetBySummary(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	ctx := context.Background()

	summary := e.createSummary(t, alice, "Bio 101")

	_, err := e.quizService.GetBySummary(alice, summary.ID)
	errors.AssertCode(t, err, 404)

	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	require.NoError(t, err)

	got, err := e.quizService.GetBySummary(alice, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, got.ID)

	// Access follows the collection.
	_, err = e.quizService.GetBySummary(bob, summary.ID)
	errors.AssertCode(t, err, 403)
	_, err = e.quizService.Get(bob, quiz.ID)
	errors.AssertCode(t, err, 403)
}

func TestQuizDelete(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	summary := e.createSummary(t, alice, "Bio 101")
	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	require.NoError(t, err)
	_, err = e.attemptService.Submit(alice, quiz.ID, []string{"A", "A", "A", "A"})
	require.NoError(t, err)

	require.NoError(t, e.quizService.Delete(alice, quiz.ID))

	attempts, err := e.attempts.GetForQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)

	// The summary itself survives and can host a new quiz.
	_, err = e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	assert.NoError(t, err)
}

func TestQuizCreateWithQuestions(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	summary := e.createSummary(t, alice, "Bio 101")
	questions := []studynet.Question{
		{
			Question:      "What organelle produces ATP?",
			Options:       map[string]string{"A": "Mitochondria", "B": "Nucleus", "C": "Ribosome", "D": "Golgi"},
			CorrectAnswer: "A",
		},
	}

	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "Cell biology", questions, 0)
	require.NoError(t, err)
	assert.Equal(t, "Cell biology", quiz.Title)
	require.Len(t, quiz.Questions, 1)
	assert.Equal(t, "What organelle produces ATP?", quiz.Questions[0].Question)
}

func TestQuizRegenerateDropsAttempts(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	summary := e.createSummary(t, alice, "Bio 101")
	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	require.NoError(t, err)
	_, err = e.attemptService.Submit(alice, quiz.ID, []string{"A", "A", "A", "A"})
	require.NoError(t, err)

	regenerated, err := e.quizService.Regenerate(ctx, alice, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, quiz.ID, regenerated.ID)

	attempts, err := e.attempts.GetForQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts, "attempts graded against the old questions are dropped")
}

func TestQuizListAccessible(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	ctx := context.Background()

	summary := e.createSummary(t, alice, "Bio 101")
	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	require.NoError(t, err)

	quizzes, err := e.quizService.ListAccessible(alice)
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, quiz.ID, quizzes[0].ID)

	quizzes, err = e.quizService.ListAccessible(bob)
	require.NoError(t, err)
	assert.Empty(t, quizzes)

	// Sharing the collection shares its quizzes.
	_, err = e.collectionService.AddCollaborator(alice, quizCollectionID(t, e, quiz), bob.Email)
	require.NoError(t, err)
	quizzes, err = e.quizService.ListAccessible(bob)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)
}
