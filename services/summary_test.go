package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet/errors"
)

func TestSummaryCreate(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	h1 := e.createHighlight(t, alice, collection.ID, "The mitochondria is the powerhouse of the cell")
	h2 := e.createHighlight(t, alice, collection.ID, "Ribosomes synthesize proteins")

	summary, err := e.summaryService.Create(ctx, alice, collection.ID, []int{h2.ID, h1.ID}, "")
	require.NoError(t, err)
	assert.NotZero(t, summary.ID)
	assert.Equal(t, []int{h1.ID, h2.ID}, summary.HighlightIDs, "ids are stored normalized")
	assert.Contains(t, summary.Content, "Bio 101")
	assert.Contains(t, summary.Content, "mitochondria")
}

func TestSummaryCreateRejectsDuplicateSet(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	h1 := e.createHighlight(t, alice, collection.ID, "mitochondria")
	h2 := e.createHighlight(t, alice, collection.ID, "ribosomes")

	_, err := e.summaryService.Create(ctx, alice, collection.ID, []int{h1.ID, h2.ID}, "")
	require.NoError(t, err)

	// Same set, different order and with duplicates: still the same set.
	_, err = e.summaryService.Create(ctx, alice, collection.ID, []int{h2.ID, h1.ID, h2.ID}, "")
	errors.AssertCode(t, err, 400)

	// A strict subset is a different set.
	_, err = e.summaryService.Create(ctx, alice, collection.ID, []int{h1.ID}, "")
	require.NoError(t, err)
}

func TestSummaryCreateValidation(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	other := e.createCollection(t, alice, "Chem 101")
	inOther := e.createHighlight(t, alice, other.ID, "covalent bonds")

	_, err := e.summaryService.Create(ctx, alice, collection.ID, nil, "")
	errors.AssertCode(t, err, 400)

	_, err = e.summaryService.Create(ctx, alice, collection.ID, []int{999}, "")
	errors.AssertCode(t, err, 404)

	// Highlights must be filed in the target collection.
	_, err = e.summaryService.Create(ctx, alice, collection.ID, []int{inOther.ID}, "")
	errors.AssertCode(t, err, 400)

	_, err = e.summaryService.Create(ctx, bob, collection.ID, []int{inOther.ID}, "")
	errors.AssertCode(t, err, 403)
}

func TestSummaryRegenerate(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	h1 := e.createHighlight(t, alice, collection.ID, "mitochondria")
	h2 := e.createHighlight(t, alice, collection.ID, "ribosomes")

	summary, err := e.summaryService.Create(ctx, alice, collection.ID, []int{h1.ID, h2.ID}, "")
	require.NoError(t, err)

	regenerated, err := e.summaryService.Regenerate(ctx, alice, summary.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.ID, regenerated.ID)
	assert.Equal(t, summary.HighlightIDs, regenerated.HighlightIDs)

	// Once a source highlight is gone the set can no longer be resolved.
	require.NoError(t, e.highlightService.Delete(alice, h2.ID))
	_, err = e.summaryService.Regenerate(ctx, alice, summary.ID)
	errors.AssertCode(t, err, 400)
}

func TestSummaryDeleteCascade(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	highlight := e.createHighlight(t, alice, collection.ID, "mitochondria")

	summary, err := e.summaryService.Create(ctx, alice, collection.ID, []int{highlight.ID}, "")
	require.NoError(t, err)
	quiz, err := e.quizService.Create(ctx, alice, summary.ID, "", nil, 0)
	require.NoError(t, err)
	_, err = e.attemptService.Submit(alice, quiz.ID, []string{"A", "A", "A", "A"})
	require.NoError(t, err)

	require.NoError(t, e.summaryService.Delete(alice, summary.ID))

	gotQuiz, err := e.quizzes.Get(quiz.ID)
	require.NoError(t, err)
	assert.Zero(t, gotQuiz.ID)

	attempts, err := e.attempts.GetForQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}

func TestSummaryCreateWithContent(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	highlight := e.createHighlight(t, alice, collection.ID, "mitochondria")

	summary, err := e.summaryService.Create(ctx, alice, collection.ID, []int{highlight.ID}, "my own notes")
	require.NoError(t, err)
	assert.Equal(t, "my own notes", summary.Content)
}

func TestSummaryUpdateSkipsDuplicateCheck(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	ctx := context.Background()

	collection := e.createCollection(t, alice, "Bio 101")
	h1 := e.createHighlight(t, alice, collection.ID, "mitochondria")
	h2 := e.createHighlight(t, alice, collection.ID, "ribosomes")

	first, err := e.summaryService.Create(ctx, alice, collection.ID, []int{h1.ID}, "")
	require.NoError(t, err)
	second, err := e.summaryService.Create(ctx, alice, collection.ID, []int{h2.ID}, "")
	require.NoError(t, err)

	// Updating can make two summaries cover the same set: the uniqueness
	// check only guards creation.
	ids := []int{h1.ID}
	updated, err := e.summaryService.Update(alice, second.ID, SummaryPatch{HighlightIDs: &ids})
	require.NoError(t, err)
	assert.Equal(t, first.HighlightIDs, updated.HighlightIDs)

	content := "edited"
	updated, err = e.summaryService.Update(alice, second.ID, SummaryPatch{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
}
