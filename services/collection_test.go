package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
)

func TestCollectionCreate(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")

	collection, err := e.collectionService.Create(alice, studynet.Collection{Title: "Bio 101"})
	require.NoError(t, err)
	assert.NotZero(t, collection.ID)
	assert.Equal(t, alice.ID, collection.OwnerID)
	assert.Empty(t, collection.Collaborators)

	_, err = e.collectionService.Create(alice, studynet.Collection{})
	errors.AssertCode(t, err, 400)

	_, err = e.collectionService.Create(alice, studynet.Collection{ID: 7, Title: "nope"})
	errors.AssertCode(t, err, 400)
}

func TestCollectionAccess(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")
	carol := e.createUser(t, "carol")
	admin := e.createAdmin(t, "root")

	collection := e.createCollection(t, alice, "Bio 101")
	_, err := e.collectionService.AddCollaborator(alice, collection.ID, bob.Email)
	require.NoError(t, err)

	for _, user := range []studynet.User{alice, bob, admin} {
		_, err := e.collectionService.Get(user, collection.ID)
		assert.NoError(t, err, user.Username)
	}

	_, err = e.collectionService.Get(carol, collection.ID)
	errors.AssertCode(t, err, 403)

	// Collaborators see shared collections in their list.
	collections, err := e.collectionService.ListForUser(bob)
	require.NoError(t, err)
	require.Len(t, collections, 1)
	assert.Equal(t, collection.ID, collections[0].ID)

	// Collaborators do not manage the collection.
	_, err = e.collectionService.Update(bob, collection.ID, CollectionPatch{})
	errors.AssertCode(t, err, 403)
	err = e.collectionService.Delete(bob, collection.ID)
	errors.AssertCode(t, err, 403)
}

func TestCollectionCollaborators(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	collection := e.createCollection(t, alice, "Bio 101")

	// The owner cannot be their own collaborator.
	_, err := e.collectionService.AddCollaborator(alice, collection.ID, alice.Email)
	errors.AssertCode(t, err, 400)

	// Unknown email.
	_, err = e.collectionService.AddCollaborator(alice, collection.ID, "ghost@studynet.test")
	errors.AssertCode(t, err, 404)

	added, err := e.collectionService.AddCollaborator(alice, collection.ID, bob.Email)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, added.ID)

	// Adding twice is rejected.
	_, err = e.collectionService.AddCollaborator(alice, collection.ID, bob.Email)
	errors.AssertCode(t, err, 400)

	// Only the owner manages collaborators.
	_, err = e.collectionService.AddCollaborator(bob, collection.ID, bob.Email)
	errors.AssertCode(t, err, 403)

	users, err := e.collectionService.Collaborators(alice, collection.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	// Removing someone who is not a collaborator is a 404, not a no-op.
	_, err = e.collectionService.RemoveCollaborator(alice, collection.ID, 999)
	errors.AssertCode(t, err, 404)

	updated, err := e.collectionService.RemoveCollaborator(alice, collection.ID, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.Collaborators)

	_, err = e.collectionService.Get(bob, collection.ID)
	errors.AssertCode(t, err, 403)
}

func TestCollectionAttachHighlights(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")
	bob := e.createUser(t, "bob")

	collection := e.createCollection(t, alice, "Bio 101")
	h1 := e.createHighlight(t, alice, 0, "mitochondria")
	h2 := e.createHighlight(t, alice, 0, "ribosomes")
	notMine := e.createHighlight(t, bob, 0, "chloroplasts")

	// Duplicated ids collapse to one attach each.
	attached, err := e.collectionService.AttachHighlights(alice, collection.ID, []int{h1.ID, h2.ID, h1.ID})
	require.NoError(t, err)
	require.Len(t, attached, 2)
	for _, h := range attached {
		assert.Equal(t, collection.ID, h.CollectionID)
	}

	// Re-attaching an already filed highlight fails.
	_, err = e.collectionService.AttachHighlights(alice, collection.ID, []int{h1.ID})
	errors.AssertCode(t, err, 400)

	// Someone else's highlight fails.
	_, err = e.collectionService.AttachHighlights(alice, collection.ID, []int{notMine.ID})
	errors.AssertCode(t, err, 400)
}

func TestCollectionAttachHighlightsAllOrNothing(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")

	collection := e.createCollection(t, alice, "Bio 101")
	h1 := e.createHighlight(t, alice, 0, "mitochondria")
	h2 := e.createHighlight(t, alice, 0, "ribosomes")

	_, err := e.collectionService.AttachHighlights(alice, collection.ID, []int{h1.ID, h2.ID, 999})
	errors.AssertCode(t, err, 404)

	// The valid highlights were not attached either.
	for _, id := range []int{h1.ID, h2.ID} {
		found, err := e.highlights.Get(id)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Zero(t, found[0].CollectionID)
	}
}

func TestCollectionRemoveHighlight(t *testing.T) {
	e := newEnv()
	alice := e.createUser(t, "alice")

	collection := e.createCollection(t, alice, "Bio 101")
	highlight := e.createHighlight(t, alice, collection.ID, "mitochondria")
	unfiled := e.createHighlight(t, alice, 0, "ribosomes")

	_, err := e.collectionService.RemoveHighlight(alice, collection.ID, unfiled.ID)
	errors.AssertCode(t, err, 400)

	removed, err := e.collectionService.RemoveHighlight(alice, collection.ID, highlight.ID)
	require.NoError(t, err)
	assert.Zero(t, removed.CollectionID)

	// Unlinked, not deleted.
	found, err := e.highlights.Get(highlight.ID)
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestCollectionDeleteCascade(t *testing.T) {
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

	require.NoError(t, e.collectionService.Delete(alice, collection.ID))

	// The highlight survives, unfiled.
	found, err := e.highlights.Get(highlight.ID)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Zero(t, found[0].CollectionID)

	// Summary, quiz and attempts are gone.
	gotSummary, err := e.summaries.Get(summary.ID)
	require.NoError(t, err)
	assert.Zero(t, gotSummary.ID)

	gotQuiz, err := e.quizzes.Get(quiz.ID)
	require.NoError(t, err)
	assert.Zero(t, gotQuiz.ID)

	attempts, err := e.attempts.GetForQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, attempts)
}
