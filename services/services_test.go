package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/aigen"
	"github.com/studynet/studynet/inmem"
	"github.com/studynet/studynet/log"
)

// memIndex is a naive substring index standing in for the real full-text
// index in service tests.
type memIndex struct {
	texts map[int]string
}

func newMemIndex() *memIndex {
	return &memIndex{texts: make(map[int]string)}
}

func (i *memIndex) Index(h *studynet.Highlight) error {
	i.texts[h.ID] = strings.ToLower(h.Text)
	return nil
}

func (i *memIndex) Search(q string) ([]int, error) {
	var ids []int
	for id, text := range i.texts {
		if strings.Contains(text, strings.ToLower(q)) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (i *memIndex) Delete(id int) error {
	delete(i.texts, id)
	return nil
}

type env struct {
	users       *inmem.UserRepository
	collections *inmem.CollectionRepository
	highlights  *inmem.HighlightRepository
	summaries   *inmem.SummaryRepository
	quizzes     *inmem.QuizRepository
	attempts    *inmem.AttemptRepository
	index       *memIndex

	collectionService *CollectionService
	highlightService  *HighlightService
	summaryService    *SummaryService
	quizService       *QuizService
	attemptService    *AttemptService
}

func newEnv() *env {
	e := &env{
		users:       inmem.NewUserRepository(),
		collections: inmem.NewCollectionRepository(),
		highlights:  inmem.NewHighlightRepository(),
		summaries:   inmem.NewSummaryRepository(),
		quizzes:     inmem.NewQuizRepository(),
		attempts:    inmem.NewAttemptRepository(),
		index:       newMemIndex(),
	}

	logger := log.New("test")
	generator := aigen.NewService(aigen.Config{}, logger)

	e.collectionService = NewCollectionService(e.collections, e.highlights, e.summaries, e.quizzes, e.attempts, e.users)
	e.highlightService = NewHighlightService(e.highlights, e.collections, e.index, logger)
	e.summaryService = NewSummaryService(e.summaries, e.collections, e.highlights, e.quizzes, e.attempts, generator)
	e.quizService = NewQuizService(e.quizzes, e.attempts, e.summaries, e.collections, generator)
	e.attemptService = NewAttemptService(e.attempts, e.quizzes, e.summaries, e.collections, e.users)
	return e
}

func (e *env) createUser(t *testing.T, username string) studynet.User {
	user := studynet.User{
		Username: username,
		Email:    username + "@studynet.test",
	}
	require.NoError(t, e.users.Upsert(&user))
	return user
}

func (e *env) createAdmin(t *testing.T, username string) studynet.User {
	user := studynet.User{
		Username: username,
		Email:    username + "@studynet.test",
		IsAdmin:  true,
	}
	require.NoError(t, e.users.Upsert(&user))
	return user
}

func (e *env) createCollection(t *testing.T, owner studynet.User, title string) studynet.Collection {
	collection, err := e.collectionService.Create(owner, studynet.Collection{Title: title})
	require.NoError(t, err)
	return collection
}

func (e *env) createHighlight(t *testing.T, owner studynet.User, collectionID int, text string) studynet.Highlight {
	highlight, err := e.highlightService.Create(owner, studynet.Highlight{
		URL:          "https://example.com/article",
		Text:         text,
		CollectionID: collectionID,
	})
	require.NoError(t, err)
	return highlight
}
