package gin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/inmem"
	"github.com/studynet/studynet/jwt"
	"github.com/studynet/studynet/services"
)

type fixture struct {
	router  *gin.Engine
	users   *inmem.UserRepository
	encoder *jwt.EncodeDecoder

	collections *inmem.CollectionRepository
	summaries   *inmem.SummaryRepository
	quizzes     *inmem.QuizRepository
	attempts    *inmem.AttemptRepository
}

func createRouter(t *testing.T) *fixture {
	users := inmem.NewUserRepository()
	collections := inmem.NewCollectionRepository()
	highlights := inmem.NewHighlightRepository()
	summaries := inmem.NewSummaryRepository()
	quizzes := inmem.NewQuizRepository()
	attempts := inmem.NewAttemptRepository()

	encoder := jwt.NewEncodeDecoder([]byte("test-signing-key"))
	authenticator := Authenticator{Encoder: encoder, Repository: users}

	gin.SetMode(gin.ReleaseMode) // avoid unnecessary log
	router := gin.New()

	collectionHandler := CollectionHandler{
		Authenticator: authenticator,
		Service:       services.NewCollectionService(collections, highlights, summaries, quizzes, attempts, users),
	}
	collectionHandler.RegisterRoutes(router)

	attemptHandler := AttemptHandler{
		Authenticator: authenticator,
		Service:       services.NewAttemptService(attempts, quizzes, summaries, collections, users),
	}
	attemptHandler.RegisterRoutes(router)

	return &fixture{
		router:      router,
		users:       users,
		encoder:     encoder,
		collections: collections,
		summaries:   summaries,
		quizzes:     quizzes,
		attempts:    attempts,
	}
}

func (f *fixture) createUser(t *testing.T, username string) (studynet.User, string) {
	user := studynet.User{Username: username, Email: username + "@studynet.test"}
	require.NoError(t, f.users.Upsert(&user))

	token, err := f.encoder.Encode(user.ID)
	require.NoError(t, err)
	return user, "Bearer " + token
}

func createReader(t *testing.T, i interface{}) io.Reader {
	data, err := json.Marshal(i)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func TestCollectionRoutes(t *testing.T) {
	f := createRouter(t)
	_, token := f.createUser(t, "alice")

	// No token
	req := httptest.NewRequest("GET", "/collections", nil)
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Create
	req = httptest.NewRequest("POST", "/collections", createReader(t, map[string]string{"title": "Bio 101"}))
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var created struct {
		Data studynet.Collection `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))
	assert.Equal(t, "Bio 101", created.Data.Title)
	assert.NotZero(t, created.Data.ID)

	// Missing title
	req = httptest.NewRequest("POST", "/collections", createReader(t, map[string]string{}))
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Get
	req = httptest.NewRequest("GET", fmt.Sprintf("/collections/%d", created.Data.ID), nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Bad id
	req = httptest.NewRequest("GET", "/collections/nope", nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	// Unknown id
	req = httptest.NewRequest("GET", "/collections/999", nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// A stranger cannot read it
	_, otherToken := f.createUser(t, "bob")
	req = httptest.NewRequest("GET", fmt.Sprintf("/collections/%d", created.Data.ID), nil)
	req.Header.Set("Authorization", otherToken)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRegisterHandlerParams(t *testing.T) {
	srv := NewServer()

	var gotParams map[string]string
	srv.RegisterHandler("/things/:id", "GET", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotParams, _ = r.Context().Value("params").(map[string]string)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/things/42", nil)
	resp := httptest.NewRecorder()
	srv.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, gotParams)
	assert.Equal(t, "42", gotParams["id"])
}

func TestPublicQuizHidesAnswers(t *testing.T) {
	quiz := studynet.Quiz{
		ID:    1,
		Title: "Quiz",
		Questions: []studynet.Question{
			{
				Question:      "2+2?",
				Options:       map[string]string{"A": "4", "B": "5", "C": "3", "D": "6"},
				CorrectAnswer: "A",
			},
		},
	}

	data, err := json.Marshal(map[string]interface{}{"data": publicQuiz(quiz)})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "correct_answer")
	assert.Contains(t, string(data), "2+2?")
}

func TestReviewQuizMismatch(t *testing.T) {
	f := createRouter(t)
	alice, token := f.createUser(t, "alice")

	collection := studynet.Collection{Title: "Bio 101", OwnerID: alice.ID, Collaborators: []int{}}
	require.NoError(t, f.collections.Upsert(&collection))
	summary := studynet.Summary{Content: "notes", CollectionID: collection.ID, OwnerID: alice.ID}
	require.NoError(t, f.summaries.Upsert(&summary))
	quiz := studynet.Quiz{Title: "Quiz", SummaryID: summary.ID, Questions: []studynet.Question{
		{Question: "2+2?", Options: map[string]string{"A": "4", "B": "5"}, CorrectAnswer: "A"},
	}}
	require.NoError(t, f.quizzes.Upsert(&quiz))
	attempt := studynet.QuizAttempt{QuizID: quiz.ID, UserID: alice.ID, Answers: []string{"A"}, Score: 1, TotalQuestions: 1, Percentage: 100}
	require.NoError(t, f.attempts.Upsert(&attempt))

	// Right quiz in the URL.
	req := httptest.NewRequest("GET", fmt.Sprintf("/quizzes/%d/attempts/%d/review", quiz.ID, attempt.ID), nil)
	req.Header.Set("Authorization", token)
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusOK, resp.Code)

	// The attempt does not belong to this quiz.
	req = httptest.NewRequest("GET", fmt.Sprintf("/quizzes/%d/attempts/%d/review", quiz.ID+1, attempt.ID), nil)
	req.Header.Set("Authorization", token)
	resp = httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
