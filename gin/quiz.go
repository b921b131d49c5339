package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/services"
)

type QuizHandler struct {
	Authenticator Authenticator

	Service *services.QuizService
}

func (h *QuizHandler) RegisterRoutes(router *gin.Engine) {
	authed := func(f HandlerFunc) gin.HandlerFunc {
		return JSONFormatter(h.Authenticator.Authenticate(f))
	}

	router.GET("/quizzes", authed(h.List))
	router.POST("/quizzes", authed(h.Create))
	router.GET("/quizzes/:id", authed(h.Get))
	router.PUT("/quizzes/:id", authed(h.Update))
	router.DELETE("/quizzes/:id", authed(h.Delete))
	router.POST("/quizzes/:id/regenerate", authed(h.Regenerate))
}

// questionView is a question as shown to a quiz taker: no correct answer.
type questionView struct {
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

type quizView struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	Questions []questionView `json:"questions"`
	Timestamp time.Time      `json:"timestamp"`
	SummaryID int            `json:"summary_id"`
}

func publicQuiz(quiz studynet.Quiz) quizView {
	questions := make([]questionView, len(quiz.Questions))
	for i, q := range quiz.Questions {
		questions[i] = questionView{
			Question: q.Question,
			Options:  q.Options,
		}
	}

	return quizView{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Questions: questions,
		Timestamp: quiz.Timestamp,
		SummaryID: quiz.SummaryID,
	}
}

func (h *QuizHandler) List(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	quizzes, err := h.Service.ListAccessible(user)
	if err != nil {
		return nil, err
	}

	views := make([]quizView, len(quizzes))
	for i, quiz := range quizzes {
		views[i] = publicQuiz(quiz)
	}

	return map[string]interface{}{
		"data": views,
	}, nil
}

func (h *QuizHandler) Get(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	quiz, err := h.Service.Get(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": publicQuiz(quiz),
	}, nil
}

func (h *QuizHandler) Create(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	var body struct {
		SummaryID    int                 `json:"summary_id"`
		Title        string              `json:"title"`
		Questions    []studynet.Question `json:"questions"`
		NumQuestions int                 `json:"num_questions"`
	}
	if err := c.BindJSON(&body); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	quiz, err := h.Service.Create(c.Request.Context(), user, body.SummaryID, body.Title, body.Questions, body.NumQuestions)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": publicQuiz(quiz),
	}, nil
}

func (h *QuizHandler) Update(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var patch services.QuizPatch
	if err := c.BindJSON(&patch); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	quiz, err := h.Service.Update(user, id, patch)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": publicQuiz(quiz),
	}, nil
}

func (h *QuizHandler) Delete(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	if err := h.Service.Delete(user, id); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": "ok",
	}, nil
}

func (h *QuizHandler) Regenerate(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	quiz, err := h.Service.Regenerate(c.Request.Context(), user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": publicQuiz(quiz),
	}, nil
}
