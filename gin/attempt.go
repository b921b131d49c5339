package gin

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/services"
)

type AttemptHandler struct {
	Authenticator Authenticator

	Service *services.AttemptService
}

func (h *AttemptHandler) RegisterRoutes(router *gin.Engine) {
	authed := func(f HandlerFunc) gin.HandlerFunc {
		return JSONFormatter(h.Authenticator.Authenticate(f))
	}

	router.GET("/attempts", authed(h.List))
	router.POST("/quizzes/:id/attempt", authed(h.Submit))
	router.GET("/quizzes/:id/attempts", authed(h.ListForQuiz))
	router.GET("/quizzes/:id/my-attempt", authed(h.MyAttempt))
	router.GET("/quizzes/:id/leaderboard", authed(h.Leaderboard))
	router.GET("/quizzes/:id/attempts/:aid/review", authed(h.Review))
}

func (h *AttemptHandler) List(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	attempts, err := h.Service.ListForUser(user)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": attempts,
	}, nil
}

func (h *AttemptHandler) Submit(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	quizID, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var body struct {
		Answers []string `json:"answers"`
	}
	if err := c.BindJSON(&body); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	attempt, err := h.Service.Submit(user, quizID, body.Answers)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": attempt,
	}, nil
}

func (h *AttemptHandler) ListForQuiz(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	quizID, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	attempts, err := h.Service.ListForQuiz(user, quizID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": attempts,
	}, nil
}

func (h *AttemptHandler) MyAttempt(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	quizID, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	attempt, err := h.Service.MyAttempt(user, quizID)
	if err != nil {
		return nil, err
	}

	if attempt.ID == 0 {
		return map[string]interface{}{
			"data": nil,
		}, nil
	}
	return map[string]interface{}{
		"data": attempt,
	}, nil
}

func (h *AttemptHandler) Leaderboard(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	quizID, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	entries, err := h.Service.Leaderboard(user, quizID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": entries,
	}, nil
}

func (h *AttemptHandler) Review(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	quizID, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}
	attemptID, err := paramInt("aid", c)
	if err != nil {
		return nil, err
	}

	review, err := h.Service.Review(user, attemptID)
	if err != nil {
		return nil, err
	}
	if review.Attempt.QuizID != quizID {
		return nil, errors.New(fmt.Sprintf("attempt %d does not belong to quiz %d", attemptID, quizID), errors.NotFound())
	}

	return map[string]interface{}{
		"data": review,
	}, nil
}
