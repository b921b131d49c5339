package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/services"
)

type SummaryHandler struct {
	Authenticator Authenticator

	Service *services.SummaryService
	Quizzes *services.QuizService
}

func (h *SummaryHandler) RegisterRoutes(router *gin.Engine) {
	authed := func(f HandlerFunc) gin.HandlerFunc {
		return JSONFormatter(h.Authenticator.Authenticate(f))
	}

	router.GET("/summaries", authed(h.List))
	router.POST("/summaries", authed(h.Create))
	router.GET("/summaries/:id", authed(h.Get))
	router.PUT("/summaries/:id", authed(h.Update))
	router.DELETE("/summaries/:id", authed(h.Delete))
	router.POST("/summaries/:id/regenerate", authed(h.Regenerate))
	router.GET("/summaries/:id/quiz", authed(h.Quiz))

	router.GET("/collections/:id/summaries", authed(h.ListForCollection))
}

func (h *SummaryHandler) List(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	summaries, err := h.Service.ListForUser(user)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": summaries,
	}, nil
}

func (h *SummaryHandler) ListForCollection(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	summaries, err := h.Service.ListForCollection(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": summaries,
	}, nil
}

func (h *SummaryHandler) Get(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	summary, err := h.Service.Get(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": summary,
	}, nil
}

func (h *SummaryHandler) Create(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	var body struct {
		CollectionID int    `json:"collection_id"`
		HighlightIDs []int  `json:"highlight_ids"`
		Content      string `json:"content"`
	}
	if err := c.BindJSON(&body); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	summary, err := h.Service.Create(c.Request.Context(), user, body.CollectionID, body.HighlightIDs, body.Content)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": summary,
	}, nil
}

func (h *SummaryHandler) Update(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var patch services.SummaryPatch
	if err := c.BindJSON(&patch); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	updated, err := h.Service.Update(user, id, patch)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": updated,
	}, nil
}

func (h *SummaryHandler) Delete(c *gin.Context) (interface{}, error) {
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

func (h *SummaryHandler) Regenerate(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	summary, err := h.Service.Regenerate(c.Request.Context(), user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": summary,
	}, nil
}

// Quiz returns the summary's quiz with the correct answers stripped, so a
// client can display it without leaking the key.
func (h *SummaryHandler) Quiz(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	quiz, err := h.Quizzes.GetBySummary(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": publicQuiz(quiz),
	}, nil
}
