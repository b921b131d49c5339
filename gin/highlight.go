package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/services"
)

type HighlightHandler struct {
	Authenticator Authenticator

	Service *services.HighlightService
}

func (h *HighlightHandler) RegisterRoutes(router *gin.Engine) {
	authed := func(f HandlerFunc) gin.HandlerFunc {
		return JSONFormatter(h.Authenticator.Authenticate(f))
	}

	router.GET("/highlights", authed(h.List))
	router.POST("/highlights", authed(h.Create))
	router.GET("/highlights/search", authed(h.Search))
	router.GET("/highlights/:id", authed(h.Get))
	router.PUT("/highlights/:id", authed(h.Update))
	router.DELETE("/highlights/:id", authed(h.Delete))
}

func (h *HighlightHandler) List(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	highlights, err := h.Service.ListForUser(user)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": highlights,
	}, nil
}

func (h *HighlightHandler) Search(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	highlights, err := h.Service.Search(user, c.Query("q"))
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": highlights,
	}, nil
}

func (h *HighlightHandler) Get(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	highlight, err := h.Service.Get(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": highlight,
	}, nil
}

func (h *HighlightHandler) Create(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	var highlight studynet.Highlight
	if err := c.BindJSON(&highlight); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	created, err := h.Service.Create(user, highlight)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": created,
	}, nil
}

func (h *HighlightHandler) Update(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var patch services.HighlightPatch
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

func (h *HighlightHandler) Delete(c *gin.Context) (interface{}, error) {
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
