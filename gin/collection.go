package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/studynet/studynet"
	"github.com/studynet/studynet/errors"
	"github.com/studynet/studynet/services"
)

type CollectionHandler struct {
	Authenticator Authenticator

	Service *services.CollectionService
}

func (h *CollectionHandler) RegisterRoutes(router *gin.Engine) {
	authed := func(f HandlerFunc) gin.HandlerFunc {
		return JSONFormatter(h.Authenticator.Authenticate(f))
	}

	router.GET("/collections", authed(h.List))
	router.POST("/collections", authed(h.Create))
	router.GET("/collections/:id", authed(h.Get))
	router.PUT("/collections/:id", authed(h.Update))
	router.DELETE("/collections/:id", authed(h.Delete))

	router.GET("/collections/:id/highlights", authed(h.Highlights))
	router.POST("/collections/:id/highlights", authed(h.AttachHighlights))
	router.DELETE("/collections/:id/highlights/:hid", authed(h.RemoveHighlight))

	router.GET("/collections/:id/collaborators", authed(h.Collaborators))
	router.POST("/collections/:id/collaborators", authed(h.AddCollaborator))
	router.DELETE("/collections/:id/collaborators/:uid", authed(h.RemoveCollaborator))
}

func (h *CollectionHandler) List(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	collections, err := h.Service.ListForUser(user)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": collections,
	}, nil
}

func (h *CollectionHandler) Get(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	collection, err := h.Service.Get(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": collection,
	}, nil
}

func (h *CollectionHandler) Create(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	var collection studynet.Collection
	if err := c.BindJSON(&collection); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	created, err := h.Service.Create(user, collection)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": created,
	}, nil
}

func (h *CollectionHandler) Update(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var patch services.CollectionPatch
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

func (h *CollectionHandler) Delete(c *gin.Context) (interface{}, error) {
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

func (h *CollectionHandler) Highlights(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	highlights, err := h.Service.Highlights(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": highlights,
	}, nil
}

func (h *CollectionHandler) AttachHighlights(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var body struct {
		HighlightIDs []int `json:"highlight_ids"`
	}
	if err := c.BindJSON(&body); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	attached, err := h.Service.AttachHighlights(user, id, body.HighlightIDs)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": attached,
	}, nil
}

func (h *CollectionHandler) RemoveHighlight(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}
	highlightID, err := paramInt("hid", c)
	if err != nil {
		return nil, err
	}

	highlight, err := h.Service.RemoveHighlight(user, id, highlightID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": highlight,
	}, nil
}

func (h *CollectionHandler) Collaborators(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	collaborators, err := h.Service.Collaborators(user, id)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": collaborators,
	}, nil
}

func (h *CollectionHandler) AddCollaborator(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := c.BindJSON(&body); err != nil {
		return nil, errors.New("could not read request", errors.BadRequest(), errors.WithCause(err))
	}

	collaborator, err := h.Service.AddCollaborator(user, id, body.Email)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": collaborator,
	}, nil
}

func (h *CollectionHandler) RemoveCollaborator(c *gin.Context) (interface{}, error) {
	user, err := GetUser(c)
	if err != nil {
		return nil, err
	}

	id, err := paramInt("id", c)
	if err != nil {
		return nil, err
	}
	userID, err := paramInt("uid", c)
	if err != nil {
		return nil, err
	}

	collection, err := h.Service.RemoveCollaborator(user, id, userID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": collection,
	}, nil
}
