package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/freelance/internal/domain"
	"github.com/sumire/freelance/internal/service"
)

// ResourceHandler serves CRUD endpoints for one owner-scoped resource.
type ResourceHandler[R any, In service.Input, Row any] struct {
	resource *service.Resource[R, In, Row]
	// filter narrows a list to one project; nil for resources that do not
	// belong to a project.
	filter func(items []R, projectID string) []R
}

// NewResourceHandler creates a ResourceHandler.
func NewResourceHandler[R any, In service.Input, Row any](resource *service.Resource[R, In, Row]) *ResourceHandler[R, In, Row] {
	return &ResourceHandler[R, In, Row]{resource: resource}
}

// NewChildHandler creates a ResourceHandler whose list honours ?project_id=.
func NewChildHandler[R domain.ProjectScoped, In service.Input, Row any](resource *service.Resource[R, In, Row]) *ResourceHandler[R, In, Row] {
	return &ResourceHandler[R, In, Row]{resource: resource, filter: domain.ForProject[R]}
}

// Register mounts the handler's routes on g.
func (h *ResourceHandler[R, In, Row]) Register(g *echo.Group) {
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List returns the caller's records, newest first.
func (h *ResourceHandler[R, In, Row]) List(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	items, err := h.resource.List(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	if h.filter != nil {
		items = h.filter(items, c.QueryParam("project_id"))
	}

	return JSONList(c, http.StatusOK, items)
}

// Get returns one record.
func (h *ResourceHandler[R, In, Row]) Get(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	item, err := h.resource.Get(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, item)
}

// Create stores a new record from the request body.
func (h *ResourceHandler[R, In, Row]) Create(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	in, err := bindInput[In](c)
	if err != nil {
		return err
	}

	item, err := h.resource.Create(c.Request().Context(), owner, in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusCreated, item)
}

// Update applies the fields present in the request body.
func (h *ResourceHandler[R, In, Row]) Update(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	in, err := bindInput[In](c)
	if err != nil {
		return err
	}

	item, err := h.resource.Update(c.Request().Context(), owner, c.Param("id"), in)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, item)
}

// Delete removes a record.
func (h *ResourceHandler[R, In, Row]) Delete(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	if err := h.resource.Delete(c.Request().Context(), owner, c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func bindInput[In any](c echo.Context) (In, error) {
	var in In
	if err := c.Bind(&in); err != nil {
		return in, fmt.Errorf("%w: invalid request body", domain.ErrInvalidInput)
	}
	return in, nil
}
