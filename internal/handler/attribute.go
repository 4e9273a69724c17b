package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/service"
	"github.com/raffihq/recipe-api/internal/validation"
)

// AttributeHandler covers the tag and ingredient endpoints. One
// instance per attribute kind, both sharing the same request shapes.
type AttributeHandler struct {
	Handler
	attributes *service.AttributeService
}

func NewAttributeHandler(s *server.Server, attributes *service.AttributeService) *AttributeHandler {
	return &AttributeHandler{
		Handler:    NewHandler(s),
		attributes: attributes,
	}
}

type listAttributesRequest struct {
	// AssignedOnly filters to attributes attached to at least one
	// recipe. Clients send 0 or 1.
	AssignedOnly int `query:"assigned_only" validate:"oneof=0 1"`
}

func (r *listAttributesRequest) Validate() error {
	return validation.Struct(r)
}

// List returns the caller's attributes, name-descending.
func (h *AttributeHandler) List(c echo.Context, req *listAttributesRequest) ([]model.Attribute, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	attrs, err := h.attributes.List(c.Request().Context(), user.ID, req.AssignedOnly == 1)
	if err != nil {
		return nil, err
	}

	if attrs == nil {
		attrs = []model.Attribute{}
	}
	return attrs, nil
}

type updateAttributeRequest struct {
	ID   int64  `param:"id" validate:"required,gte=1"`
	Name string `json:"name" validate:"required,max=255"`
}

func (r *updateAttributeRequest) Validate() error {
	return validation.Struct(r)
}

// Update renames one of the caller's attributes.
func (h *AttributeHandler) Update(c echo.Context, req *updateAttributeRequest) (model.Attribute, error) {
	user, err := currentUser(c)
	if err != nil {
		return model.Attribute{}, err
	}

	return h.attributes.Update(c.Request().Context(), req.ID, user.ID, req.Name)
}

type attributeIDRequest struct {
	ID int64 `param:"id" validate:"required,gte=1"`
}

func (r *attributeIDRequest) Validate() error {
	return validation.Struct(r)
}

// Delete removes one of the caller's attributes.
func (h *AttributeHandler) Delete(c echo.Context, req *attributeIDRequest) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.attributes.Delete(c.Request().Context(), req.ID, user.ID)
}
