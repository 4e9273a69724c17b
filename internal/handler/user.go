package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raffihq/recipe-api/internal/errs"
	"github.com/raffihq/recipe-api/internal/middleware"
	"github.com/raffihq/recipe-api/internal/model"
	"github.com/raffihq/recipe-api/internal/server"
	"github.com/raffihq/recipe-api/internal/service"
	"github.com/raffihq/recipe-api/internal/validation"
)

// UserHandler covers registration, token issuance, and the /me
// profile endpoints.
type UserHandler struct {
	Handler
	users *service.UserService
}

func NewUserHandler(s *server.Server, users *service.UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// currentUser pulls the authenticated user set by the auth middleware.
func currentUser(c echo.Context) (model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return model.User{}, errs.NewUnauthorizedError("Authentication credentials were not provided", true)
	}
	return user, nil
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"required,max=255"`
}

func (r *registerRequest) Validate() error {
	return validation.Struct(r)
}

// Register creates a new account.
func (h *UserHandler) Register(c echo.Context, req *registerRequest) (userResponse, error) {
	user, err := h.users.Register(c.Request().Context(), req.Email, req.Password, req.Name)
	if err != nil {
		return userResponse{}, err
	}
	return newUserResponse(user), nil
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *tokenRequest) Validate() error {
	return validation.Struct(r)
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Token checks credentials and rotates the caller's API token.
func (h *UserHandler) Token(c echo.Context, req *tokenRequest) (tokenResponse, error) {
	ctx := c.Request().Context()

	user, err := h.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return tokenResponse{}, err
	}

	key, err := h.users.IssueToken(ctx, user.ID)
	if err != nil {
		return tokenResponse{}, err
	}

	return tokenResponse{Token: key}, nil
}

// Me returns the authenticated user's profile.
func (h *UserHandler) Me(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newUserResponse(user))
}

type updateMeRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

func (r *updateMeRequest) Validate() error {
	return validation.Struct(r)
}

// UpdateMe applies a partial update to the authenticated user's
// profile.
func (h *UserHandler) UpdateMe(c echo.Context, req *updateMeRequest) (userResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return userResponse{}, err
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return userResponse{}, err
	}

	return newUserResponse(updated), nil
}

type replaceMeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name" validate:"required,max=255"`
}

func (r *replaceMeRequest) Validate() error {
	return validation.Struct(r)
}

// ReplaceMe overwrites the authenticated user's profile. All fields
// are required, matching PUT semantics.
func (h *UserHandler) ReplaceMe(c echo.Context, req *replaceMeRequest) (userResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return userResponse{}, err
	}

	updated, err := h.users.UpdateProfile(c.Request().Context(), user.ID, service.ProfileUpdate{
		Email:    &req.Email,
		Name:     &req.Name,
		Password: &req.Password,
	})
	if err != nil {
		return userResponse{}, err
	}

	return newUserResponse(updated), nil
}
