package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fleetflow/fleet-api/internal/api/middleware"
	"github.com/fleetflow/fleet-api/internal/api/response"
	"github.com/fleetflow/fleet-api/internal/core/domain"
	"github.com/fleetflow/fleet-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginUser struct {
	ID    string      `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	User      loginUser `json:"user"`
	ExpiresIn int64     `json:"expiresIn"`
}

// Login authenticates a user, returns a bearer token and also persists the
// identity into the session so cookie-based clients work.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  response.ErrorEnvelope
// @Failure      401   {object}  response.ErrorEnvelope
// @Failure      429   {object}  response.ErrorEnvelope
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if sess := middleware.SessionFrom(c); sess != nil {
		sess.Set(middleware.SessionUserID, result.User.ID)
		sess.Set(middleware.SessionEmail, result.User.Email)
		sess.Set(middleware.SessionName, result.User.Name)
		sess.Set(middleware.SessionRole, string(result.User.Role))
	}

	return response.JSON(c, http.StatusOK, loginResponse{
		Token: result.Token,
		User: loginUser{
			ID:    result.User.ID,
			Email: result.User.Email,
			Name:  result.User.Name,
			Role:  result.User.Role,
		},
		ExpiresIn: result.ExpiresIn,
	})
}

// Logout destroys the caller's session, if any.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Envelope
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if sess := middleware.SessionFrom(c); sess != nil {
		sess.Destroy()
	}
	return response.JSON(c, http.StatusOK, map[string]string{"status": "logged_out"})
}
