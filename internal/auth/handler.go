package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/member-hub/memberhub/internal/identity"
)

// Handler exposes the register and login endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler constructs an auth HTTP handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string        `json:"token"`
	Role     identity.Role `json:"role"`
	UserID   string        `json:"userId"`
	Username string        `json:"username"`
}

// Register creates a credential and its linked profile.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "Registration failed: "+err.Error())
	}

	if req.Role != "" && !strings.EqualFold(req.Role, string(identity.ParseRole(req.Role))) {
		h.logger.Debug("unrecognized role, defaulting to VISITOR", slog.String("role", req.Role))
	}

	view, err := h.svc.Register(c.UserContext(), RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "Registration failed: "+err.Error())
	}

	h.logger.Info("user registered",
		slog.String("user_id", view.ID),
		slog.String("username", view.Username),
		slog.String("role", string(view.Role)),
	)
	return c.Status(http.StatusCreated).JSON(view)
}

// Login verifies credentials and returns a signed session token. The two 401
// bodies are part of the external contract.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Login(c.UserContext(), req.Username, req.Password)
	switch {
	case errors.Is(err, ErrUserNotFound):
		return fiber.NewError(http.StatusUnauthorized, "User not found")
	case errors.Is(err, ErrInvalidPassword):
		return fiber.NewError(http.StatusUnauthorized, "Invalid password")
	case err != nil:
		return fiber.NewError(http.StatusInternalServerError, "login failed")
	}

	return c.Status(http.StatusOK).JSON(loginResponse{
		Token:    res.Token,
		Role:     res.Role,
		UserID:   res.UserID,
		Username: res.Username,
	})
}
