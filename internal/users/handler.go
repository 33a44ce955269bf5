package users

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/member-hub/memberhub/internal/profile"
)

// Handler exposes the profile CRUD endpoints.
type Handler struct {
	svc *Service
}

// NewHandler constructs a profile CRUD HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type profileRequest struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	NationalID string `json:"nationalId"`
	Club       string `json:"club"`
	Mission    string `json:"mission"`
	JobTitle   string `json:"jobTitle"`
	Phone      string `json:"phone"`
	Password   string `json:"password"`
}

type profileResponse struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Address    string    `json:"address"`
	NationalID string    `json:"nationalId"`
	Club       string    `json:"club"`
	Mission    string    `json:"mission"`
	JobTitle   string    `json:"jobTitle"`
	Phone      string    `json:"phone"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toResponse(p profile.Profile) profileResponse {
	return profileResponse{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Email:      p.Email,
		Address:    p.Address,
		NationalID: p.NationalID,
		Club:       p.Club,
		Mission:    p.Mission,
		JobTitle:   p.JobTitle,
		Phone:      p.Phone,
		CreatedAt:  p.CreatedAt,
	}
}

func toInput(req profileRequest) Input {
	return Input{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Address:    req.Address,
		NationalID: req.NationalID,
		Club:       req.Club,
		Mission:    req.Mission,
		JobTitle:   req.JobTitle,
		Phone:      req.Phone,
		Password:   req.Password,
	}
}

// List returns all profiles.
func (h *Handler) List(c *fiber.Ctx) error {
	profiles, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toResponse(p))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// Get returns a single profile or 404.
func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}

// Create persists a new profile.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Create(c.UserContext(), toInput(req))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}

// Update overwrites mutable profile attributes.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Update(c.UserContext(), c.Params("id"), toInput(req))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(toResponse(p))
}

// Delete removes a profile and its linked identity.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "deleted"})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, profile.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "user not found")
	case errors.Is(err, profile.ErrConflict):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	default:
		return err
	}
}
