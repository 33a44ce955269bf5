package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/member-hub/memberhub/internal/users"
)

// RegisterUserRoutes wires the profile CRUD endpoints.
func RegisterUserRoutes(r fiber.Router, h *users.Handler) {
	group := r.Group("/users")
	group.Get("/", h.List)
	group.Get("/:id", h.Get)
	group.Post("/", h.Create)
	group.Put("/:id", h.Update)
	group.Delete("/:id", h.Delete)
}
