package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/realmbank/realmbank/internal/account"
)

// RegisterAccountRoutes wires account endpoints.
func RegisterAccountRoutes(r fiber.Router, h *account.Handler) {
	r.Post("/accounts", h.Create)
	r.Get("/accounts", h.List)
	r.Get("/accounts/:accountId", h.Get)
	r.Patch("/accounts/:accountId", h.Update)
	r.Post("/accounts/:accountId/close", h.Close)
}
