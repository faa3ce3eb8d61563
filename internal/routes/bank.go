package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/realmbank/realmbank/internal/bank"
)

// RegisterBankRoutes wires bank registry endpoints.
func RegisterBankRoutes(r fiber.Router, h *bank.Handler) {
	r.Post("/banks", h.Create)
	r.Get("/banks", h.List)
	r.Get("/banks/:bankId", h.Get)
	r.Patch("/banks/:bankId", h.Update)
	r.Delete("/banks/:bankId", h.Delete)
}
