package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/realmbank/realmbank/internal/engine"
)

// RegisterEngineRoutes wires transaction engine endpoints.
func RegisterEngineRoutes(r fiber.Router, h *engine.Handler) {
	r.Post("/accounts/:accountId/deposit", h.Deposit)
	r.Post("/accounts/:accountId/withdraw", h.Withdraw)
	r.Post("/accounts/:accountId/interest", h.ApplyInterest)
	r.Post("/accounts/:accountId/fee", h.ChargeFee)
	r.Get("/accounts/:accountId/transactions", h.ListTransactions)
	r.Post("/transfers", h.Transfer)
}
