package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/realmbank/realmbank/internal/wallet"
)

// RegisterWalletRoutes wires wallet bridge endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallet/deposit", h.Deposit)
	r.Post("/wallet/withdraw", h.Withdraw)
	r.Get("/wallet/:accountId/balance", h.Balance)
}
