package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/realmbank/realmbank/internal/economy"
)

// RegisterEconomyRoutes wires economy catalog endpoints.
func RegisterEconomyRoutes(r fiber.Router, h *economy.Handler) {
	r.Post("/economies", h.CreateEconomy)
	r.Get("/economies", h.ListEconomies)
	r.Get("/economies/:economyId", h.GetEconomy)
	r.Patch("/economies/:economyId", h.UpdateEconomy)
	r.Delete("/economies/:economyId", h.DeleteEconomy)

	r.Post("/economies/:economyId/currencies", h.CreateCurrency)
	r.Get("/economies/:economyId/currencies", h.ListCurrencies)
	r.Put("/economies/:economyId/base-currency", h.SetBaseCurrency)
	r.Get("/currencies/:currencyId", h.GetCurrency)
	r.Patch("/currencies/:currencyId", h.UpdateCurrency)
	r.Delete("/currencies/:currencyId", h.DeleteCurrency)

	r.Post("/rates", h.SetRateOverride)
	r.Get("/rates", h.GetRate)
}
