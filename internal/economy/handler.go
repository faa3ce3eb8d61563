package economy

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes economy catalog HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an economy HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type currencySpecRequest struct {
	Name   string `json:"name"`
	Abbrev string `json:"abbrev"`
	Symbol string `json:"symbol"`
	Color  string `json:"color"`
}

type createEconomyRequest struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	InterestRate decimal.Decimal     `json:"interest_rate"`
	GrowthRate   decimal.Decimal     `json:"growth_rate"`
	BaseCurrency currencySpecRequest `json:"base_currency"`
}

// CreateEconomy provisions an economy and its base currency.
func (h *Handler) CreateEconomy(c *fiber.Ctx) error {
	var req createEconomyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	economy, err := h.service.CreateEconomy(c.UserContext(), CreateEconomyInput{
		Name:         req.Name,
		Description:  req.Description,
		InterestRate: req.InterestRate,
		GrowthRate:   req.GrowthRate,
		BaseCurrency: CurrencySpec{
			Name:   req.BaseCurrency.Name,
			Abbrev: req.BaseCurrency.Abbrev,
			Symbol: req.BaseCurrency.Symbol,
			Color:  req.BaseCurrency.Color,
		},
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(economy)
}

// ListEconomies returns all economies.
func (h *Handler) ListEconomies(c *fiber.Ctx) error {
	economies, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"economies": economies})
}

// GetEconomy returns one economy.
func (h *Handler) GetEconomy(c *fiber.Ctx) error {
	economy, err := h.service.Get(c.UserContext(), c.Params("economyId"))
	if err != nil {
		return err
	}
	return c.JSON(economy)
}

type updateEconomyRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	InterestRate *decimal.Decimal `json:"interest_rate"`
	GrowthRate   *decimal.Decimal `json:"growth_rate"`
}

// UpdateEconomy applies partial updates to an economy.
func (h *Handler) UpdateEconomy(c *fiber.Ctx) error {
	var req updateEconomyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	economy, err := h.service.UpdateEconomy(c.UserContext(), c.Params("economyId"), UpdateEconomyInput{
		Name:         req.Name,
		Description:  req.Description,
		InterestRate: req.InterestRate,
		GrowthRate:   req.GrowthRate,
	})
	if err != nil {
		return err
	}
	return c.JSON(economy)
}

// DeleteEconomy removes an economy and everything under it.
func (h *Handler) DeleteEconomy(c *fiber.Ctx) error {
	if err := h.service.DeleteEconomy(c.UserContext(), c.Params("economyId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

type createCurrencyRequest struct {
	Name      string          `json:"name"`
	Abbrev    string          `json:"abbrev"`
	Symbol    string          `json:"symbol"`
	BaseValue decimal.Decimal `json:"base_value"`
	Color     string          `json:"color"`
}

// CreateCurrency adds a currency to an economy.
func (h *Handler) CreateCurrency(c *fiber.Ctx) error {
	var req createCurrencyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	currency, err := h.service.CreateCurrency(c.UserContext(), CreateCurrencyInput{
		EconomyID: c.Params("economyId"),
		Name:      req.Name,
		Abbrev:    req.Abbrev,
		Symbol:    req.Symbol,
		BaseValue: req.BaseValue,
		Color:     req.Color,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(currency)
}

// GetCurrency returns one currency.
func (h *Handler) GetCurrency(c *fiber.Ctx) error {
	currency, err := h.service.Currency(c.UserContext(), c.Params("currencyId"))
	if err != nil {
		return err
	}
	return c.JSON(currency)
}

// ListCurrencies returns the currencies of an economy.
func (h *Handler) ListCurrencies(c *fiber.Ctx) error {
	currencies, err := h.service.Currencies(c.UserContext(), c.Params("economyId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"currencies": currencies})
}

type updateCurrencyRequest struct {
	Name      *string          `json:"name"`
	Symbol    *string          `json:"symbol"`
	BaseValue *decimal.Decimal `json:"base_value"`
	Color     *string          `json:"color"`
}

// UpdateCurrency applies partial updates to a currency.
func (h *Handler) UpdateCurrency(c *fiber.Ctx) error {
	var req updateCurrencyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	currency, err := h.service.UpdateCurrency(c.UserContext(), c.Params("currencyId"), UpdateCurrencyInput{
		Name:      req.Name,
		Symbol:    req.Symbol,
		BaseValue: req.BaseValue,
		Color:     req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(currency)
}

// DeleteCurrency removes an unreferenced, non-base currency.
func (h *Handler) DeleteCurrency(c *fiber.Ctx) error {
	if err := h.service.DeleteCurrency(c.UserContext(), c.Params("currencyId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

type setBaseCurrencyRequest struct {
	CurrencyID string `json:"currency_id"`
}

// SetBaseCurrency designates the economy's base currency.
func (h *Handler) SetBaseCurrency(c *fiber.Ctx) error {
	var req setBaseCurrencyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.SetBaseCurrency(c.UserContext(), c.Params("economyId"), req.CurrencyID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

type setRateRequest struct {
	FromCurrencyID string          `json:"from_currency_id"`
	ToCurrencyID   string          `json:"to_currency_id"`
	Rate           decimal.Decimal `json:"rate"`
}

// SetRateOverride pins an explicit exchange rate for a currency pair.
func (h *Handler) SetRateOverride(c *fiber.Ctx) error {
	var req setRateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := h.service.SetRateOverride(c.UserContext(), req.FromCurrencyID, req.ToCurrencyID, req.Rate); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetRate resolves the exchange rate between two currencies.
func (h *Handler) GetRate(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		return fiber.NewError(http.StatusBadRequest, "from and to currency ids are required")
	}
	rate, err := h.service.ExchangeRate(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"from": from, "to": to, "rate": rate})
}
