package bank

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
)

// Handler exposes bank registry HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds a bank HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type feesRequest struct {
	WithdrawalPct decimal.Decimal `json:"withdrawal_pct"`
	TransferPct   decimal.Decimal `json:"transfer_pct"`
	ExchangePct   decimal.Decimal `json:"exchange_pct"`
}

type createRequest struct {
	EconomyID    string           `json:"economy_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	InterestRate *decimal.Decimal `json:"interest_rate"`
	Fees         feesRequest      `json:"fees"`
	EntityID     string           `json:"entity_id"`
}

// Create registers a bank.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	bank, err := h.service.Create(c.UserContext(), CreateInput{
		EconomyID:    req.EconomyID,
		Name:         req.Name,
		Description:  req.Description,
		InterestRate: req.InterestRate,
		Fees: ledger.FeeSchedule{
			WithdrawalPct: req.Fees.WithdrawalPct,
			TransferPct:   req.Fees.TransferPct,
			ExchangePct:   req.Fees.ExchangePct,
		},
		EntityID: req.EntityID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(bank)
}

// Get returns one bank.
func (h *Handler) Get(c *fiber.Ctx) error {
	bank, err := h.service.Get(c.UserContext(), c.Params("bankId"))
	if err != nil {
		return err
	}
	return c.JSON(bank)
}

// List queries banks by economy or by bound entity id.
func (h *Handler) List(c *fiber.Ctx) error {
	if entityID := c.Query("entity_id"); entityID != "" {
		bank, err := h.service.FindByEntity(c.UserContext(), entityID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"banks": []ledger.Bank{bank}})
	}
	economyID := c.Query("economy_id")
	if economyID == "" {
		return fiber.NewError(http.StatusBadRequest, "economy_id or entity_id query is required")
	}
	banks, err := h.service.ListByEconomy(c.UserContext(), economyID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"banks": banks})
}

type updateRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	InterestRate *decimal.Decimal `json:"interest_rate"`
	Fees         *feesRequest     `json:"fees"`
	EntityID     *string          `json:"entity_id"`
}

// Update applies partial updates to a bank.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	input := UpdateInput{
		Name:         req.Name,
		Description:  req.Description,
		InterestRate: req.InterestRate,
		EntityID:     req.EntityID,
	}
	if req.Fees != nil {
		input.Fees = &ledger.FeeSchedule{
			WithdrawalPct: req.Fees.WithdrawalPct,
			TransferPct:   req.Fees.TransferPct,
			ExchangePct:   req.Fees.ExchangePct,
		}
	}
	bank, err := h.service.Update(c.UserContext(), c.Params("bankId"), input)
	if err != nil {
		return err
	}
	return c.JSON(bank)
}

// Delete removes a bank without active accounts.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("bankId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
