package account

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes account HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an account HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	BankID     string `json:"bank_id"`
	CurrencyID string `json:"currency_id"`
	OwnerID    string `json:"owner_id"`
	OwnerName  string `json:"owner_name"`
	Name       string `json:"name"`
}

// Create opens an account.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.Create(c.UserContext(), CreateInput{
		BankID:     req.BankID,
		CurrencyID: req.CurrencyID,
		OwnerID:    req.OwnerID,
		OwnerName:  req.OwnerName,
		Name:       req.Name,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(acct)
}

type updateRequest struct {
	Name      *string `json:"name"`
	OwnerName *string `json:"owner_name"`
}

// Update applies partial updates to an account's labels.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	acct, err := h.service.Update(c.UserContext(), c.Params("accountId"), UpdateInput{
		Name:      req.Name,
		OwnerName: req.OwnerName,
	})
	if err != nil {
		return err
	}
	return c.JSON(acct)
}

// Get returns one account.
func (h *Handler) Get(c *fiber.Ctx) error {
	acct, err := h.service.Get(c.UserContext(), c.Params("accountId"))
	if err != nil {
		return err
	}
	return c.JSON(acct)
}

// List queries accounts by owner or by bank.
func (h *Handler) List(c *fiber.Ctx) error {
	if ownerID := c.Query("owner_id"); ownerID != "" {
		accounts, err := h.service.ListByOwner(c.UserContext(), ownerID)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"accounts": accounts})
	}
	bankID := c.Query("bank_id")
	if bankID == "" {
		return fiber.NewError(http.StatusBadRequest, "owner_id or bank_id query is required")
	}
	accounts, err := h.service.ListByBank(c.UserContext(), bankID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"accounts": accounts})
}

// Close soft-deletes a zero-balance account.
func (h *Handler) Close(c *fiber.Ctx) error {
	if err := h.service.Close(c.UserContext(), c.Params("accountId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
