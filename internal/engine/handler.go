package engine

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes transaction engine HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler builds an engine HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type amountRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	InitiatorID string          `json:"initiator_id"`
}

// Deposit credits an account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.Deposit(c.UserContext(), DepositInput{
		AccountID:   c.Params("accountId"),
		Amount:      req.Amount,
		Description: req.Description,
		InitiatorID: req.InitiatorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// Withdraw debits an account.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.Withdraw(c.UserContext(), WithdrawInput{
		AccountID:   c.Params("accountId"),
		Amount:      req.Amount,
		Description: req.Description,
		InitiatorID: req.InitiatorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

type transferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	InitiatorID   string          `json:"initiator_id"`
}

// Transfer moves funds between two accounts.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        req.Amount,
		Description:   req.Description,
		InitiatorID:   req.InitiatorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

type interestRequest struct {
	Description string `json:"description"`
	InitiatorID string `json:"initiator_id"`
}

// ApplyInterest posts one interest period to an account.
func (h *Handler) ApplyInterest(c *fiber.Ctx) error {
	var req interestRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.ApplyInterest(c.UserContext(), c.Params("accountId"), req.Description, req.InitiatorID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// ChargeFee debits a flat fee from an account.
func (h *Handler) ChargeFee(c *fiber.Ctx) error {
	var req amountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.service.ChargeFee(c.UserContext(), c.Params("accountId"), req.Amount, req.Description, req.InitiatorID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// ListTransactions returns an account's history.
func (h *Handler) ListTransactions(c *fiber.Ctx) error {
	transactions, err := h.service.ListTransactions(c.UserContext(), c.Params("accountId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": transactions})
}
