package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Handler exposes wallet bridge HTTP endpoints.
type Handler struct {
	bridge *Bridge
}

// NewHandler builds a wallet bridge HTTP handler.
func NewHandler(bridge *Bridge) *Handler {
	return &Handler{bridge: bridge}
}

type moveRequest struct {
	AccountID   string          `json:"account_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	InitiatorID string          `json:"initiator_id"`
}

// Deposit moves value from the owner's purse into the account.
func (h *Handler) Deposit(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.bridge.DepositFromWallet(c.UserContext(), MoveInput{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		InitiatorID: req.InitiatorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// Withdraw moves value from the account into the owner's purse.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	receipt, err := h.bridge.WithdrawToWallet(c.UserContext(), MoveInput{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Description: req.Description,
		InitiatorID: req.InitiatorID,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(receipt)
}

// Balance reads the purse balance matching the account's currency.
func (h *Handler) Balance(c *fiber.Ctx) error {
	balance, err := h.bridge.WalletBalance(c.UserContext(), c.Params("accountId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"account_id": c.Params("accountId"), "wallet_balance": balance})
}
