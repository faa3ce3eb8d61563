package wallet

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/engine"
	"github.com/realmbank/realmbank/internal/ledger"
	"github.com/realmbank/realmbank/internal/store"
)

// Bridge moves value between an account and its owner's external purse.
// The purse and the ledger persist independently, so the second side of a
// move can fail after the first committed; the bridge then reverses the
// first side. That compensation is best effort, not a distributed
// transaction: if the reversal itself fails the two stores disagree and
// the inconsistency is logged for manual repair.
type Bridge struct {
	store    store.Store
	engine   *engine.Service
	provider Provider
	logger   *slog.Logger
}

// NewBridge builds a wallet bridge.
func NewBridge(st store.Store, eng *engine.Service, provider Provider, logger *slog.Logger) *Bridge {
	return &Bridge{store: st, engine: eng, provider: provider, logger: logger}
}

// MoveInput captures a purse-to-account or account-to-purse move.
type MoveInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	InitiatorID string
}

// DepositFromWallet debits the owner's purse, then credits the account.
// A failed deposit refunds the purse.
func (b *Bridge) DepositFromWallet(ctx context.Context, input MoveInput) (engine.Receipt, error) {
	acct, code, err := b.resolve(ctx, input.AccountID)
	if err != nil {
		return engine.Receipt{}, err
	}

	if err := b.provider.Debit(ctx, acct.OwnerID, code, input.Amount); err != nil {
		return engine.Receipt{}, err
	}

	receipt, err := b.engine.Deposit(ctx, engine.DepositInput{
		AccountID:   input.AccountID,
		Amount:      input.Amount,
		Description: input.Description,
		InitiatorID: input.InitiatorID,
	})
	if err != nil {
		if refundErr := b.provider.Credit(ctx, acct.OwnerID, code, input.Amount); refundErr != nil {
			b.logger.Error("purse refund failed after deposit rejection",
				"owner_id", acct.OwnerID, "currency", code,
				"amount", input.Amount.String(), "error", refundErr)
		}
		return engine.Receipt{}, err
	}
	return receipt, nil
}

// WithdrawToWallet debits the account, then credits the owner's purse.
// A failed purse credit reverses the withdrawal, the fee leg included.
func (b *Bridge) WithdrawToWallet(ctx context.Context, input MoveInput) (engine.Receipt, error) {
	acct, code, err := b.resolve(ctx, input.AccountID)
	if err != nil {
		return engine.Receipt{}, err
	}

	receipt, err := b.engine.Withdraw(ctx, engine.WithdrawInput{
		AccountID:   input.AccountID,
		Amount:      input.Amount,
		Description: input.Description,
		InitiatorID: input.InitiatorID,
	})
	if err != nil {
		return engine.Receipt{}, err
	}

	if err := b.provider.Credit(ctx, acct.OwnerID, code, input.Amount); err != nil {
		// Restore everything the withdrawal took, fee included.
		debited := input.Amount.Add(receipt.Fee)
		if _, reverseErr := b.engine.Deposit(ctx, engine.DepositInput{
			AccountID:   input.AccountID,
			Amount:      debited,
			Description: "reversal: " + input.Description,
			InitiatorID: input.InitiatorID,
		}); reverseErr != nil {
			b.logger.Error("withdrawal reversal failed after purse credit failure",
				"account_id", input.AccountID, "currency", code,
				"amount", debited.String(), "error", reverseErr)
		}
		return engine.Receipt{}, err
	}
	return receipt, nil
}

// WalletBalance reads the owner's purse for the account's currency.
func (b *Bridge) WalletBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	acct, code, err := b.resolve(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return b.provider.Balance(ctx, acct.OwnerID, code)
}

func (b *Bridge) resolve(ctx context.Context, accountID string) (ledger.Account, string, error) {
	st, err := b.store.Load(ctx)
	if err != nil {
		return ledger.Account{}, "", err
	}
	acct, err := st.Account(accountID)
	if err != nil {
		return ledger.Account{}, "", err
	}
	currency, err := st.Currency(acct.CurrencyID)
	if err != nil {
		return ledger.Account{}, "", fmt.Errorf("account currency: %w", err)
	}
	return acct, currency.Abbrev, nil
}
