// Package engine performs the balance-affecting operations: deposits,
// withdrawals, transfers, interest and fee postings. Each operation runs
// validate, mutate, append inside one store update, so either the whole
// operation lands or none of it does. Balances are trusted live values;
// the transaction log is the audit trail.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
	"github.com/realmbank/realmbank/internal/notification"
	"github.com/realmbank/realmbank/internal/store"
)

var hundred = decimal.NewFromInt(100)

// Service exposes transaction operations backed by the document store.
type Service struct {
	store    store.Store
	notifier notification.Notifier
}

// NewService builds a transaction engine.
func NewService(st store.Store, notifier notification.Notifier) *Service {
	return &Service{store: st, notifier: notifier}
}

// Receipt describes the committed outcome of a single-account operation.
// Fee is the linked fee charged alongside it, zero when the bank charges
// none.
type Receipt struct {
	Transaction ledger.Transaction
	Fee         decimal.Decimal
	Balance     decimal.Decimal
}

// DepositInput captures data required to credit an account.
type DepositInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	InitiatorID string
}

// Deposit credits an active account and appends one deposit transaction.
func (s *Service) Deposit(ctx context.Context, input DepositInput) (Receipt, error) {
	if !input.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("deposit amount must be positive: %w", ledger.ErrInvalidAmount)
	}

	var receipt Receipt
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		acct, err := st.ActiveAccount(input.AccountID)
		if err != nil {
			return err
		}
		acct.Balance = acct.Balance.Add(input.Amount)
		tx := s.append(st, acct, ledger.Transaction{
			Type:        ledger.TxDeposit,
			Amount:      input.Amount,
			Description: input.Description,
			InitiatorID: input.InitiatorID,
		})
		receipt = Receipt{Transaction: tx, Balance: acct.Balance}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	s.notify(ctx, notification.KindDeposit, receipt.Transaction)
	return receipt, nil
}

// WithdrawInput captures data required to debit an account.
type WithdrawInput struct {
	AccountID   string
	Amount      decimal.Decimal
	Description string
	InitiatorID string
}

// Withdraw debits an active account and appends one withdrawal
// transaction. When the bank charges a withdrawal fee, a linked fee
// transaction is posted in the same update and the balance must cover
// amount plus fee.
func (s *Service) Withdraw(ctx context.Context, input WithdrawInput) (Receipt, error) {
	if !input.Amount.IsPositive() {
		return Receipt{}, fmt.Errorf("withdrawal amount must be positive: %w", ledger.ErrInvalidAmount)
	}

	var receipt Receipt
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		acct, err := st.ActiveAccount(input.AccountID)
		if err != nil {
			return err
		}
		bank, err := st.Bank(acct.BankID)
		if err != nil {
			return err
		}
		fee := input.Amount.Mul(bank.Fees.WithdrawalPct).Div(hundred)
		if acct.Balance.LessThan(input.Amount.Add(fee)) {
			return fmt.Errorf("balance %s cannot cover %s: %w", acct.Balance, input.Amount.Add(fee), ledger.ErrInsufficientFunds)
		}

		acct.Balance = acct.Balance.Sub(input.Amount)
		tx := s.append(st, acct, ledger.Transaction{
			Type:        ledger.TxWithdrawal,
			Amount:      input.Amount.Neg(),
			Description: input.Description,
			InitiatorID: input.InitiatorID,
		})
		if fee.IsPositive() {
			acct.Balance = acct.Balance.Sub(fee)
			s.append(st, acct, ledger.Transaction{
				Type:                 ledger.TxFee,
				Amount:               fee.Neg(),
				Description:          "withdrawal fee",
				RelatedTransactionID: tx.ID,
				InitiatorID:          input.InitiatorID,
			})
		}
		receipt = Receipt{Transaction: tx, Fee: fee, Balance: acct.Balance}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	s.notify(ctx, notification.KindWithdrawal, receipt.Transaction)
	return receipt, nil
}

// TransferInput captures data required to move funds between accounts.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Description   string
	InitiatorID   string
}

// TransferReceipt describes the two committed legs of a transfer.
type TransferReceipt struct {
	Debit       ledger.Transaction
	Credit      ledger.Transaction
	FromBalance decimal.Decimal
	ToBalance   decimal.Decimal
}

// Transfer moves funds between two active accounts, converting across
// currencies when needed. The debit is applied before the credit and both
// legs plus any fee land in one committed update; no caller ever observes
// a single leg. Conversion is resolved before any balance is touched.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (TransferReceipt, error) {
	if !input.Amount.IsPositive() {
		return TransferReceipt{}, fmt.Errorf("transfer amount must be positive: %w", ledger.ErrInvalidAmount)
	}
	if input.FromAccountID == input.ToAccountID {
		return TransferReceipt{}, fmt.Errorf("cannot transfer to the same account: %w", ledger.ErrConflict)
	}

	var receipt TransferReceipt
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		from, err := st.ActiveAccount(input.FromAccountID)
		if err != nil {
			return err
		}
		to, err := st.ActiveAccount(input.ToAccountID)
		if err != nil {
			return err
		}
		fromBank, err := st.Bank(from.BankID)
		if err != nil {
			return err
		}

		txType := ledger.TxTransfer
		feePct := fromBank.Fees.TransferPct
		rate := decimal.NewFromInt(1)
		if from.CurrencyID != to.CurrencyID {
			rate, err = st.Rate(from.CurrencyID, to.CurrencyID)
			if err != nil {
				return err
			}
			txType = ledger.TxExchange
			feePct = feePct.Add(fromBank.Fees.ExchangePct)
		}

		fee := input.Amount.Mul(feePct).Div(hundred)
		if from.Balance.LessThan(input.Amount.Add(fee)) {
			return fmt.Errorf("balance %s cannot cover %s: %w", from.Balance, input.Amount.Add(fee), ledger.ErrInsufficientFunds)
		}
		credit := input.Amount.Mul(rate)

		debitID := uuid.NewString()
		creditID := uuid.NewString()
		now := time.Now().UTC()

		from.Balance = from.Balance.Sub(input.Amount)
		debitTx := ledger.Transaction{
			ID:                   debitID,
			AccountID:            from.ID,
			Type:                 txType,
			Amount:               input.Amount.Neg(),
			CurrencyID:           from.CurrencyID,
			BalanceAfter:         from.Balance,
			Description:          input.Description,
			RelatedAccountID:     to.ID,
			RelatedTransactionID: creditID,
			InitiatorID:          input.InitiatorID,
			CreatedAt:            now,
		}
		from.UpdatedAt = now
		st.Accounts[from.ID] = from
		st.Transactions = append(st.Transactions, debitTx)

		to.Balance = to.Balance.Add(credit)
		creditTx := ledger.Transaction{
			ID:                   creditID,
			AccountID:            to.ID,
			Type:                 txType,
			Amount:               credit,
			CurrencyID:           to.CurrencyID,
			BalanceAfter:         to.Balance,
			Description:          input.Description,
			RelatedAccountID:     from.ID,
			RelatedTransactionID: debitID,
			InitiatorID:          input.InitiatorID,
			CreatedAt:            now,
		}
		to.UpdatedAt = now
		st.Accounts[to.ID] = to
		st.Transactions = append(st.Transactions, creditTx)

		if fee.IsPositive() {
			from.Balance = from.Balance.Sub(fee)
			s.append(st, from, ledger.Transaction{
				Type:                 ledger.TxFee,
				Amount:               fee.Neg(),
				Description:          "transfer fee",
				RelatedTransactionID: debitID,
				InitiatorID:          input.InitiatorID,
			})
		}

		receipt = TransferReceipt{
			Debit:       debitTx,
			Credit:      creditTx,
			FromBalance: from.Balance,
			ToBalance:   to.Balance,
		}
		return nil
	})
	if err != nil {
		return TransferReceipt{}, err
	}

	s.notify(ctx, notification.KindTransfer, receipt.Credit)
	return receipt, nil
}

// ApplyInterest credits one interest period to an account using the bank's
// rate override, or the economy rate when the bank has none. The trigger
// is external; the engine runs no accrual schedule of its own.
func (s *Service) ApplyInterest(ctx context.Context, accountID, description, initiatorID string) (Receipt, error) {
	var receipt Receipt
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		acct, err := st.ActiveAccount(accountID)
		if err != nil {
			return err
		}
		bank, err := st.Bank(acct.BankID)
		if err != nil {
			return err
		}
		var rate decimal.Decimal
		if bank.InterestRate != nil {
			rate = *bank.InterestRate
		} else {
			economy, err := st.Economy(bank.EconomyID)
			if err != nil {
				return err
			}
			rate = economy.InterestRate
		}
		if !rate.IsPositive() {
			return fmt.Errorf("no interest rate configured for bank %s: %w", bank.Name, ledger.ErrInvalidAmount)
		}
		amount := acct.Balance.Mul(rate)
		if !amount.IsPositive() {
			return fmt.Errorf("interest on balance %s is not positive: %w", acct.Balance, ledger.ErrInvalidAmount)
		}
		acct.Balance = acct.Balance.Add(amount)
		tx := s.append(st, acct, ledger.Transaction{
			Type:        ledger.TxInterest,
			Amount:      amount,
			Description: description,
			InitiatorID: initiatorID,
		})
		receipt = Receipt{Transaction: tx, Balance: acct.Balance}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}

	s.notify(ctx, notification.KindInterest, receipt.Transaction)
	return receipt, nil
}

// ChargeFee debits a flat fee from an account.
func (s *Service) ChargeFee(ctx context.Context, accountID string, amount decimal.Decimal, description, initiatorID string) (Receipt, error) {
	if !amount.IsPositive() {
		return Receipt{}, fmt.Errorf("fee amount must be positive: %w", ledger.ErrInvalidAmount)
	}

	var receipt Receipt
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		acct, err := st.ActiveAccount(accountID)
		if err != nil {
			return err
		}
		if acct.Balance.LessThan(amount) {
			return fmt.Errorf("balance %s cannot cover fee %s: %w", acct.Balance, amount, ledger.ErrInsufficientFunds)
		}
		acct.Balance = acct.Balance.Sub(amount)
		tx := s.append(st, acct, ledger.Transaction{
			Type:        ledger.TxFee,
			Amount:      amount.Neg(),
			Description: description,
			InitiatorID: initiatorID,
		})
		receipt = Receipt{Transaction: tx, Balance: acct.Balance}
		return nil
	})
	if err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// ListTransactions returns the account's history in commit order.
func (s *Service) ListTransactions(ctx context.Context, accountID string) ([]ledger.Transaction, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := st.Account(accountID); err != nil {
		return nil, err
	}
	var out []ledger.Transaction
	for _, tx := range st.Transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// append stamps id, timestamps and balance snapshot, writes the account
// back and records the transaction. The caller has already mutated
// acct.Balance.
func (s *Service) append(st *ledger.State, acct ledger.Account, tx ledger.Transaction) ledger.Transaction {
	now := time.Now().UTC()
	tx.ID = uuid.NewString()
	tx.AccountID = acct.ID
	tx.CurrencyID = acct.CurrencyID
	tx.BalanceAfter = acct.Balance
	tx.CreatedAt = now
	acct.UpdatedAt = now
	st.Accounts[acct.ID] = acct
	st.Transactions = append(st.Transactions, tx)
	return tx
}

func (s *Service) notify(ctx context.Context, kind string, tx ledger.Transaction) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, notification.Message{
		Kind:        kind,
		Destination: tx.AccountID,
		Body:        fmt.Sprintf("%s of %s on account %s", kind, tx.Amount.Abs(), tx.AccountID),
	})
}
