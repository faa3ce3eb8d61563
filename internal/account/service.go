// Package account manages balance-holding accounts bound to one bank and
// one currency.
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
	"github.com/realmbank/realmbank/internal/store"
)

// Service exposes account operations backed by the document store.
type Service struct {
	store store.Store
}

// NewService builds an account ledger service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateInput captures data required to open an account. Name
// distinguishes multiple accounts held by one owner at the same bank.
type CreateInput struct {
	BankID     string
	CurrencyID string
	OwnerID    string
	OwnerName  string
	Name       string
}

// Create opens an account with a zero balance. The currency must belong
// to the bank's economy.
func (s *Service) Create(ctx context.Context, input CreateInput) (ledger.Account, error) {
	if input.OwnerID == "" {
		return ledger.Account{}, fmt.Errorf("owner id is required")
	}
	name := input.Name
	if name == "" {
		name = "Main"
	}

	now := time.Now().UTC()
	acct := ledger.Account{
		ID:         uuid.NewString(),
		BankID:     input.BankID,
		CurrencyID: input.CurrencyID,
		OwnerID:    input.OwnerID,
		OwnerName:  input.OwnerName,
		Name:       name,
		Balance:    decimal.Zero,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		bank, err := st.Bank(input.BankID)
		if err != nil {
			return err
		}
		currency, err := st.Currency(input.CurrencyID)
		if err != nil {
			return err
		}
		if currency.EconomyID != bank.EconomyID {
			return fmt.Errorf("currency %s is not part of the %s economy: %w", currency.Abbrev, bank.Name, ledger.ErrConflict)
		}
		st.Accounts[acct.ID] = acct
		return nil
	})
	if err != nil {
		return ledger.Account{}, err
	}
	return acct, nil
}

// UpdateInput captures optional account fields to change. Nil fields are
// left untouched.
type UpdateInput struct {
	Name      *string
	OwnerName *string
}

// Update applies partial updates to an account's labels. Bank, currency
// and owner bindings are fixed at creation.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (ledger.Account, error) {
	var updated ledger.Account
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		acct, err := st.Account(id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			if *input.Name == "" {
				return fmt.Errorf("account name cannot be empty")
			}
			acct.Name = *input.Name
		}
		if input.OwnerName != nil {
			acct.OwnerName = *input.OwnerName
		}
		acct.UpdatedAt = time.Now().UTC()
		st.Accounts[id] = acct
		updated = acct
		return nil
	})
	if err != nil {
		return ledger.Account{}, err
	}
	return updated, nil
}

// Get fetches one account.
func (s *Service) Get(ctx context.Context, id string) (ledger.Account, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return ledger.Account{}, err
	}
	return st.Account(id)
}

// ListByOwner returns every account held by the owner.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]ledger.Account, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []ledger.Account
	for _, a := range st.Accounts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

// ListByBank returns every account hosted at the bank.
func (s *Service) ListByBank(ctx context.Context, bankID string) ([]ledger.Account, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []ledger.Account
	for _, a := range st.Accounts {
		if a.BankID == bankID {
			out = append(out, a)
		}
	}
	return out, nil
}

// Close soft-deletes an account. The balance must be exactly zero;
// transaction history is retained.
func (s *Service) Close(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		acct, err := st.ActiveAccount(id)
		if err != nil {
			return err
		}
		if !acct.Balance.IsZero() {
			return fmt.Errorf("account %s still holds %s: %w", acct.Name, acct.Balance, ledger.ErrConflict)
		}
		acct.Active = false
		acct.UpdatedAt = time.Now().UTC()
		st.Accounts[id] = acct
		return nil
	})
	return err
}
