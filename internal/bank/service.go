// Package bank manages institutions within an economy and their
// fee/interest policy.
package bank

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
	"github.com/realmbank/realmbank/internal/store"
)

// Service exposes bank registry operations backed by the document store.
type Service struct {
	store store.Store
}

// NewService builds a bank registry service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CreateInput captures data required to create a bank.
type CreateInput struct {
	EconomyID    string
	Name         string
	Description  string
	InterestRate *decimal.Decimal
	Fees         ledger.FeeSchedule
	EntityID     string
}

// Create registers a bank within an existing economy.
func (s *Service) Create(ctx context.Context, input CreateInput) (ledger.Bank, error) {
	if input.Name == "" {
		return ledger.Bank{}, fmt.Errorf("bank name is required")
	}
	if err := validateFees(input.Fees); err != nil {
		return ledger.Bank{}, err
	}

	now := time.Now().UTC()
	bank := ledger.Bank{
		ID:           uuid.NewString(),
		EconomyID:    input.EconomyID,
		Name:         input.Name,
		Description:  input.Description,
		InterestRate: input.InterestRate,
		Fees:         input.Fees,
		EntityID:     input.EntityID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		if _, err := st.Economy(input.EconomyID); err != nil {
			return err
		}
		st.Banks[bank.ID] = bank
		return nil
	})
	if err != nil {
		return ledger.Bank{}, err
	}
	return bank, nil
}

// UpdateInput carries optional bank field updates; nil leaves a field as is.
type UpdateInput struct {
	Name         *string
	Description  *string
	InterestRate *decimal.Decimal
	Fees         *ledger.FeeSchedule
	EntityID     *string
}

// Update applies partial updates to a bank.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (ledger.Bank, error) {
	if input.Fees != nil {
		if err := validateFees(*input.Fees); err != nil {
			return ledger.Bank{}, err
		}
	}
	var updated ledger.Bank
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		bank, err := st.Bank(id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			bank.Name = *input.Name
		}
		if input.Description != nil {
			bank.Description = *input.Description
		}
		if input.InterestRate != nil {
			rate := *input.InterestRate
			bank.InterestRate = &rate
		}
		if input.Fees != nil {
			bank.Fees = *input.Fees
		}
		if input.EntityID != nil {
			bank.EntityID = *input.EntityID
		}
		bank.UpdatedAt = time.Now().UTC()
		st.Banks[id] = bank
		updated = bank
		return nil
	})
	if err != nil {
		return ledger.Bank{}, err
	}
	return updated, nil
}

// Delete removes a bank. It refuses while active accounts exist there;
// closed accounts are removed with the bank, their transactions retained.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		bank, err := st.Bank(id)
		if err != nil {
			return err
		}
		for _, a := range st.Accounts {
			if a.BankID == id && a.Active {
				return fmt.Errorf("bank %s has active accounts: %w", bank.Name, ledger.ErrConflict)
			}
		}
		for aid, a := range st.Accounts {
			if a.BankID == id {
				delete(st.Accounts, aid)
			}
		}
		delete(st.Banks, id)
		return nil
	})
	return err
}

// Get fetches one bank.
func (s *Service) Get(ctx context.Context, id string) (ledger.Bank, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return ledger.Bank{}, err
	}
	return st.Bank(id)
}

// ListByEconomy returns the banks belonging to an economy.
func (s *Service) ListByEconomy(ctx context.Context, economyID string) ([]ledger.Bank, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	var out []ledger.Bank
	for _, b := range st.Banks {
		if b.EconomyID == economyID {
			out = append(out, b)
		}
	}
	return out, nil
}

// FindByEntity resolves the bank bound to an external entity id, such as
// an NPC banker the caller clicked on.
func (s *Service) FindByEntity(ctx context.Context, entityID string) (ledger.Bank, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return ledger.Bank{}, err
	}
	for _, b := range st.Banks {
		if b.EntityID != "" && b.EntityID == entityID {
			return b, nil
		}
	}
	return ledger.Bank{}, fmt.Errorf("bank for entity %s: %w", entityID, ledger.ErrNotFound)
}

func validateFees(fees ledger.FeeSchedule) error {
	for _, pct := range []decimal.Decimal{fees.WithdrawalPct, fees.TransferPct, fees.ExchangePct} {
		if pct.IsNegative() {
			return fmt.Errorf("fee percentage must not be negative: %w", ledger.ErrInvalidAmount)
		}
	}
	return nil
}
