// Package economy manages economies, their currencies and exchange rates.
package economy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
	"github.com/realmbank/realmbank/internal/store"
)

// Service exposes catalog operations backed by the document store.
type Service struct {
	store store.Store
}

// NewService builds an economy catalog service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// CurrencySpec describes the base currency created with a new economy.
type CurrencySpec struct {
	Name   string
	Abbrev string
	Symbol string
	Color  string
}

// CreateEconomyInput captures data required to create an economy.
type CreateEconomyInput struct {
	Name         string
	Description  string
	InterestRate decimal.Decimal
	GrowthRate   decimal.Decimal
	BaseCurrency CurrencySpec
}

// CreateEconomy provisions an economy together with its base currency in
// one committed update.
func (s *Service) CreateEconomy(ctx context.Context, input CreateEconomyInput) (ledger.Economy, error) {
	if input.Name == "" {
		return ledger.Economy{}, fmt.Errorf("economy name is required")
	}
	if input.BaseCurrency.Name == "" || input.BaseCurrency.Abbrev == "" {
		return ledger.Economy{}, fmt.Errorf("base currency name and abbreviation are required")
	}

	now := time.Now().UTC()
	economy := ledger.Economy{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Description:  input.Description,
		InterestRate: input.InterestRate,
		GrowthRate:   input.GrowthRate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	base := ledger.Currency{
		ID:        uuid.NewString(),
		EconomyID: economy.ID,
		Name:      input.BaseCurrency.Name,
		Abbrev:    input.BaseCurrency.Abbrev,
		Symbol:    input.BaseCurrency.Symbol,
		BaseValue: decimal.NewFromInt(1),
		Color:     input.BaseCurrency.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	economy.BaseCurrencyID = base.ID

	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		st.Economies[economy.ID] = economy
		st.Currencies[base.ID] = base
		return nil
	})
	if err != nil {
		return ledger.Economy{}, err
	}
	return economy, nil
}

// UpdateEconomyInput carries optional field updates; nil leaves a field as is.
type UpdateEconomyInput struct {
	Name         *string
	Description  *string
	InterestRate *decimal.Decimal
	GrowthRate   *decimal.Decimal
}

// UpdateEconomy applies partial updates to an economy.
func (s *Service) UpdateEconomy(ctx context.Context, id string, input UpdateEconomyInput) (ledger.Economy, error) {
	var updated ledger.Economy
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		economy, err := st.Economy(id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			economy.Name = *input.Name
		}
		if input.Description != nil {
			economy.Description = *input.Description
		}
		if input.InterestRate != nil {
			economy.InterestRate = *input.InterestRate
		}
		if input.GrowthRate != nil {
			economy.GrowthRate = *input.GrowthRate
		}
		economy.UpdatedAt = time.Now().UTC()
		st.Economies[id] = economy
		updated = economy
		return nil
	})
	if err != nil {
		return ledger.Economy{}, err
	}
	return updated, nil
}

// DeleteEconomy removes an economy and cascades to its currencies, banks,
// accounts, transactions and rate overrides.
func (s *Service) DeleteEconomy(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		if _, err := st.Economy(id); err != nil {
			return err
		}
		delete(st.Economies, id)

		doomedCurrencies := make(map[string]bool)
		for cid, c := range st.Currencies {
			if c.EconomyID == id {
				doomedCurrencies[cid] = true
				delete(st.Currencies, cid)
			}
		}
		for bid, b := range st.Banks {
			if b.EconomyID == id {
				delete(st.Banks, bid)
			}
		}
		doomedAccounts := make(map[string]bool)
		for aid, a := range st.Accounts {
			if doomedCurrencies[a.CurrencyID] {
				doomedAccounts[aid] = true
				delete(st.Accounts, aid)
			}
		}
		kept := st.Transactions[:0]
		for _, tx := range st.Transactions {
			if !doomedAccounts[tx.AccountID] {
				kept = append(kept, tx)
			}
		}
		st.Transactions = kept
		keptRates := st.RateOverrides[:0]
		for _, o := range st.RateOverrides {
			if !doomedCurrencies[o.FromCurrencyID] && !doomedCurrencies[o.ToCurrencyID] {
				keptRates = append(keptRates, o)
			}
		}
		st.RateOverrides = keptRates
		return nil
	})
	return err
}

// Get fetches one economy.
func (s *Service) Get(ctx context.Context, id string) (ledger.Economy, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return ledger.Economy{}, err
	}
	return st.Economy(id)
}

// List returns all economies.
func (s *Service) List(ctx context.Context) ([]ledger.Economy, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ledger.Economy, 0, len(st.Economies))
	for _, e := range st.Economies {
		out = append(out, e)
	}
	return out, nil
}

// CreateCurrencyInput captures data required to add a currency to an economy.
type CreateCurrencyInput struct {
	EconomyID string
	Name      string
	Abbrev    string
	Symbol    string
	BaseValue decimal.Decimal
	Color     string
}

// CreateCurrency adds a currency. A base value of 1 does not change the
// economy's designated base currency; only SetBaseCurrency does.
func (s *Service) CreateCurrency(ctx context.Context, input CreateCurrencyInput) (ledger.Currency, error) {
	if input.Name == "" || input.Abbrev == "" {
		return ledger.Currency{}, fmt.Errorf("currency name and abbreviation are required")
	}
	if !input.BaseValue.IsPositive() {
		return ledger.Currency{}, fmt.Errorf("base value must be positive: %w", ledger.ErrInvalidAmount)
	}

	now := time.Now().UTC()
	currency := ledger.Currency{
		ID:        uuid.NewString(),
		EconomyID: input.EconomyID,
		Name:      input.Name,
		Abbrev:    input.Abbrev,
		Symbol:    input.Symbol,
		BaseValue: input.BaseValue,
		Color:     input.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		if _, err := st.Economy(input.EconomyID); err != nil {
			return err
		}
		for _, c := range st.EconomyCurrencies(input.EconomyID) {
			if c.Abbrev == input.Abbrev {
				return fmt.Errorf("abbreviation %s already in use: %w", input.Abbrev, ledger.ErrConflict)
			}
		}
		st.Currencies[currency.ID] = currency
		return nil
	})
	if err != nil {
		return ledger.Currency{}, err
	}
	return currency, nil
}

// UpdateCurrencyInput carries optional currency field updates.
type UpdateCurrencyInput struct {
	Name      *string
	Symbol    *string
	BaseValue *decimal.Decimal
	Color     *string
}

// UpdateCurrency applies partial updates to a currency.
func (s *Service) UpdateCurrency(ctx context.Context, id string, input UpdateCurrencyInput) (ledger.Currency, error) {
	if input.BaseValue != nil && !input.BaseValue.IsPositive() {
		return ledger.Currency{}, fmt.Errorf("base value must be positive: %w", ledger.ErrInvalidAmount)
	}
	var updated ledger.Currency
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		currency, err := st.Currency(id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			currency.Name = *input.Name
		}
		if input.Symbol != nil {
			currency.Symbol = *input.Symbol
		}
		if input.BaseValue != nil {
			currency.BaseValue = *input.BaseValue
		}
		if input.Color != nil {
			currency.Color = *input.Color
		}
		currency.UpdatedAt = time.Now().UTC()
		st.Currencies[id] = currency
		updated = currency
		return nil
	})
	if err != nil {
		return ledger.Currency{}, err
	}
	return updated, nil
}

// DeleteCurrency removes a currency. It refuses while accounts reference
// the currency and refuses to remove an economy's base currency; reassign
// the base first.
func (s *Service) DeleteCurrency(ctx context.Context, id string) error {
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		currency, err := st.Currency(id)
		if err != nil {
			return err
		}
		if st.CurrencyInUse(id) {
			return fmt.Errorf("currency %s is referenced by accounts: %w", currency.Abbrev, ledger.ErrConflict)
		}
		economy, err := st.Economy(currency.EconomyID)
		if err != nil {
			return err
		}
		if economy.BaseCurrencyID == id {
			return fmt.Errorf("currency %s is the base of %s: %w", currency.Abbrev, economy.Name, ledger.ErrConflict)
		}
		delete(st.Currencies, id)
		kept := st.RateOverrides[:0]
		for _, o := range st.RateOverrides {
			if o.FromCurrencyID != id && o.ToCurrencyID != id {
				kept = append(kept, o)
			}
		}
		st.RateOverrides = kept
		return nil
	})
	return err
}

// SetBaseCurrency designates a currency as the economy's base and rescales
// every sibling's base value so ratios are preserved by the new unit.
func (s *Service) SetBaseCurrency(ctx context.Context, economyID, currencyID string) error {
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		economy, err := st.Economy(economyID)
		if err != nil {
			return err
		}
		target, err := st.Currency(currencyID)
		if err != nil {
			return err
		}
		if target.EconomyID != economyID {
			return fmt.Errorf("currency %s belongs to another economy: %w", target.Abbrev, ledger.ErrConflict)
		}
		scale := target.BaseValue
		if !scale.IsPositive() {
			return fmt.Errorf("currency %s has no base value: %w", target.Abbrev, ledger.ErrInvalidAmount)
		}
		now := time.Now().UTC()
		for _, c := range st.EconomyCurrencies(economyID) {
			c.BaseValue = c.BaseValue.Div(scale)
			c.UpdatedAt = now
			st.Currencies[c.ID] = c
		}
		economy.BaseCurrencyID = currencyID
		economy.UpdatedAt = now
		st.Economies[economyID] = economy
		return nil
	})
	return err
}

// SetRateOverride appends an explicit rate for the ordered currency pair.
func (s *Service) SetRateOverride(ctx context.Context, fromID, toID string, rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return fmt.Errorf("rate must be positive: %w", ledger.ErrInvalidAmount)
	}
	_, err := s.store.Update(ctx, func(st *ledger.State) error {
		if _, err := st.Currency(fromID); err != nil {
			return err
		}
		if _, err := st.Currency(toID); err != nil {
			return err
		}
		st.RateOverrides = append(st.RateOverrides, ledger.RateOverride{
			FromCurrencyID: fromID,
			ToCurrencyID:   toID,
			Rate:           rate,
			SetAt:          time.Now().UTC(),
		})
		return nil
	})
	return err
}

// ExchangeRate resolves the conversion rate between two currencies.
func (s *Service) ExchangeRate(ctx context.Context, fromID, toID string) (decimal.Decimal, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return st.Rate(fromID, toID)
}

// Currency fetches one currency.
func (s *Service) Currency(ctx context.Context, id string) (ledger.Currency, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return ledger.Currency{}, err
	}
	return st.Currency(id)
}

// Currencies lists the currencies of an economy.
func (s *Service) Currencies(ctx context.Context, economyID string) ([]ledger.Currency, error) {
	st, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := st.Economy(economyID); err != nil {
		return nil, err
	}
	return st.EconomyCurrencies(economyID), nil
}
