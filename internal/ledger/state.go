package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Economy looks up an economy by id.
func (s *State) Economy(id string) (Economy, error) {
	e, ok := s.Economies[id]
	if !ok {
		return Economy{}, fmt.Errorf("economy %s: %w", id, ErrNotFound)
	}
	return e, nil
}

// Currency looks up a currency by id.
func (s *State) Currency(id string) (Currency, error) {
	c, ok := s.Currencies[id]
	if !ok {
		return Currency{}, fmt.Errorf("currency %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// CurrencyByAbbrev resolves a currency by its short code within an economy.
func (s *State) CurrencyByAbbrev(economyID, abbrev string) (Currency, error) {
	for _, c := range s.Currencies {
		if c.EconomyID == economyID && c.Abbrev == abbrev {
			return c, nil
		}
	}
	return Currency{}, fmt.Errorf("currency %s in economy %s: %w", abbrev, economyID, ErrNotFound)
}

// Bank looks up a bank by id.
func (s *State) Bank(id string) (Bank, error) {
	b, ok := s.Banks[id]
	if !ok {
		return Bank{}, fmt.Errorf("bank %s: %w", id, ErrNotFound)
	}
	return b, nil
}

// Account looks up an account by id regardless of its active flag.
func (s *State) Account(id string) (Account, error) {
	a, ok := s.Accounts[id]
	if !ok {
		return Account{}, fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// ActiveAccount looks up an account and rejects closed ones.
func (s *State) ActiveAccount(id string) (Account, error) {
	a, err := s.Account(id)
	if err != nil {
		return Account{}, err
	}
	if !a.Active {
		return Account{}, fmt.Errorf("account %s: %w", id, ErrInactiveAccount)
	}
	return a, nil
}

// CurrencyInUse reports whether any account references the currency.
func (s *State) CurrencyInUse(currencyID string) bool {
	for _, a := range s.Accounts {
		if a.CurrencyID == currencyID {
			return true
		}
	}
	return false
}

// EconomyCurrencies returns all currencies belonging to the economy.
func (s *State) EconomyCurrencies(economyID string) []Currency {
	var out []Currency
	for _, c := range s.Currencies {
		if c.EconomyID == economyID {
			out = append(out, c)
		}
	}
	return out
}

// Rate resolves the conversion rate from one currency to another.
// Resolution order: identity, newest explicit override, then the ratio of
// base values when both currencies share an economy. Cross-economy pairs
// without an override are not convertible.
func (s *State) Rate(fromID, toID string) (decimal.Decimal, error) {
	if fromID == toID {
		if _, err := s.Currency(fromID); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromInt(1), nil
	}
	from, err := s.Currency(fromID)
	if err != nil {
		return decimal.Zero, err
	}
	to, err := s.Currency(toID)
	if err != nil {
		return decimal.Zero, err
	}
	for i := len(s.RateOverrides) - 1; i >= 0; i-- {
		o := s.RateOverrides[i]
		if o.FromCurrencyID == fromID && o.ToCurrencyID == toID {
			return o.Rate, nil
		}
	}
	if from.EconomyID != to.EconomyID {
		return decimal.Zero, fmt.Errorf("%s to %s across economies: %w", from.Abbrev, to.Abbrev, ErrNotConvertible)
	}
	if to.BaseValue.IsZero() {
		return decimal.Zero, fmt.Errorf("%s has no base value: %w", to.Abbrev, ErrNotConvertible)
	}
	return from.BaseValue.Div(to.BaseValue), nil
}
