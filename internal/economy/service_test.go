package economy

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
	"github.com/realmbank/realmbank/internal/store"
)

func newFixture(t *testing.T) (*Service, *store.Memory, ledger.Economy) {
	t.Helper()
	mem := store.NewMemory()
	svc := NewService(mem)

	economy, err := svc.CreateEconomy(context.Background(), CreateEconomyInput{
		Name:         "Kingdom",
		InterestRate: decimal.RequireFromString("0.05"),
		BaseCurrency: CurrencySpec{Name: "Gold", Abbrev: "gp", Symbol: "g"},
	})
	if err != nil {
		t.Fatalf("create economy: %v", err)
	}
	return svc, mem, economy
}

func TestCreateEconomyWithBaseCurrency(t *testing.T) {
	svc, mem, economy := newFixture(t)
	ctx := context.Background()

	st, err := mem.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	base, err := st.Currency(economy.BaseCurrencyID)
	if err != nil {
		t.Fatalf("base currency missing: %v", err)
	}
	if !base.BaseValue.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("expected base value 1, got %s", base.BaseValue)
	}
	if base.EconomyID != economy.ID {
		t.Fatalf("base currency bound to %s", base.EconomyID)
	}

	currencies, err := svc.Currencies(ctx, economy.ID)
	if err != nil {
		t.Fatalf("currencies: %v", err)
	}
	if len(currencies) != 1 {
		t.Fatalf("expected 1 currency, got %d", len(currencies))
	}
}

func TestGetCurrency(t *testing.T) {
	svc, _, economy := newFixture(t)
	ctx := context.Background()

	got, err := svc.Currency(ctx, economy.BaseCurrencyID)
	if err != nil {
		t.Fatalf("get currency: %v", err)
	}
	if got.Abbrev != "gp" {
		t.Fatalf("expected gp, got %q", got.Abbrev)
	}

	if _, err := svc.Currency(ctx, "missing"); !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCurrencyValidation(t *testing.T) {
	svc, _, economy := newFixture(t)
	ctx := context.Background()

	_, err := svc.CreateCurrency(ctx, CreateCurrencyInput{
		EconomyID: economy.ID,
		Name:      "Copper",
		Abbrev:    "cp",
		BaseValue: decimal.Zero,
	})
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero base value, got %v", err)
	}

	_, err = svc.CreateCurrency(ctx, CreateCurrencyInput{
		EconomyID: economy.ID,
		Name:      "Copper",
		Abbrev:    "cp",
		BaseValue: decimal.RequireFromString("-1"),
	})
	if !errors.Is(err, ledger.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative base value, got %v", err)
	}

	// Duplicate abbreviation within the economy.
	_, err = svc.CreateCurrency(ctx, CreateCurrencyInput{
		EconomyID: economy.ID,
		Name:      "Gilded",
		Abbrev:    "gp",
		BaseValue: decimal.NewFromInt(2),
	})
	if !errors.Is(err, ledger.ErrConflict) {
		t.Fatalf("expected ErrConflict for duplicate abbrev, got %v", err)
	}
}

func TestBaseValueOneDoesNotFlipBase(t *testing.T) {
	svc, _, economy := newFixture(t)
	ctx := context.Background()

	created, err := svc.CreateCurrency(ctx, CreateCurrencyInput{
		EconomyID: economy.ID,
		Name:      "Trade Bar",
		Abbrev:    "tb",
		BaseValue: decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("create currency: %v", err)
	}

	got, err := svc.Get(ctx, economy.ID)
	if err != nil {
		t.Fatalf("get economy: %v", err)
	}
	if got.BaseCurrencyID == created.ID {
		t.Fatal("creating a base-value-1 currency must not change the designated base")
	}
	if got.BaseCurrencyID != economy.BaseCurrencyID {
		t.Fatalf("base changed to %s", got.BaseCurrencyID)
	}
}

func TestSetBaseCurrencyRescales(t *testing.T) {
	svc, mem, economy := newFixture(t)
	ctx := context.Background()

	platinum, err := svc.CreateCurrency(ctx, CreateCurrencyInput{
		EconomyID: economy.ID,
		Name:      "Platinum",
		Abbrev:    "pp",
		BaseValue: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create platinum: %v", err)
	}

	if err := svc.SetBaseCurrency(ctx, economy.ID, platinum.ID); err != nil {
		t.Fatalf("set base: %v", err)
	}

	st, err := mem.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, _ := st.Economy(economy.ID)
	if got.BaseCurrencyID != platinum.ID {
		t.Fatalf("base not reassigned, got %s", got.BaseCurrencyID)
	}
	pp, _ := st.Currency(platinum.ID)
	if !pp.BaseValue.Equal(decimal.NewFromInt(1)) {
		t.Fatalf("new base should carry value 1, got %s", pp.BaseValue)
	}
	gp, _ := st.Currency(economy.BaseCurrencyID)
	if !gp.BaseValue.Equal(decimal.RequireFromString("0.1")) {
		t.Fatalf("gold should rescale to 0.1, got %s", gp.BaseValue)
	}
}

func TestDeleteCurrencyGuards(t *testing.T) {
	svc, mem, economy := newFixture(t)
	ctx := context.Background()

	silver, err := svc.CreateCurrency(ctx, CreateCurrencyInput{
		EconomyID: economy.ID,
		Name:      "Silver",
		Abbrev:    "sp",
		BaseValue: decimal.RequireFromString("0.1"),
	})
	if err != nil {
		t.Fatalf("create silver: %v", err)
	}

	// Reference silver from an account, then deletion must conflict.
	if _, err := mem.Update(ctx, func(st *ledger.State) error {
		st.Accounts["acct-1"] = ledger.Account{ID: "acct-1", CurrencyID: silver.ID, Active: true}
		return nil
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	if err := svc.DeleteCurrency(ctx, silver.ID); !errors.Is(err, ledger.ErrConflict) {
		t.Fatalf("expected ErrConflict while referenced, got %v", err)
	}

	// Remove the reference and deletion succeeds.
	if _, err := mem.Update(ctx, func(st *ledger.State) error {
		delete(st.Accounts, "acct-1")
		return nil
	}); err != nil {
		t.Fatalf("drop account: %v", err)
	}
	if err := svc.DeleteCurrency(ctx, silver.ID); err != nil {
		t.Fatalf("delete after dereference: %v", err)
	}

	// The base currency is protected even when unreferenced.
	if err := svc.DeleteCurrency(ctx, economy.BaseCurrencyID); !errors.Is(err, ledger.ErrConflict) {
		t.Fatalf("expected ErrConflict deleting base currency, got %v", err)
	}
}

func TestDeleteEconomyCascades(t *testing.T) {
	svc, mem, economy := newFixture(t)
	ctx := context.Background()

	if _, err := mem.Update(ctx, func(st *ledger.State) error {
		st.Banks["bank-1"] = ledger.Bank{ID: "bank-1", EconomyID: economy.ID}
		st.Accounts["acct-1"] = ledger.Account{ID: "acct-1", BankID: "bank-1", CurrencyID: economy.BaseCurrencyID, Active: true}
		st.Transactions = append(st.Transactions, ledger.Transaction{ID: "tx-1", AccountID: "acct-1"})
		return nil
	}); err != nil {
		t.Fatalf("seed dependents: %v", err)
	}

	if err := svc.DeleteEconomy(ctx, economy.ID); err != nil {
		t.Fatalf("delete economy: %v", err)
	}

	st, err := mem.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(st.Economies) != 0 || len(st.Currencies) != 0 || len(st.Banks) != 0 || len(st.Accounts) != 0 || len(st.Transactions) != 0 {
		t.Fatalf("cascade incomplete: %+v", st)
	}
}

func TestExchangeRateAcrossEconomies(t *testing.T) {
	svc, _, economy := newFixture(t)
	ctx := context.Background()

	other, err := svc.CreateEconomy(ctx, CreateEconomyInput{
		Name:         "Empire",
		BaseCurrency: CurrencySpec{Name: "Crown", Abbrev: "cr"},
	})
	if err != nil {
		t.Fatalf("create second economy: %v", err)
	}

	if _, err := svc.ExchangeRate(ctx, economy.BaseCurrencyID, other.BaseCurrencyID); !errors.Is(err, ledger.ErrNotConvertible) {
		t.Fatalf("expected ErrNotConvertible, got %v", err)
	}

	if err := svc.SetRateOverride(ctx, economy.BaseCurrencyID, other.BaseCurrencyID, decimal.NewFromInt(2)); err != nil {
		t.Fatalf("set override: %v", err)
	}
	rate, err := svc.ExchangeRate(ctx, economy.BaseCurrencyID, other.BaseCurrencyID)
	if err != nil {
		t.Fatalf("rate after override: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("expected rate 2, got %s", rate)
	}
}
