// Package ledger defines the persisted document model shared by every
// service: economies, currencies, banks, accounts and the append-only
// transaction log. All monetary values use decimal arithmetic.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentVersion is stamped on every persisted document for forward migration.
const CurrentVersion = 1

// Transaction types recorded in the audit log.
const (
	TxDeposit    = "deposit"
	TxWithdrawal = "withdrawal"
	TxTransfer   = "transfer"
	TxExchange   = "exchange"
	TxInterest   = "interest"
	TxFee        = "fee"
)

// Economy is a named monetary system containing one or more currencies.
type Economy struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	BaseCurrencyID string          `json:"base_currency_id"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	GrowthRate     decimal.Decimal `json:"growth_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Currency belongs to exactly one economy. BaseValue expresses its worth
// relative to the economy's base currency, which always carries 1.
type Currency struct {
	ID        string          `json:"id"`
	EconomyID string          `json:"economy_id"`
	Name      string          `json:"name"`
	Abbrev    string          `json:"abbrev"`
	Symbol    string          `json:"symbol,omitempty"`
	BaseValue decimal.Decimal `json:"base_value"`
	Color     string          `json:"color,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// RateOverride pins the conversion rate for an ordered currency pair,
// taking precedence over base-value derivation. Later entries win.
type RateOverride struct {
	FromCurrencyID string          `json:"from_currency_id"`
	ToCurrencyID   string          `json:"to_currency_id"`
	Rate           decimal.Decimal `json:"rate"`
	SetAt          time.Time       `json:"set_at"`
}

// FeeSchedule holds per-bank fee percentages applied by the engine.
type FeeSchedule struct {
	WithdrawalPct decimal.Decimal `json:"withdrawal_pct"`
	TransferPct   decimal.Decimal `json:"transfer_pct"`
	ExchangePct   decimal.Decimal `json:"exchange_pct"`
}

// Bank is an institution within an economy hosting accounts. InterestRate,
// when set, overrides the economy rate for interest postings. EntityID
// optionally binds the bank to an external actor (an NPC banker).
type Bank struct {
	ID           string           `json:"id"`
	EconomyID    string           `json:"economy_id"`
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	Fees         FeeSchedule      `json:"fees"`
	EntityID     string           `json:"entity_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// Account holds a balance for one owner at one bank in one currency.
// Closed accounts stay in the document with Active=false so their
// transaction history remains resolvable.
type Account struct {
	ID         string          `json:"id"`
	BankID     string          `json:"bank_id"`
	CurrencyID string          `json:"currency_id"`
	OwnerID    string          `json:"owner_id"`
	OwnerName  string          `json:"owner_name"`
	Name       string          `json:"name"`
	Balance    decimal.Decimal `json:"balance"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Transaction is an immutable audit record. Amount is signed: in-flows
// positive, out-flows negative. BalanceAfter snapshots the account balance
// at commit time and is never recomputed. The two legs of a transfer
// reference each other through RelatedAccountID and RelatedTransactionID.
type Transaction struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	CurrencyID           string          `json:"currency_id"`
	BalanceAfter         decimal.Decimal `json:"balance_after"`
	Description          string          `json:"description,omitempty"`
	RelatedAccountID     string          `json:"related_account_id,omitempty"`
	RelatedTransactionID string          `json:"related_transaction_id,omitempty"`
	InitiatorID          string          `json:"initiator_id,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
}

// State is the whole-world document owned by the store. Entity maps are
// keyed by id; Transactions and RateOverrides are append-only.
type State struct {
	Version       int                 `json:"version"`
	Economies     map[string]Economy  `json:"economies"`
	Currencies    map[string]Currency `json:"currencies"`
	Banks         map[string]Bank     `json:"banks"`
	Accounts      map[string]Account  `json:"accounts"`
	Transactions  []Transaction       `json:"transactions"`
	RateOverrides []RateOverride      `json:"rate_overrides"`
}

// NewState returns a structurally complete empty document.
func NewState() State {
	return State{
		Version:    CurrentVersion,
		Economies:  make(map[string]Economy),
		Currencies: make(map[string]Currency),
		Banks:      make(map[string]Bank),
		Accounts:   make(map[string]Account),
	}
}

// Clone returns a deep copy. Updates are applied to clones so that a
// rejected or cancelled mutation never leaks into the committed document.
func (s State) Clone() State {
	out := State{
		Version:    s.Version,
		Economies:  make(map[string]Economy, len(s.Economies)),
		Currencies: make(map[string]Currency, len(s.Currencies)),
		Banks:      make(map[string]Bank, len(s.Banks)),
		Accounts:   make(map[string]Account, len(s.Accounts)),
	}
	for id, e := range s.Economies {
		out.Economies[id] = e
	}
	for id, c := range s.Currencies {
		out.Currencies[id] = c
	}
	for id, b := range s.Banks {
		if b.InterestRate != nil {
			rate := *b.InterestRate
			b.InterestRate = &rate
		}
		out.Banks[id] = b
	}
	for id, a := range s.Accounts {
		out.Accounts[id] = a
	}
	out.Transactions = append([]Transaction(nil), s.Transactions...)
	out.RateOverrides = append([]RateOverride(nil), s.RateOverrides...)
	return out
}
