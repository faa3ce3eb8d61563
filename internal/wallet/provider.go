// Package wallet bridges the ledger to an external per-character purse.
// The purse lives outside the ledger document, so moves between the two
// are compensating rather than atomic; see Bridge.
package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
)

// Provider reads and mutates the external purse, keyed by owner and
// currency code. Debit fails with ErrInsufficientFunds when the purse
// cannot cover the amount.
type Provider interface {
	Balance(ctx context.Context, ownerID, code string) (decimal.Decimal, error)
	Credit(ctx context.Context, ownerID, code string, amount decimal.Decimal) error
	Debit(ctx context.Context, ownerID, code string, amount decimal.Decimal) error
}

// MemoryProvider is a concurrency-safe in-memory purse useful for tests.
type MemoryProvider struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

// NewMemoryProvider constructs an empty in-memory purse store.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{balances: make(map[string]decimal.Decimal)}
}

// Seed sets a purse balance directly, bypassing credit/debit checks.
func (p *MemoryProvider) Seed(ownerID, code string, amount decimal.Decimal) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balances[purseKey(ownerID, code)] = amount
}

func (p *MemoryProvider) Balance(_ context.Context, ownerID, code string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balances[purseKey(ownerID, code)], nil
}

func (p *MemoryProvider) Credit(_ context.Context, ownerID, code string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive: %w", ledger.ErrInvalidAmount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := purseKey(ownerID, code)
	p.balances[key] = p.balances[key].Add(amount)
	return nil
}

func (p *MemoryProvider) Debit(_ context.Context, ownerID, code string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive: %w", ledger.ErrInvalidAmount)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	key := purseKey(ownerID, code)
	if p.balances[key].LessThan(amount) {
		return fmt.Errorf("purse %s holds %s: %w", key, p.balances[key], ledger.ErrInsufficientFunds)
	}
	p.balances[key] = p.balances[key].Sub(amount)
	return nil
}

func purseKey(ownerID, code string) string {
	return ownerID + ":" + code
}
