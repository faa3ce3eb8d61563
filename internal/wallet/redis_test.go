package wallet

import (
	"context"
	"errors"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
)

func newRedisProvider(t *testing.T) *RedisProvider {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return NewRedisProvider(client)
}

func TestRedisProviderCreditDebit(t *testing.T) {
	p := newRedisProvider(t)
	ctx := context.Background()

	if err := p.Credit(ctx, "actor-1", "gp", decimal.RequireFromString("12.5")); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := p.Debit(ctx, "actor-1", "gp", decimal.RequireFromString("2.5")); err != nil {
		t.Fatalf("debit: %v", err)
	}

	balance, err := p.Balance(ctx, "actor-1", "gp")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected balance 10, got %s", balance)
	}
}

func TestRedisProviderDebitOverdraw(t *testing.T) {
	p := newRedisProvider(t)
	ctx := context.Background()

	if err := p.Credit(ctx, "actor-1", "gp", decimal.NewFromInt(5)); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := p.Debit(ctx, "actor-1", "gp", decimal.NewFromInt(6)); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	balance, _ := p.Balance(ctx, "actor-1", "gp")
	if !balance.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("overdraw mutated balance: %s", balance)
	}
}

func TestRedisProviderEmptyPurse(t *testing.T) {
	p := newRedisProvider(t)
	ctx := context.Background()

	balance, err := p.Balance(ctx, "actor-1", "gp")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if !balance.IsZero() {
		t.Fatalf("expected empty purse, got %s", balance)
	}
	if err := p.Debit(ctx, "actor-1", "gp", decimal.NewFromInt(1)); !errors.Is(err, ledger.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestRedisProviderKeysIsolated(t *testing.T) {
	p := newRedisProvider(t)
	ctx := context.Background()

	if err := p.Credit(ctx, "actor-1", "gp", decimal.NewFromInt(3)); err != nil {
		t.Fatalf("credit gp: %v", err)
	}
	if err := p.Credit(ctx, "actor-1", "pp", decimal.NewFromInt(7)); err != nil {
		t.Fatalf("credit pp: %v", err)
	}
	if err := p.Credit(ctx, "actor-2", "gp", decimal.NewFromInt(11)); err != nil {
		t.Fatalf("credit other owner: %v", err)
	}

	gp, _ := p.Balance(ctx, "actor-1", "gp")
	pp, _ := p.Balance(ctx, "actor-1", "pp")
	other, _ := p.Balance(ctx, "actor-2", "gp")
	if !gp.Equal(decimal.NewFromInt(3)) || !pp.Equal(decimal.NewFromInt(7)) || !other.Equal(decimal.NewFromInt(11)) {
		t.Fatalf("purse keys leaked: %s/%s/%s", gp, pp, other)
	}
}
