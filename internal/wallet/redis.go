package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
)

const (
	pursePrefix     = "purse:v1:"
	debitMaxRetries = 5
)

// RedisProvider keeps purse balances in Redis, one key per owner and
// currency code. Balances are stored as decimal strings; Debit uses an
// optimistic WATCH transaction so concurrent debits cannot overdraw.
type RedisProvider struct {
	client *redis.Client
}

// NewRedisProvider constructs a Redis-backed purse store.
func NewRedisProvider(client *redis.Client) *RedisProvider {
	return &RedisProvider{client: client}
}

func (p *RedisProvider) Balance(ctx context.Context, ownerID, code string) (decimal.Decimal, error) {
	raw, err := p.client.Get(ctx, pursePrefix+purseKey(ownerID, code)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("read purse: %w: %v", ledger.ErrPersistence, err)
	}
	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode purse balance %q: %w: %v", raw, ledger.ErrPersistence, err)
	}
	return balance, nil
}

func (p *RedisProvider) Credit(ctx context.Context, ownerID, code string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("credit amount must be positive: %w", ledger.ErrInvalidAmount)
	}
	return p.adjust(ctx, ownerID, code, amount)
}

func (p *RedisProvider) Debit(ctx context.Context, ownerID, code string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("debit amount must be positive: %w", ledger.ErrInvalidAmount)
	}
	return p.adjust(ctx, ownerID, code, amount.Neg())
}

func (p *RedisProvider) adjust(ctx context.Context, ownerID, code string, delta decimal.Decimal) error {
	key := pursePrefix + purseKey(ownerID, code)

	apply := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Result()
		balance := decimal.Zero
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("read purse: %w: %v", ledger.ErrPersistence, err)
		default:
			balance, err = decimal.NewFromString(raw)
			if err != nil {
				return fmt.Errorf("decode purse balance %q: %w: %v", raw, ledger.ErrPersistence, err)
			}
		}
		next := balance.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("purse holds %s: %w", balance, ledger.ErrInsufficientFunds)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next.String(), 0)
			return nil
		})
		return err
	}

	for i := 0; i < debitMaxRetries; i++ {
		err := p.client.Watch(ctx, apply, key)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("purse update contention: %w", ledger.ErrPersistence)
}
