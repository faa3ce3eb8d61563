package store

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/realmbank/realmbank/internal/ledger"
)

func TestFileLoadReturnsEmptyState(t *testing.T) {
	fs := NewFile(t.TempDir(), "world-1")

	st, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if st.Version != ledger.CurrentVersion {
		t.Fatalf("expected version %d, got %d", ledger.CurrentVersion, st.Version)
	}
	if st.Economies == nil || st.Accounts == nil {
		t.Fatal("expected initialized maps")
	}
}

func TestFileSaveLoadRoundTrip(t *testing.T) {
	fs := NewFile(t.TempDir(), "world-1")
	ctx := context.Background()

	st := ledger.NewState()
	st.Accounts["acct-1"] = ledger.Account{
		ID:      "acct-1",
		Balance: decimal.RequireFromString("12.5"),
		Active:  true,
	}
	st.Transactions = append(st.Transactions, ledger.Transaction{ID: "tx-1", AccountID: "acct-1", Type: ledger.TxDeposit})

	if err := fs.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Accounts["acct-1"].Balance.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("expected balance 12.5, got %s", loaded.Accounts["acct-1"].Balance)
	}
	if len(loaded.Transactions) != 1 || loaded.Transactions[0].ID != "tx-1" {
		t.Fatalf("unexpected transactions: %+v", loaded.Transactions)
	}
}

func TestFileUpdateRejectionPersistsNothing(t *testing.T) {
	fs := NewFile(t.TempDir(), "world-1")
	ctx := context.Background()

	rejected := errors.New("rejected")
	if _, err := fs.Update(ctx, func(st *ledger.State) error {
		st.Accounts["acct-1"] = ledger.Account{ID: "acct-1"}
		return rejected
	}); !errors.Is(err, rejected) {
		t.Fatalf("expected rejection, got %v", err)
	}

	st, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(st.Accounts) != 0 {
		t.Fatal("rejected update leaked into the document")
	}
}

func TestFileUpdateCancelledBeforePersist(t *testing.T) {
	fs := NewFile(t.TempDir(), "world-1")

	ctx, cancel := context.WithCancel(context.Background())
	if _, err := fs.Update(ctx, func(st *ledger.State) error {
		st.Accounts["acct-1"] = ledger.Account{ID: "acct-1"}
		cancel()
		return nil
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	st, err := fs.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(st.Accounts) != 0 {
		t.Fatal("cancelled update leaked into the document")
	}
}

func TestFileUpdateSerializesWriters(t *testing.T) {
	fs := NewFile(t.TempDir(), "world-1")
	ctx := context.Background()

	if _, err := fs.Update(ctx, func(st *ledger.State) error {
		st.Accounts["acct-1"] = ledger.Account{ID: "acct-1", Balance: decimal.Zero, Active: true}
		return nil
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	const workers = 10
	amount := decimal.NewFromInt(7)

	var wg sync.WaitGroup
	errCh := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fs.Update(ctx, func(st *ledger.State) error {
				acct := st.Accounts["acct-1"]
				acct.Balance = acct.Balance.Add(amount)
				st.Accounts["acct-1"] = acct
				return nil
			})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent update: %v", err)
		}
	}

	st, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := amount.Mul(decimal.NewFromInt(workers))
	if !st.Accounts["acct-1"].Balance.Equal(want) {
		t.Fatalf("lost update: expected %s, got %s", want, st.Accounts["acct-1"].Balance)
	}
}

func TestMemoryUpdateIsolation(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	committed, err := mem.Update(ctx, func(st *ledger.State) error {
		st.Accounts["acct-1"] = ledger.Account{ID: "acct-1", Active: true, CreatedAt: time.Now().UTC()}
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// Mutating the returned copy must not touch the committed document.
	delete(committed.Accounts, "acct-1")

	st, err := mem.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := st.Accounts["acct-1"]; !ok {
		t.Fatal("committed document mutated through returned copy")
	}
}

func TestFileCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	fs := NewFile(dir, "world-1")
	ctx := context.Background()

	if err := os.WriteFile(fs.path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt doc: %v", err)
	}
	if _, err := fs.Load(ctx); !errors.Is(err, ledger.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
