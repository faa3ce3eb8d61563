package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/realmbank/realmbank/internal/ledger"
)

// Postgres keeps each world document in a jsonb row. The document is still
// written whole; Postgres buys durability and shared access, not
// row-level entity storage.
type Postgres struct {
	mu    sync.Mutex
	db    *pgxpool.Pool
	world string
}

// NewPostgres builds a Postgres-backed store for the given world id and
// ensures the backing table exists.
func NewPostgres(ctx context.Context, db *pgxpool.Pool, world string) (*Postgres, error) {
	const schema = `CREATE TABLE IF NOT EXISTS worlds (
        id         text PRIMARY KEY,
        version    int NOT NULL,
        doc        jsonb NOT NULL,
        updated_at timestamptz NOT NULL
    )`
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensure worlds table: %w: %v", ledger.ErrPersistence, err)
	}
	return &Postgres{db: db, world: world}, nil
}

// Load fetches the document, returning an empty one when the row is absent.
func (p *Postgres) Load(ctx context.Context) (ledger.State, error) {
	var raw []byte
	err := p.db.QueryRow(ctx, `SELECT doc FROM worlds WHERE id = $1`, p.world).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ledger.NewState(), nil
		}
		return ledger.State{}, fmt.Errorf("load world %s: %w: %v", p.world, ledger.ErrPersistence, err)
	}
	st := ledger.NewState()
	if err := json.Unmarshal(raw, &st); err != nil {
		return ledger.State{}, fmt.Errorf("decode world %s: %w: %v", p.world, ledger.ErrPersistence, err)
	}
	return st, nil
}

// Save upserts the whole document.
func (p *Postgres) Save(ctx context.Context, st ledger.State) error {
	raw, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode world %s: %w: %v", p.world, ledger.ErrPersistence, err)
	}
	_, err = p.db.Exec(ctx, `INSERT INTO worlds (id, version, doc, updated_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO UPDATE SET version = $2, doc = $3, updated_at = $4`,
		p.world, st.Version, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save world %s: %w: %v", p.world, ledger.ErrPersistence, err)
	}
	return nil
}

// Update runs fn against the latest document under the process-wide lock.
func (p *Postgres) Update(ctx context.Context, fn UpdateFunc) (ledger.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	st, err := p.Load(ctx)
	if err != nil {
		return ledger.State{}, err
	}
	if err := fn(&st); err != nil {
		return ledger.State{}, err
	}
	if err := ctx.Err(); err != nil {
		return ledger.State{}, err
	}
	if err := p.Save(ctx, st); err != nil {
		return ledger.State{}, err
	}
	return st, nil
}
