// Package store persists the world document. Every mutation goes through
// Update, which funnels all writers in the process through one lock: load
// the latest document, apply a pure function to a private copy, persist.
// There is no cross-process coordination beyond last-writer-wins.
package store

import (
	"context"

	"github.com/realmbank/realmbank/internal/ledger"
)

// UpdateFunc mutates a private copy of the document. Returning an error
// aborts the update; nothing is persisted and nothing becomes visible.
type UpdateFunc func(st *ledger.State) error

// Store is the contract implemented by document backends.
type Store interface {
	// Load returns the latest document, or a complete empty one when no
	// prior state exists.
	Load(ctx context.Context) (ledger.State, error)
	// Save persists the whole document.
	Save(ctx context.Context, st ledger.State) error
	// Update applies fn under the single-writer funnel and returns the
	// committed document. Cancellation before persistence discards the
	// mutation entirely.
	Update(ctx context.Context, fn UpdateFunc) (ledger.State, error)
}
