package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/realmbank/realmbank/internal/ledger"
)

// File stores one world document as a JSON file under a data directory.
// Writes go through a temp file and rename so a crash mid-save never
// leaves a torn document behind.
type File struct {
	mu   sync.Mutex
	path string
}

// NewFile builds a file-backed store for the given world id.
func NewFile(dir, world string) *File {
	return &File{path: filepath.Join(dir, world+".json")}
}

// Load reads the document, returning an empty one when the file does not
// exist yet.
func (f *File) Load(_ context.Context) (ledger.State, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ledger.NewState(), nil
		}
		return ledger.State{}, fmt.Errorf("read %s: %w: %v", f.path, ledger.ErrPersistence, err)
	}
	st := ledger.NewState()
	if err := json.Unmarshal(raw, &st); err != nil {
		return ledger.State{}, fmt.Errorf("decode %s: %w: %v", f.path, ledger.ErrPersistence, err)
	}
	return st, nil
}

// Save writes the document atomically.
func (f *File) Save(_ context.Context, st ledger.State) error {
	raw, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w: %v", f.path, ledger.ErrPersistence, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w: %v", filepath.Dir(f.path), ledger.ErrPersistence, err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w: %v", tmp, ledger.ErrPersistence, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w: %v", tmp, ledger.ErrPersistence, err)
	}
	return nil
}

// Update runs fn against the latest document under the process-wide lock.
func (f *File) Update(ctx context.Context, fn UpdateFunc) (ledger.State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	st, err := f.Load(ctx)
	if err != nil {
		return ledger.State{}, err
	}
	if err := fn(&st); err != nil {
		return ledger.State{}, err
	}
	if err := ctx.Err(); err != nil {
		return ledger.State{}, err
	}
	if err := f.Save(ctx, st); err != nil {
		return ledger.State{}, err
	}
	return st, nil
}
