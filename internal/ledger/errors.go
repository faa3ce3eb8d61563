package ledger

import "errors"

var (
	// ErrNotFound indicates an unknown economy, currency, bank, account or
	// transaction id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidAmount rejects non-positive amounts and rates.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds occurs when an account lacks available balance
	// to cover a requested posting.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInactiveAccount rejects operations touching a closed account.
	ErrInactiveAccount = errors.New("account inactive")

	// ErrNotConvertible indicates no exchange path exists between two
	// currencies.
	ErrNotConvertible = errors.New("currencies not convertible")

	// ErrConflict rejects mutations that would strand live dependents,
	// such as deleting a currency still referenced by accounts.
	ErrConflict = errors.New("conflicting state")

	// ErrPersistence wraps store I/O failures; callers may retry.
	ErrPersistence = errors.New("persistence failure")
)
