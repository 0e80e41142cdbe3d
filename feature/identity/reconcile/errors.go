package reconcile

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is matched by NotFoundError.
	ErrNotFound = errors.New("identity not found")
	// ErrConflict is matched by ConflictError.
	ErrConflict = errors.New("identity conflict")
	// ErrTransaction is matched by TransactionError.
	ErrTransaction = errors.New("store transaction failed")
	// ErrDuplicateKey is returned by a Store when a unique constraint rejects a write.
	ErrDuplicateKey = errors.New("duplicate key")
)

// NotFoundError is returned when an update references a provider identity
// that has no local record. It usually means a created event was missed.
type NotFoundError struct {
	ProviderUserID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no local user for provider id %q", e.ProviderUserID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError is returned when two identities would share one email.
//
// Retryable is set when the conflict came from losing a unique-constraint race;
// replaying the event will then observe the winner's state. A non-retryable
// conflict is between two claimed identities and needs an operator.
type ConflictError struct {
	Email     string
	Reason    string
	Retryable bool
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %q: %s", e.Email, e.Reason)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// TransactionError wraps a store failure that aborted the transaction.
// The whole event can be retried.
type TransactionError struct {
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("store transaction failed: %v", e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

func (e *TransactionError) Is(target error) bool {
	return target == ErrTransaction
}

// IsRetryable reports whether replaying the same event may succeed.
func IsRetryable(err error) bool {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Retryable
	}
	return errors.Is(err, ErrTransaction)
}

// ErrInvalidEvent is returned for events missing the provider id or the primary email.
var ErrInvalidEvent = errors.New("invalid identity event")
