// Package reconcile keeps one local user per person across the identity
// provider and the local database.
//
// Users are reachable by two unique keys: the provider user id (set once a
// user is claimed) and the email address. Users named as feedback authors
// before they register exist unclaimed, keyed by email only. Provider
// lifecycle events are reconciled against both keys.
//
// # Decision Table
//
// For each event the Reconciler loads the user holding the provider id and
// the user holding the primary email, then takes the first matching action:
//
//	provider id unknown, email unknown          -> create (created events only)
//	provider id unknown, email unclaimed        -> claim  (created events only)
//	provider id unknown, email claimed          -> claim  (replaces the old provider id)
//	provider id unknown, update event           -> NotFoundError
//	email unknown                               -> update (move to the new email)
//	email on the same user                      -> update, or noop when unchanged
//	email on a different claimed user           -> ConflictError
//	email on a different unclaimed user         -> merge
//
// A merge moves every feedback reference of the unclaimed user to the claimed
// one, deletes the unclaimed user and then writes the new email.
//
// # Transactions
//
// Lookups, decision and writes of one event run in one Store transaction, with
// row locks where the database supports them. A unique-key violation means a
// concurrent handler won the race and is reported as a retryable ConflictError;
// any other store failure is a TransactionError. Both leave the store untouched,
// so the same event can be replayed.
//
// # Usage
//
//	r := reconcile.NewReconciler(reconcile.NewGormStore(db), logger, reconcile.Options{})
//	out, err := r.Handle(ctx, event)
//	switch {
//	case errors.Is(err, reconcile.ErrNotFound): // 404
//	case errors.Is(err, reconcile.ErrConflict): // 409
//	}
package reconcile
