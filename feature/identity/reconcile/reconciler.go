package reconcile

import (
	"context"
	"errors"
	"fmt"

	"peer-feedback/core/utils"
	"peer-feedback/feature/models"

	"go.uber.org/zap"
)

// Options tunes reconciliation behaviour.
type Options struct {
	// CreateOnMissingUpdate handles an update for an unknown provider id like a
	// create instead of failing with NotFoundError.
	CreateOnMissingUpdate bool
}

// Reconciler keeps exactly one local user per provider identity.
type Reconciler struct {
	store  Store
	logger *zap.Logger
	opts   Options
}

// NewReconciler creates a reconciler over store.
func NewReconciler(store Store, logger *zap.Logger, opts Options) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: logger,
		opts:   opts,
	}
}

// Handle dispatches an event by type. Unhandled types succeed with ActionIgnore.
func (r *Reconciler) Handle(ctx context.Context, e IdentityEvent) (*Outcome, error) {
	switch e.Type {
	case EventUserCreated:
		return r.HandleCreated(ctx, e)
	case EventUserUpdated:
		return r.HandleUpdated(ctx, e)
	default:
		r.logger.Debug("Ignoring identity event", zap.String("type", string(e.Type)))
		return &Outcome{Plan: ignorePlan(e)}, nil
	}
}

// HandleCreated upserts the user keyed by the event's primary email.
// Replaying the same event is a no-op.
func (r *Reconciler) HandleCreated(ctx context.Context, e IdentityEvent) (*Outcome, error) {
	e.Type = EventUserCreated
	return r.run(ctx, e)
}

// HandleUpdated refreshes the user claimed by the event's provider id,
// merging an unclaimed record that already holds the new email.
func (r *Reconciler) HandleUpdated(ctx context.Context, e IdentityEvent) (*Outcome, error) {
	e.Type = EventUserUpdated
	return r.run(ctx, e)
}

// Plan returns the decision Handle would take, without writing anything.
func (r *Reconciler) Plan(ctx context.Context, e IdentityEvent) (*Plan, error) {
	if e.Type != EventUserCreated && e.Type != EventUserUpdated {
		p := ignorePlan(e)
		return &p, nil
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	plan, err := r.decide(ctx, r.store, e)
	if err != nil {
		return nil, classify(err, e)
	}
	return plan, nil
}

func (r *Reconciler) run(ctx context.Context, e IdentityEvent) (*Outcome, error) {
	if err := validate(e); err != nil {
		return nil, err
	}

	l := r.logger.With(
		zap.String("event", string(e.Type)),
		zap.String("provider_user_id", e.ProviderUserID),
	)

	var out *Outcome
	err := r.store.Transaction(ctx, func(tx Store) error {
		plan, err := r.decide(ctx, tx, e)
		if err != nil {
			return err
		}

		user, err := apply(ctx, tx, plan)
		if err != nil {
			return err
		}

		plan.UserID = user.ID
		out = &Outcome{Plan: *plan, User: user}
		return nil
	})
	if err != nil {
		err = classify(err, e)
		switch {
		case errors.Is(err, ErrTransaction):
			l.Error("Identity reconciliation failed", zap.Error(err))
		default:
			l.Warn("Identity reconciliation rejected", zap.Error(err), zap.Bool("retryable", IsRetryable(err)))
		}
		return nil, err
	}

	l.Info("Identity reconciled",
		zap.String("action", string(out.Action)),
		zap.String("user_id", out.UserID),
		zap.String("merged_user_id", out.MergedUserID),
	)
	return out, nil
}

// decide evaluates the decision table against the records currently holding
// the event's provider id and email. The first matching row wins.
func (r *Reconciler) decide(ctx context.Context, s Store, e IdentityEvent) (*Plan, error) {
	fields := fieldsFromEvent(e)

	byProvider, err := s.FindByProviderID(ctx, e.ProviderUserID)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.FindByEmail(ctx, fields.Email)
	if err != nil {
		return nil, err
	}

	if byProvider == nil {
		if e.Type == EventUserUpdated && !r.opts.CreateOnMissingUpdate {
			return nil, &NotFoundError{ProviderUserID: e.ProviderUserID}
		}

		switch {
		case byEmail == nil:
			return &Plan{Action: ActionCreate, Reason: "no user holds this email", fields: fields}, nil
		case byEmail.IsClaimed():
			// The email owner decides; the previous provider id is replaced.
			return &Plan{
				Action: ActionClaim,
				UserID: byEmail.ID,
				Reason: fmt.Sprintf("re-claiming user from provider id %s", *byEmail.ProviderUserID),
				fields: fields,
			}, nil
		default:
			return &Plan{Action: ActionClaim, UserID: byEmail.ID, Reason: "claiming unclaimed user with this email", fields: fields}, nil
		}
	}

	switch {
	case byEmail == nil:
		return &Plan{Action: ActionUpdate, UserID: byProvider.ID, Reason: "moving claimed user to a new email", fields: fields}, nil
	case byEmail.ID == byProvider.ID:
		if fields.matches(byProvider) {
			return &Plan{Action: ActionNoop, UserID: byProvider.ID, Reason: "user already up to date", fields: fields, current: byProvider}, nil
		}
		return &Plan{Action: ActionUpdate, UserID: byProvider.ID, Reason: "refreshing claimed user", fields: fields}, nil
	case byEmail.IsClaimed():
		return nil, &ConflictError{
			Email:  fields.Email,
			Reason: fmt.Sprintf("email is claimed by provider id %s", *byEmail.ProviderUserID),
		}
	default:
		return &Plan{
			Action:       ActionMerge,
			UserID:       byProvider.ID,
			MergedUserID: byEmail.ID,
			Reason:       "merging unclaimed user into claimed user",
			fields:       fields,
		}, nil
	}
}

func apply(ctx context.Context, tx Store, plan *Plan) (*models.User, error) {
	switch plan.Action {
	case ActionCreate:
		return tx.CreateUser(ctx, plan.fields)
	case ActionClaim, ActionUpdate:
		return tx.UpdateUser(ctx, plan.UserID, plan.fields)
	case ActionMerge:
		// The duplicate must be gone before its email can move to the survivor.
		if err := tx.ReassignRelationships(ctx, plan.MergedUserID, plan.UserID); err != nil {
			return nil, err
		}
		if err := tx.DeleteUser(ctx, plan.MergedUserID); err != nil {
			return nil, err
		}
		return tx.UpdateUser(ctx, plan.UserID, plan.fields)
	case ActionNoop:
		return plan.current, nil
	default:
		return nil, fmt.Errorf("unexpected action %q", plan.Action)
	}
}

func validate(e IdentityEvent) error {
	if e.ProviderUserID == "" {
		return fmt.Errorf("%w: missing provider user id", ErrInvalidEvent)
	}
	if utils.NormalizeEmail(e.PrimaryEmail) == "" {
		return fmt.Errorf("%w: missing primary email", ErrInvalidEvent)
	}
	return nil
}

// classify maps a failure inside the transaction onto the error taxonomy.
func classify(err error, e IdentityEvent) error {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidEvent):
		return err
	case errors.Is(err, ErrDuplicateKey):
		return &ConflictError{
			Email:     utils.NormalizeEmail(e.PrimaryEmail),
			Reason:    "lost a concurrent write on a unique key",
			Retryable: true,
		}
	default:
		return &TransactionError{Err: err}
	}
}

func ignorePlan(e IdentityEvent) Plan {
	return Plan{Action: ActionIgnore, Reason: fmt.Sprintf("event type %q is not reconciled", e.Type)}
}
